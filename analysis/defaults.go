package analysis

import (
	"strings"
	"unicode/utf8"
)

// MinTextLength is the minimum number of characters, after trimming
// whitespace, a document must contain to be analysed.
const MinTextLength = 100

// DefaultDangerousPhrases are the built-in risky clause markers
var DefaultDangerousPhrases = []string{
	"штраф",
	"пеня",
	"неустойка",
	"одностороннее расторжение",
	"безусловное обязательство",
	"автопролонгация",
	"безакцептное списание",
	"полная материальная ответственность",
	"без права отказа",
	"исключительные права",
	"бессрочное обязательство",
	"односторонний отказ",
	"полная ответственность за",
	"возмещение всех убытков",
	"неограниченная ответственность",
}

// RequiredSections are the headings every compliant contract is expected to contain
var RequiredSections = []string{
	"предмет договора",
	"стоимость",
	"срок",
	"ответственность сторон",
	"порядок разрешения споров",
	"реквизиты сторон",
}

// CheckLength fails with ErrDocumentTooShort when the trimmed text is below MinTextLength
func CheckLength(text string, minLength int) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minLength {
		return ErrDocumentTooShort
	}
	return nil
}
