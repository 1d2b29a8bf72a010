package analysis

import "errors"

// Errors callers are expected to classify with errors.Is. All of them
// describe problems with the uploaded document and are safe to show
// to the user.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrDecode            = errors.New("failed to decode text")
	ErrParse             = errors.New("failed to parse document")
	ErrDocumentTooShort  = errors.New("document is too short or empty")
)

// IsUserError reports whether err stems from the uploaded document itself
func IsUserError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrParse) ||
		errors.Is(err, ErrDocumentTooShort)
}

// IsExtractionError reports whether err was raised while decoding document content
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrDecode) || errors.Is(err, ErrParse)
}
