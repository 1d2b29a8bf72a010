package analysis

import "strings"

// MissingSections returns the required labels that do not appear in text,
// case-insensitively, keeping the order of required.
func MissingSections(text string, required []string) []string {
	missing := []string{}
	lowered := lowerString(text)

	for _, section := range required {
		if !strings.Contains(lowered, lowerString(section)) {
			missing = append(missing, section)
		}
	}

	return missing
}
