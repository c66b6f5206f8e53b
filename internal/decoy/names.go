package decoy

import (
	"fmt"
	"strings"
	"unicode"
)

const maxNameLen = 64

// validateProcessName makes sure a slot name is a bare file name that can be
// joined under the proc directory.
func validateProcessName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("process name must not be empty")
	}
	if len(name) > maxNameLen {
		return "", fmt.Errorf("process name %q is too long (max %d characters)", name, maxNameLen)
	}
	if name == "." || name == ".." {
		return "", fmt.Errorf("process name %q is reserved", name)
	}
	for _, r := range name {
		if isAllowedNameRune(r) {
			continue
		}
		return "", fmt.Errorf("process name %q contains invalid character %q (allowed: letters, digits, '.', '-', '_')", name, r)
	}
	return name, nil
}

func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '-', '_', '.':
		return true
	default:
		return false
	}
}
