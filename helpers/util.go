package helpers

import (
	"errors"
	"strings"
)

// GetSplitPart splits target by separate and returns the part at index
func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// NormalizePhone collapses a human-formatted Mexican mobile number into the
// single international form the message relay expects, e.g.
// "+52 1 55 1836 1539" -> "+5215518361539".
func NormalizePhone(phone string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	if cleaned == "" {
		return ""
	}
	if !strings.HasPrefix(cleaned, "+") {
		cleaned = "+521" + cleaned
	}
	return cleaned
}
