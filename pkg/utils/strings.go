package utils

import "strings"

// RemoveEmptyStrings drops empty and whitespace-only entries, trimming
// the survivors.
func RemoveEmptyStrings(slice []string) []string {
	var result []string

	for _, s := range slice {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}

	return result
}
