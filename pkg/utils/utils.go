package utils

import "strings"

// StringInSlice reports whether str is present in list.
func StringInSlice(str string, list []string) bool {
	for _, v := range list {
		if v == str {
			return true
		}
	}
	return false
}

// ContainsAnyKeyword reports whether s contains at least one of the
// keywords, case-insensitively. Arabic keywords have no case, so for them
// this is plain substring containment.
func ContainsAnyKeyword(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
