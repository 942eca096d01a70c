// Package email derives placeholder profile fields from an email address so
// a pending account has something presentable before the applicant reaches
// the basic-info step.
package email

import (
	"strings"
	"unicode"
)

func isNameSeparator(r rune) bool {
	switch r {
	case '.', '_', '-', '+':
		return true
	}
	return false
}

// DeriveNameFromEmail guesses a first and last name from the address's local
// part: "jane.doe@example.com" becomes ("Jane", "Doe"). A single-word local
// part keeps "Member" as the last name; an unusable address yields
// ("Member", "Member").
func DeriveNameFromEmail(address string) (first, last string) {
	local := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		local = address[:at]
	}

	words := strings.FieldsFunc(local, isNameSeparator)
	if len(words) == 0 {
		return "Member", "Member"
	}

	first = capitalize(words[0])
	last = "Member"
	if len(words) > 1 {
		last = capitalize(words[len(words)-1])
	}
	return first, last
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
