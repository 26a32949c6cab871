// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chat

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether s is a syntactically plausible email
// address. This is a shape check, not deliverability.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// CheckMessageText rejects empty or whitespace-only message bodies.
func CheckMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return Validationf("message text is empty")
	}
	return nil
}

// CheckEmails rejects any syntactically invalid address in the list.
func CheckEmails(emails ...string) error {
	for _, e := range emails {
		if !ValidEmail(e) {
			return Validationf("invalid email %q", e)
		}
	}
	return nil
}

// CheckCommunityName rejects empty community names.
func CheckCommunityName(name string) error {
	if strings.TrimSpace(name) == "" {
		return Validationf("community name is empty")
	}
	return nil
}
