// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last@sub.example.org", "u+tag@x.io"}
	invalid := []string{"", "plain", "@x.com", "a@", "a b@x.com", "a@x"}

	for _, e := range valid {
		assert.True(t, ValidEmail(e), "expected %q to be valid", e)
	}
	for _, e := range invalid {
		assert.False(t, ValidEmail(e), "expected %q to be invalid", e)
	}
}

func TestCheckMessageText(t *testing.T) {
	assert.NoError(t, CheckMessageText("hi"))

	err := CheckMessageText("   ")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCheckEmails(t *testing.T) {
	assert.NoError(t, CheckEmails("a@x.com", "b@x.com"))

	err := CheckEmails("a@x.com", "nope")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCheckCommunityName(t *testing.T) {
	assert.NoError(t, CheckCommunityName("Study Group"))
	assert.True(t, errors.Is(CheckCommunityName(""), ErrValidation))
	assert.True(t, errors.Is(CheckCommunityName("  "), ErrValidation))
}
