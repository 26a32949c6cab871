// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmotion/mmchat/backend/models"
)

func openCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAppendAndListOrdered(t *testing.T) {
	c := openCache(t)
	key := "a@x.com:b@x.com"

	msgs := []models.DirectMessage{
		{ID: "m1", Conversation: key, Text: "first", TimestampMS: 100},
		{ID: "m2", Conversation: key, Text: "second", TimestampMS: 100},
		{ID: "m3", Conversation: key, Text: "third", TimestampMS: 250},
	}
	// Append out of timestamp order; the scan must still come back sorted.
	require.NoError(t, c.Append(key, msgs[2]))
	require.NoError(t, c.Append(key, msgs[0]))
	require.NoError(t, c.Append(key, msgs[1]))

	got, err := c.List(key)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, "third", got[2].Text)
}

func TestListIsolatesConversations(t *testing.T) {
	c := openCache(t)

	require.NoError(t, c.Append("a@x.com:b@x.com", models.DirectMessage{ID: "m1", TimestampMS: 100}))
	require.NoError(t, c.Append("a@x.com:c@x.com", models.DirectMessage{ID: "m2", TimestampMS: 100}))

	got, err := c.List("a@x.com:b@x.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)

	got, err = c.List("nobody:here")
	require.NoError(t, err)
	assert.Empty(t, got)
}
