package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Toggle(t *testing.T) {
	assert.Equal(t, StatusCompleted, StatusPending.Toggle())
	assert.Equal(t, StatusPending, StatusCompleted.Toggle())
	assert.Equal(t, StatusPending, StatusPending.Toggle().Toggle())
}

func TestParseStatusFilter(t *testing.T) {
	s, ok := ParseStatusFilter("")
	assert.True(t, ok)
	assert.Nil(t, s)

	s, ok = ParseStatusFilter("Completed")
	require.True(t, ok)
	require.NotNil(t, s)
	assert.Equal(t, StatusCompleted, *s)

	_, ok = ParseStatusFilter("completed")
	assert.False(t, ok)
	_, ok = ParseStatusFilter("Archived")
	assert.False(t, ok)
}

func TestTodoPatch_Empty(t *testing.T) {
	assert.True(t, TodoPatch{}.Empty())
	title := "x"
	assert.False(t, TodoPatch{Title: &title}.Empty())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}
