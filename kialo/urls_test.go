package kialo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanURL(t *testing.T) {
	got := CleanURL("https://x.example.com/d/123/permissions?foo=bar")
	assert.Equal(t, "https://x.example.com/d/123/", got)
}

func TestCleanURLWithoutPermissions(t *testing.T) {
	got := CleanURL("https://x.example.com/d/123")
	assert.Equal(t, "https://x.example.com/d/123/", got)
}

func TestCleanKialoURL(t *testing.T) {
	got := CleanKialoURL("https://x.example.com/d/123?path=1&action=edit")
	assert.Equal(t, "https://x.example.com/d/123?path=1", got)
}

func TestCleanKialoURLWithoutAction(t *testing.T) {
	got := CleanKialoURL("https://x.example.com/d/123?path=1")
	assert.Equal(t, "https://x.example.com/d/123?path=1", got)
}

func TestEditURL(t *testing.T) {
	got := editURL("https://www.kialo.com/d/12345")
	assert.Equal(t, "https://www.kialo.com/d/12345?path=12345.0~12345.3&active=~12345.3&action=edit", got)
}

func TestEditURLUsesLastFiveCharacters(t *testing.T) {
	got := editURL("https://www.kialo.com/d/98765")
	assert.Contains(t, got, "path=98765.0~98765.3")
	assert.Contains(t, got, "active=~98765.3")
	assert.Contains(t, got, "action=edit")
}
