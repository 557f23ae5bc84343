package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostString(t *testing.T) {
	p := Post{Text: strings.Repeat("а", 30)}
	assert.Equal(t, strings.Repeat("а", 15), p.String())

	short := Post{Text: "hi"}
	assert.Equal(t, "hi", short.String())
}

func TestGroupString(t *testing.T) {
	assert.Equal(t, "TestGroupTitle", Group{Title: "TestGroupTitle", Slug: "TestSlug"}.String())
}
