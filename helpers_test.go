package echofield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugHelpers(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("  Hello, World! "))
	assert.Equal(t, "", Slugify("Привіт"))
	assert.True(t, ValidSlug("hello-en"))
	assert.False(t, ValidSlug("Hello"))
	assert.False(t, ValidSlug("-x"))
	assert.Equal(t, "https://example.com/", BuildURL("https://example.com"))
	assert.Equal(t, "https://example.com/a/b/", BuildURL("https://example.com", "a", "b"))
}
