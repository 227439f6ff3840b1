package blog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPublishedArticleTitle(t *testing.T) {
	t.Run("valid titles come back untouched", func(t *testing.T) {
		for _, raw := range []string{
			"My Post",
			"  padded but not blank  ",
			"日本語タイトル",
			strings.Repeat("a", 200),
		} {
			title, err := NewPublishedArticleTitle(raw)
			assert.NoError(t, err)
			assert.Equal(t, raw, title.String())
		}
	})

	t.Run("blank titles fail", func(t *testing.T) {
		for _, raw := range []string{"", " ", "\t\n  "} {
			_, err := NewPublishedArticleTitle(raw)
			assert.ErrorAs(t, err, &ValidationError{})
		}
	})

	t.Run("too-long titles fail", func(t *testing.T) {
		_, err := NewPublishedArticleTitle(strings.Repeat("a", 201))
		assert.ErrorAs(t, err, &ValidationError{})

		// The limit counts runes, not bytes.
		_, err = NewPublishedArticleTitle(strings.Repeat("あ", 200))
		assert.NoError(t, err)
	})
}

func TestNewPublishedArticleSlug(t *testing.T) {
	slug, err := NewPublishedArticleSlug("my-post")
	assert.NoError(t, err)
	assert.Equal(t, "my-post", slug.String())

	for _, raw := range []string{"", "   "} {
		_, err := NewPublishedArticleSlug(raw)
		assert.ErrorAs(t, err, &ValidationError{})
	}
}
