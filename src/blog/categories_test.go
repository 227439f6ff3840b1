package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyCategoryName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Go", "go"},
		{"Web Development", "web-development"},
		{"  Trimmed  Name ", "trimmed--name"},
		{"already-a-slug", "already-a-slug"},
		{"MiXeD CaSe", "mixed-case"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, SlugifyCategoryName(test.name))
	}
}
