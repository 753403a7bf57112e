package simplenotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		want        string
	}{
		{"PlainName", "hello", "file_5d41402abc.md"},
		{"WithExtension", "hello.md", "file_5d41402abc.md"},
		{"UppercaseExtension", "hello.MD", "file_5d41402abc.md"},
		{"Japanese", "日本語", "file_00110af8b4.md"},
		{"JapaneseWithExtension", "日本語.md", "file_00110af8b4.md"},
		{"Chinese", "测试笔记.md", "file_50104c27b8.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.displayName))
		})
	}
}

func TestGenerateSlug_Shape(t *testing.T) {
	slug := GenerateSlug("Meeting notes 2024")
	assert.Regexp(t, `^file_[0-9a-f]{10}\.md$`, slug)
	assert.Equal(t, slug, GenerateSlug("Meeting notes 2024"))
	assert.NotEqual(t, slug, GenerateSlug("Meeting notes 2025"))
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		in, stem, ext string
	}{
		{"hello.md", "hello", ".md"},
		{"a.b.md", "a.b", ".md"},
		{".md", ".md", ""},
		{"..md", "..md", ""},
		{"dir.x/readme", "dir.x/readme", ""},
		{"dir/.md", "dir/.md", ""},
		{"noext", "noext", ""},
	}
	for _, tt := range tests {
		stem, ext := splitExt(tt.in)
		assert.Equal(t, tt.stem, stem, tt.in)
		assert.Equal(t, tt.ext, ext, tt.in)
	}
}

func TestMarkdownExtHelpers(t *testing.T) {
	assert.Equal(t, "a.md", EnsureMarkdownExt("a"))
	assert.Equal(t, "a.MD", EnsureMarkdownExt("a.MD"))
	assert.Equal(t, "a", TrimMarkdownExt("a.md"))
	assert.Equal(t, "a.txt", TrimMarkdownExt("a.txt"))
}
