package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `hello\.world`, EscapeMarkdownV2("hello.world"))
	assert.Equal(t, `\*bold\* \[link\]\(url\)`, EscapeMarkdownV2("*bold* [link](url)"))
	assert.Equal(t, "plain text", EscapeMarkdownV2("plain text"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))

	long := strings.Repeat("a", 20)
	got := Truncate(long, 10)
	assert.Len(t, []rune(got), 10)
	assert.True(t, strings.HasSuffix(got, "..."))

	// Multibyte runes are not split.
	got = Truncate(strings.Repeat("é", 20), 10)
	assert.Len(t, []rune(got), 10)
}
