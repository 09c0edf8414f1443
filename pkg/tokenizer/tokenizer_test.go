package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// runeEncoding treats every rune as one token, so truncation behavior can be
// tested without the real BPE tables.
type runeEncoding struct{}

func (runeEncoding) Encode(text string) []int {
	tokens := make([]int, 0, len(text))
	for _, r := range text {
		tokens = append(tokens, int(r))
	}
	return tokens
}

func (runeEncoding) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, tok := range tokens {
		runes[i] = rune(tok)
	}
	return string(runes)
}

func TestTruncate(t *testing.T) {
	tok := NewFromEncoding(runeEncoding{}, "rune", 5)

	assert.Equal(t, "hello", tok.Truncate("hello world"))
	assert.Equal(t, "hi", tok.Truncate("hi"))
	assert.Equal(t, "", tok.Truncate(""))
}

func TestCount(t *testing.T) {
	tok := NewFromEncoding(runeEncoding{}, "rune", 5)

	assert.Equal(t, 11, tok.Count("hello world"))
	assert.Equal(t, 0, tok.Count(""))
}

func TestAccessors(t *testing.T) {
	tok := NewFromEncoding(runeEncoding{}, "rune", 128)

	assert.Equal(t, "rune", tok.Name())
	assert.Equal(t, 128, tok.MaxTokens())
}
