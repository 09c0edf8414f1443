// Package tokenizer enforces the model's maximum sequence length by
// token-count truncation. Tokenization itself is delegated to tiktoken BPE.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used for token counting
const DefaultEncoding = "cl100k_base"

// Encoding converts between text and token ids
type Encoding interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// Tokenizer truncates text to a fixed token budget
type Tokenizer struct {
	encoding  Encoding
	name      string
	maxTokens int
}

// New creates a tokenizer backed by the tiktoken cl100k_base encoding
func New(maxTokens int) (*Tokenizer, error) {
	return NewWithEncoding(DefaultEncoding, maxTokens)
}

// NewWithEncoding creates a tokenizer backed by a named tiktoken encoding
func NewWithEncoding(name string, maxTokens int) (*Tokenizer, error) {
	tkm, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tokenizer: %w", err)
	}
	return &Tokenizer{encoding: tiktokenEncoding{tkm}, name: name, maxTokens: maxTokens}, nil
}

// NewFromEncoding wraps an existing encoding implementation
func NewFromEncoding(encoding Encoding, name string, maxTokens int) *Tokenizer {
	return &Tokenizer{encoding: encoding, name: name, maxTokens: maxTokens}
}

// Name returns the encoding name
func (t *Tokenizer) Name() string {
	return t.name
}

// MaxTokens returns the configured token budget
func (t *Tokenizer) MaxTokens() int {
	return t.maxTokens
}

// Count returns the number of tokens in the text
func (t *Tokenizer) Count(text string) int {
	return len(t.encoding.Encode(text))
}

// Truncate returns text cut down to at most MaxTokens tokens. Text already
// within the budget is returned unchanged.
func (t *Tokenizer) Truncate(text string) string {
	tokens := t.encoding.Encode(text)
	if len(tokens) <= t.maxTokens {
		return text
	}
	return t.encoding.Decode(tokens[:t.maxTokens])
}

type tiktokenEncoding struct {
	tkm *tiktoken.Tiktoken
}

func (e tiktokenEncoding) Encode(text string) []int {
	return e.tkm.Encode(text, nil, nil)
}

func (e tiktokenEncoding) Decode(tokens []int) string {
	return e.tkm.Decode(tokens)
}
