package conversation

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	// tokenEncoder is the global tiktoken encoder
	tokenEncoder *tiktoken.Tiktoken
	encoderOnce  sync.Once
	encoderErr   error
)

// initTokenEncoder initializes the tiktoken encoder (lazy initialization)
func initTokenEncoder() error {
	encoderOnce.Do(func() {
		// cl100k_base covers the GPT-4 family and is close enough for budgeting
		tokenEncoder, encoderErr = tiktoken.GetEncoding("cl100k_base")
	})
	return encoderErr
}

// CountTokens counts the number of tokens in a text using tiktoken
func CountTokens(text string) int {
	if err := initTokenEncoder(); err != nil {
		// Fallback to estimation if tiktoken fails
		return estimateTokens(text)
	}

	tokens := tokenEncoder.Encode(text, nil, nil)
	return len(tokens)
}

// estimateTokens approximates token count at ~4 characters per token.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}
