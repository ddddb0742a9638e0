package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const MaxTokens = 16384

// CountTokens returns the token count of text under the encoding of the
// given completion model, falling back to cl100k_base for unknown models.
func CountTokens(model, text string) (int, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, fmt.Errorf("load token encoding failed: %w", err)
		}
	}
	return len(enc.Encode(text, nil, nil)), nil
}
