package tokens

import (
	"github.com/go-go-golems/sessionbot/pkg/conversation/builder"
	"github.com/pkg/errors"
	"github.com/tiktoken-go/tokenizer"
)

// DefaultEncoding is used for every model. Groq's models use their own tokenizers,
// so counts are estimates.
const DefaultEncoding = tokenizer.Cl100kBase

const (
	tokensPerMessage = 3
	// every reply is primed with <|start|>assistant<|message|>
	tokensReplyPriming = 3
)

type Counter struct {
	codec tokenizer.Codec
}

func NewCounter() (*Counter, error) {
	return NewCounterForEncoding(DefaultEncoding)
}

func NewCounterForEncoding(encoding tokenizer.Encoding) (*Counter, error) {
	codec, err := tokenizer.Get(encoding)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load encoding %s", encoding)
	}
	return &Counter{codec: codec}, nil
}

// Count returns the number of tokens in s.
func (c *Counter) Count(s string) (int, error) {
	ids, _, err := c.codec.Encode(s)
	if err != nil {
		return 0, errors.Wrap(err, "could not encode text")
	}
	return len(ids), nil
}

// CountPrompt estimates the input size of a chat completion request for prompt,
// including the per-message framing.
func (c *Counter) CountPrompt(prompt builder.Prompt) (int, error) {
	total := tokensReplyPriming
	for _, m := range prompt.Messages() {
		n, err := c.Count(m.Text)
		if err != nil {
			return 0, err
		}
		role, err := c.Count(string(m.Role))
		if err != nil {
			return 0, err
		}
		total += tokensPerMessage + n + role
	}
	return total, nil
}
