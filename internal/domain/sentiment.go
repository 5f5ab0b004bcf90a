package domain

import "context"

// SentimentProvider generates free-text market commentary. The contract on
// the response is only "non-empty string"; anything else (errors, blank
// output, timeouts) is handled fail-soft by the caller with canned fallback
// text.
type SentimentProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
