// Package predict resolves a question and its option texts to an answer
// string. The primary implementation talks to an LLM through langchaingo;
// an auto predictor chains providers and a local predictor defers to a
// self-hosted backend.
package predict

import "context"

// Request carries one question to a predictor. ImageData, when set, is a
// base64 data URI of the question image.
type Request struct {
	Question  string
	Options   []string
	ImageData string
}

// Response is the raw answer as produced by the provider. Interpretation
// (option text, letter, index) is the matcher's job.
type Response struct {
	Answer   string
	Provider string
}

type Predictor interface {
	Predict(ctx context.Context, req Request) (Response, error)
}
