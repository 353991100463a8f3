// Package oracle abstracts the text-generation backend used by the persona
// simulation pipeline.
//
// Implementations are interchangeable by construction: the production
// backend calls AWS Bedrock, the mock produces deterministic-enough JSON for
// offline operation and tests. The pipeline never branches on which one it
// holds. Oracle output is untrusted text; callers parse it with the helpers
// in parse.go and clamp anything malformed to documented defaults.
package oracle

import "context"

// Oracle produces raw text for a prompt. Predict never fails from the
// caller's point of view: transport and backend errors degrade to the
// literal "{}" and are logged by the implementation.
type Oracle interface {
	Predict(ctx context.Context, prompt string) string
}

// EmptyResponse is the fallback returned whenever a backend cannot produce
// output. It parses as an empty JSON object, so every downstream parse site
// takes its documented default path.
const EmptyResponse = "{}"
