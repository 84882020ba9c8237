package ports

import "context"

// A single prompt sent to the planning oracle.
type OracleRequest struct {
	Prompt string
	// ExpectJSON asks the oracle to answer with a JSON document only.
	ExpectJSON bool
}

// Contract for the external plan/text generation capability.
// The oracle is a black box: it takes a prompt and returns raw text.
type PlanOracle interface {
	// Report whether the oracle is configured and can be called.
	Available() bool
	// Return the oracle's raw text answer for the request.
	Propose(ctx context.Context, req OracleRequest) (string, error)
}
