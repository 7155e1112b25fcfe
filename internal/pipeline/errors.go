package pipeline

import "errors"

// Error taxonomy for the analysis pipeline. Malformed narrative text is
// deliberately absent: the narrative parser degrades to defaults and never
// raises.
var (
	// ErrEmptyDataset means zero rows survived cleaning. Detected before
	// any analysis and surfaced as a client error.
	ErrEmptyDataset = errors.New("dataset is empty after cleaning")

	// ErrUpstreamService means the text-completion call failed.
	ErrUpstreamService = errors.New("upstream completion service failed")

	// ErrUpstreamTimeout means the text-completion call exceeded its
	// deadline. Split out from ErrUpstreamService so operators can tell a
	// slow provider from a broken one.
	ErrUpstreamTimeout = errors.New("upstream completion service timed out")
)
