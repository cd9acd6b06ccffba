package insights

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// AvailabilityStatus is the external capability signal.
type AvailabilityStatus struct {
	Available bool
	Reason    UnavailableReason
}

// Tool is a named, schema-described function the model may invoke mid-session
// to fetch data it cannot otherwise access.
type Tool interface {
	Name() string
	Description() string
	ArgumentsSchema() *jsonschema.Schema
	Call(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

// Request is one structured-generation request against the model runtime.
type Request struct {
	// Instructions is the session-level system instruction.
	Instructions string
	// Tools are the only data sources the session may draw on.
	Tools []Tool
	// Prompt is the user-turn request.
	Prompt string
	// Schema describes the shape the final reply must conform to.
	Schema *jsonschema.Schema
	// MaxToolRoundTrips caps tool-call exchanges within the session.
	MaxToolRoundTrips int
}

// ModelRuntime is the boundary to the language-model collaborator.
//
// Implementations run an explicit request/response loop: send the prompt,
// execute requested tool calls and feed their results back, and return the
// final structured reply. Tool round trips are bounded by
// Request.MaxToolRoundTrips; there is no unbounded recursion.
type ModelRuntime interface {
	// CheckAvailability queries the capability signal. It has no side effects.
	CheckAvailability(ctx context.Context) (AvailabilityStatus, error)

	// Respond opens a session with the given instructions and tools, sends
	// the prompt and returns the model's final reply, which must conform to
	// req.Schema. Any session failure is returned as an error.
	Respond(ctx context.Context, req Request) (json.RawMessage, error)
}
