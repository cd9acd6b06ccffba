package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"

	"github.com/notedmedia/noted/internal/catalog/repository"
	"github.com/notedmedia/noted/internal/config"
	"github.com/notedmedia/noted/pkg/errors"
	"github.com/notedmedia/noted/pkg/interfaces"
)

// systemInstructions fix the assistant persona. The model may only draw on
// the declared notes tool and must admit when the notes are too thin.
const systemInstructions = "You are a thoughtful companion for someone who keeps a journal about the media they watch, read and listen to. " +
	"Speak directly to them in the second person. " +
	"Before answering, always call the " + NotesToolName + " tool to read their notes; they are your only source of information. " +
	"Never invent details that are not in the notes. " +
	"If the notes are too few or too thin to support an answer, say so plainly instead of guessing."

// Insights is the fixed three-field result of a generation.
type Insights struct {
	// Summary captures what the user's notes say overall.
	Summary string `json:"summary"`
	// Rationale explains how the notes support the summary.
	Rationale string `json:"rationale"`
	// Recommendations suggests what the user might enjoy or revisit next.
	Recommendations string `json:"recommendations"`
}

// State is the orchestrator's view state. Terminal states are never reset
// silently; a new Generate call re-runs the full flow and overwrites them.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

// defaultMaxToolRoundTrips caps tool exchanges when no limit is configured.
const defaultMaxToolRoundTrips = 4

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// ForMediaItem scopes every generation from this orchestrator to one media
// item's notes.
func ForMediaItem(id uuid.UUID) Option {
	return func(o *Orchestrator) {
		o.mediaItemID = &id
	}
}

// WithMaxToolRoundTrips overrides the tool round-trip cap passed to the
// runtime. Non-positive values keep the default.
func WithMaxToolRoundTrips(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxToolRoundTrips = n
		}
	}
}

// Disabled marks the insights feature as switched off. The orchestrator then
// reports it as not enabled without ever querying the runtime.
func Disabled() Option {
	return func(o *Orchestrator) {
		o.featureEnabled = false
	}
}

// FromConfig derives orchestrator options from the insights configuration.
func FromConfig(cfg config.InsightsConfig) []Option {
	opts := []Option{WithMaxToolRoundTrips(cfg.MaxToolRoundTrips)}
	if !cfg.Enabled {
		opts = append(opts, Disabled())
	}
	return opts
}

// Orchestrator drives insight generation against a model runtime. Each
// instance checks availability at most once; generation may run any number of
// times, each run fully superseding the previous result.
type Orchestrator struct {
	runtime ModelRuntime
	notes   repository.NoteRepository
	logger  interfaces.Logger

	mediaItemID       *uuid.UUID
	maxToolRoundTrips int
	featureEnabled    bool

	mu           sync.Mutex
	availability Availability
	reason       UnavailableReason
	state        State
	insights     *Insights
	errMessage   string
}

// NewOrchestrator creates an orchestrator. All dependencies are injected;
// there is no shared global provider.
func NewOrchestrator(runtime ModelRuntime, notes repository.NoteRepository, logger interfaces.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runtime:           runtime,
		notes:             notes,
		logger:            logger,
		maxToolRoundTrips: defaultMaxToolRoundTrips,
		featureEnabled:    true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Initialize resolves availability. It is idempotent: once availability has
// left Unknown, further calls do nothing and the runtime is not re-queried.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.initializeLocked(ctx)
}

func (o *Orchestrator) initializeLocked(ctx context.Context) error {
	if o.availability != AvailabilityUnknown {
		return nil
	}

	if !o.featureEnabled {
		o.availability = AvailabilityUnavailable
		o.reason = ReasonFeatureNotEnabled
		return nil
	}

	status, err := o.runtime.CheckAvailability(ctx)
	if err != nil {
		o.availability = AvailabilityUnavailable
		o.reason = ReasonOther
		return err
	}

	if status.Available {
		o.availability = AvailabilityAvailable
	} else {
		o.availability = AvailabilityUnavailable
		o.reason = status.Reason
		o.logger.Info("Insights unavailable", interfaces.String("reason", string(status.Reason)))
	}
	return nil
}

// Availability returns the resolved availability state.
func (o *Orchestrator) Availability() Availability {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.availability
}

// UnavailabilityMessage returns the fixed user-facing string for the current
// unavailable reason, or "" when the runtime is usable or still unchecked.
func (o *Orchestrator) UnavailabilityMessage() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.availability != AvailabilityUnavailable {
		return ""
	}
	return o.reason.Message()
}

// State returns the current view state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Insights returns the last successful result, or nil.
func (o *Orchestrator) Insights() *Insights {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.insights
}

// ErrorMessage returns the last generation failure message, or "".
func (o *Orchestrator) ErrorMessage() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errMessage
}

// Generate runs the full generation flow and returns the parsed result. When
// availability is anything but Available the runtime is never invoked.
func (o *Orchestrator) Generate(ctx context.Context) (*Insights, error) {
	o.mu.Lock()
	if err := o.initializeLocked(ctx); err != nil {
		o.mu.Unlock()
		return nil, errors.Unavailable(o.reason.Message())
	}
	if o.availability != AvailabilityAvailable {
		msg := o.reason.Message()
		o.mu.Unlock()
		return nil, errors.Unavailable(msg)
	}
	o.state = StateLoading
	o.mu.Unlock()

	result, err := o.generate(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.state = StateError
		o.errMessage = err.Error()
		o.insights = nil
		return nil, err
	}
	o.state = StateReady
	o.errMessage = ""
	o.insights = result
	return result, nil
}

func (o *Orchestrator) generate(ctx context.Context) (*Insights, error) {
	tool := NewNotesTool(o.notes, o.logger)

	raw, err := o.runtime.Respond(ctx, Request{
		Instructions:      systemInstructions,
		Tools:             []Tool{tool},
		Prompt:            o.prompt(),
		Schema:            insightsSchema(),
		MaxToolRoundTrips: o.maxToolRoundTrips,
	})
	if err != nil {
		o.logger.Error("Insight generation failed", interfaces.Error(err))
		return nil, errors.Generation("model session failed", err)
	}

	insights, err := parseInsights(raw)
	if err != nil {
		o.logger.Error("Insight reply rejected", interfaces.Error(err))
		return nil, err
	}

	o.logger.Info("Insights generated",
		interfaces.Bool("scoped", o.mediaItemID != nil))
	return insights, nil
}

func (o *Orchestrator) prompt() string {
	if o.mediaItemID != nil {
		return fmt.Sprintf(
			"Generate insights about the media entry with ID %s. "+
				"Call the %s tool with media_item_id set to that ID to read my notes about it first.",
			o.mediaItemID, NotesToolName)
	}
	return fmt.Sprintf(
		"Generate insights about my media library as a whole. "+
			"Call the %s tool without arguments to read all of my notes first.",
		NotesToolName)
}

// insightsSchema describes the required three-field reply.
func insightsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"summary": {
				Type:        "string",
				Description: "What the user's notes say overall.",
			},
			"rationale": {
				Type:        "string",
				Description: "How the notes support the summary.",
			},
			"recommendations": {
				Type:        "string",
				Description: "What the user might enjoy or revisit next.",
			},
		},
		Required: []string{"summary", "rationale", "recommendations"},
	}
}

// parseInsights validates the reply against the three-field contract. Missing
// fields are a schema violation, not a soft default.
func parseInsights(raw json.RawMessage) (*Insights, error) {
	var payload struct {
		Summary         *string `json:"summary"`
		Rationale       *string `json:"rationale"`
		Recommendations *string `json:"recommendations"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Generation("model reply is not valid JSON", err)
	}
	if payload.Summary == nil || payload.Rationale == nil || payload.Recommendations == nil {
		return nil, errors.Generation("model reply missing required fields", nil)
	}
	return &Insights{
		Summary:         *payload.Summary,
		Rationale:       *payload.Rationale,
		Recommendations: *payload.Recommendations,
	}, nil
}
