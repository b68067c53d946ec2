package harness

// Trace event types.
const (
	EventMatch   = "match"
	EventResolve = "resolve"
)

// TraceEvent records the observed outcome of one step.
type TraceEvent struct {
	Step  int    `json:"step"`
	Type  string `json:"type"` // "match" or "resolve"
	Input string `json:"input"`

	// Match outcome.
	Length int  `json:"length"`
	Exact  bool `json:"exact"`

	// Resolve outcome.
	Args       []string `json:"args,omitempty"`
	Kind       string   `json:"kind,omitempty"`
	Symbol     string   `json:"symbol,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Code       string   `json:"code,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Commands is the number of commands in the index.
	Commands int `json:"commands"`

	// Conflicts is the number of conflicts the index reported.
	Conflicts int `json:"conflicts"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
