package models

// State is the orchestrator state of one session.
type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StateRendered   State = "rendered"
	StateFailed     State = "failed"
)

// Session holds the per-session input fields and the outcome of the last run.
// It is owned by a single session and never shared.
type Session struct {
	ID          string
	Type        DiagramType
	Description string
	Theme       Theme

	State  State
	Source string
	Fenced bool
	HTML   string
	Err    error
}
