package player

import "time"

// Phase lesson level state
type Phase string

const (
	PhaseOverview    Phase = "overview"
	PhaseInteractive Phase = "interactive"
	PhaseQuiz        Phase = "quiz"
	PhaseCompleted   Phase = "completed"
)

// FeedbackType outcome of an attempted interactive action
type FeedbackType string

const (
	FeedbackSuccess FeedbackType = "success"
	FeedbackError   FeedbackType = "error"
)

// Feedback transient result surfaced to the learner after an action
type Feedback struct {
	Type        FeedbackType `json:"type"`
	Message     string       `json:"message"`
	Explanation string       `json:"explanation,omitempty"`
}

// HighlightType the intent the shell should render for the expected
// target: "action" is the neutral prompt, "attention" means narration
// is actively pointing at the element
type HighlightType string

const (
	HighlightAction    HighlightType = "action"
	HighlightAttention HighlightType = "attention"
)

// EventKind discriminates session events pushed to the shell
type EventKind string

const (
	EventState     EventKind = "state"
	EventFeedback  EventKind = "feedback"
	EventNarration EventKind = "narration"
	EventCompleted EventKind = "completed"
)

// Event a session to shell notification. State events carry a full
// snapshot, narration events carry the cue text and locale.
type Event struct {
	Kind      EventKind `json:"type"`
	State     *State    `json:"state,omitempty"`
	Feedback  *Feedback `json:"feedback,omitempty"`
	Narration *Cue      `json:"narration,omitempty"`
}

// Cue narration request forwarded to the speech collaborator
type Cue struct {
	Text  string `json:"text"`
	Lang  string `json:"lang"`
	Voice string `json:"voice,omitempty"`
}

// State snapshot of the machine, safe to serialize to the shell
type State struct {
	Phase         Phase         `json:"phase"`
	StepIndex     int           `json:"stepIndex"`
	TotalSteps    int           `json:"totalSteps"`
	Progress      int           `json:"progress"`
	Completed     bool          `json:"completed"`
	HighlightType HighlightType `json:"highlightType"`
	Feedback      *Feedback     `json:"feedback,omitempty"`
	Quiz          *QuizState    `json:"quiz,omitempty"`
}

// Narrator speech output collaborator. Speak replaces any in-flight
// narration; implementations are best effort and must never block the
// caller on synthesis.
type Narrator interface {
	Speak(cue Cue)
	Stop()
}

// NopNarrator used when voice-over is disabled
type NopNarrator struct{}

func (NopNarrator) Speak(Cue) {}
func (NopNarrator) Stop()     {}

// Config timing knobs of the machine. The production values mirror the
// reading-time model: a floor plus a per character allowance.
type Config struct {
	MinAdvanceDelay    time.Duration // floor for the success auto-advance
	PerCharDelay       time.Duration // reading time per explanation character
	FeedbackClearDelay time.Duration // error feedback lifetime
	StepNarrationWait  time.Duration // settle delay before narrating a new step
	CueNarrationWait   time.Duration // settle delay before narrating feedback
}

// DefaultConfig production timings
func DefaultConfig() Config {
	return Config{
		MinAdvanceDelay:    6 * time.Second,
		PerCharDelay:       80 * time.Millisecond,
		FeedbackClearDelay: 3500 * time.Millisecond,
		StepNarrationWait:  300 * time.Millisecond,
		CueNarrationWait:   500 * time.Millisecond,
	}
}

// AdvanceDelay reading-time for an after-explanation of the given
// length, never below the configured floor
func (c Config) AdvanceDelay(explanationLen int) time.Duration {
	d := time.Duration(explanationLen) * c.PerCharDelay
	if d < c.MinAdvanceDelay {
		return c.MinAdvanceDelay
	}
	return d
}
