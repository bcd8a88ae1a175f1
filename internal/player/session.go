package player

import (
	"math"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/wintutor/wintutor/internal/domain"
)

var feedbackMessages = map[string]domain.LocalizedText{
	"correct":  domain.NewLocalizedText("Correct!", "Correct!"),
	"notQuite": domain.NewLocalizedText("Not quite right", "Pas tout à fait"),
	"tryAgain": domain.NewLocalizedText(
		"Try following the instruction above carefully.",
		"Essayez de suivre attentivement l'instruction ci-dessus.",
	),
}

// Options collaborator wiring and locale context for one session
type Options struct {
	DisplayLocale   string
	NarrationLocale string
	NarratorVoice   string
	VoiceOver       bool

	Narrator   Narrator    // nil means no narration
	Sink       func(Event) // nil means no shell notifications
	OnComplete func()      // invoked once per transition into Completed
}

// Session drives a single lesson for a single learner. One inbound
// call is processed at a time; timers fire on their own goroutines and
// re-enter through the session lock, guarded by a generation counter
// so a cancelled timer can never apply a stale transition.
type Session struct {
	mu     sync.Mutex
	lesson *domain.LessonModel
	cfg    Config
	opt    Options

	stepIndex int
	completed bool
	feedback  *Feedback
	quiz      *quizMachine

	gen           uint64 // bumped on every navigation, invalidates timers
	autoAdvance   *time.Timer
	feedbackClear *time.Timer
	narrationWait *time.Timer
	closed        bool
}

// NewSession create a session positioned on the first step of lesson.
// The lesson must have at least one step.
func NewSession(lesson *domain.LessonModel, cfg Config, opt Options) *Session {
	if opt.DisplayLocale == "" {
		opt.DisplayLocale = domain.DefaultLocale
	}
	if opt.NarrationLocale == "" {
		opt.NarrationLocale = domain.DefaultLocale
	}
	if opt.Narrator == nil {
		opt.Narrator = NopNarrator{}
	}
	s := &Session{lesson: lesson, cfg: cfg, opt: opt}
	s.mu.Lock()
	s.enterStepLocked()
	s.mu.Unlock()
	return s
}

// HandleAction process one (action, targetId) event from the simulated
// shell. No-op once completed and on overview steps. An interactive
// step missing its expected action or target never matches.
func (s *Session) HandleAction(action, targetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.completed {
		return
	}
	step := s.currentStepLocked()
	if step.Type == domain.StepOverview {
		return
	}

	if step.Action != "" && step.TargetID != "" &&
		action == step.Action && targetID == step.TargetID {
		explanation := step.AfterExplanation.Resolve(s.opt.DisplayLocale)
		s.feedback = &Feedback{
			Type:        FeedbackSuccess,
			Message:     feedbackMessages["correct"].Resolve(s.opt.DisplayLocale),
			Explanation: explanation,
		}
		s.emitLocked(Event{Kind: EventFeedback, Feedback: s.feedback})
		s.emitStateLocked()
		s.narrateSoonLocked(s.cfg.CueNarrationWait, step.AfterExplanation.Resolve(s.opt.NarrationLocale))

		// reading time runs off the displayed text, counted in
		// characters, not bytes
		gen := s.gen
		s.autoAdvance = time.AfterFunc(s.cfg.AdvanceDelay(utf8.RuneCountInString(explanation)), func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed || s.gen != gen {
				return
			}
			s.advanceLocked()
		})
		return
	}

	s.feedback = &Feedback{
		Type:        FeedbackError,
		Message:     feedbackMessages["notQuite"].Resolve(s.opt.DisplayLocale),
		Explanation: feedbackMessages["tryAgain"].Resolve(s.opt.DisplayLocale),
	}
	s.emitLocked(Event{Kind: EventFeedback, Feedback: s.feedback})
	s.emitStateLocked()
	s.narrateSoonLocked(s.cfg.CueNarrationWait, feedbackMessages["tryAgain"].Resolve(s.opt.NarrationLocale))

	gen := s.gen
	s.feedbackClear = time.AfterFunc(s.cfg.FeedbackClearDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.gen != gen {
			return
		}
		s.feedback = nil
		s.emitStateLocked()
	})
}

// Advance explicit or timed move to the next step. On the last step the
// lesson transitions to Completed and the completion callback fires.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.completed {
		return
	}
	s.advanceLocked()
}

// Previous step back, only when not on the first step and not completed
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.completed || s.stepIndex == 0 {
		return
	}
	s.cancelTimersLocked()
	s.feedback = nil
	s.stepIndex--
	s.enterStepLocked()
}

// Restart reset to the first step, clearing completion and timers
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelTimersLocked()
	s.feedback = nil
	s.completed = false
	s.stepIndex = 0
	s.enterStepLocked()
}

// SelectOption forward an answer to the quiz sub machine. Ignored when
// the current step is not a quiz or the question was already answered.
func (s *Session) SelectOption(optionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.completed || s.quiz == nil {
		return
	}
	correct, ok := s.quiz.Select(optionID)
	if !ok {
		return
	}
	key := "notQuite"
	if correct {
		key = "correct"
	}
	s.narrateSoonLocked(0, feedbackMessages[key].Resolve(s.opt.NarrationLocale))
	s.emitStateLocked()
}

// NextQuestion advance the quiz; finishing the last question completes
// the lesson regardless of score.
func (s *Session) NextQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.completed || s.quiz == nil {
		return
	}
	if s.quiz.Next() {
		s.completeLocked()
	}
	s.emitStateLocked()
}

// SetVoiceOver toggle narration; disabling stops in-flight speech
func (s *Session) SetVoiceOver(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.opt.VoiceOver = enabled
	if !enabled {
		s.opt.Narrator.Stop()
	}
	s.emitStateLocked()
}

// Snapshot current machine state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancel all timers and stop narration. The session must not be
// used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelTimersLocked()
	s.opt.Narrator.Stop()
	s.closed = true
}

func (s *Session) currentStepLocked() *domain.StepModel {
	return &s.lesson.Steps[s.stepIndex]
}

func (s *Session) advanceLocked() {
	s.cancelTimersLocked()
	s.feedback = nil
	if s.stepIndex < len(s.lesson.Steps)-1 {
		s.stepIndex++
		s.enterStepLocked()
		return
	}
	s.completeLocked()
	s.emitStateLocked()
}

func (s *Session) completeLocked() {
	if s.completed {
		return
	}
	s.completed = true
	s.emitLocked(Event{Kind: EventCompleted})
	if s.opt.OnComplete != nil {
		// progress persistence must not block the machine
		go s.opt.OnComplete()
	}
}

// enterStepLocked runs on every arrival at a step: rebuilds the quiz
// sub machine and schedules the entry narration.
func (s *Session) enterStepLocked() {
	step := s.currentStepLocked()
	if step.Type == domain.StepQuiz {
		s.quiz = newQuizMachine(step.Questions)
	} else {
		s.quiz = nil
	}
	s.emitStateLocked()

	if step.Type == domain.StepOverview {
		return
	}
	text := step.BeforeExplanation.Resolve(s.opt.NarrationLocale)
	if instruction := step.Instruction.Resolve(s.opt.NarrationLocale); instruction != "" {
		if text != "" {
			text += " "
		}
		text += instruction
	}
	s.narrateSoonLocked(s.cfg.StepNarrationWait, text)
}

// narrateSoonLocked schedules cancel-and-replace narration after a
// settle delay. Narration is best effort; the narrator call happens on
// the timer goroutine and never holds the session lock.
func (s *Session) narrateSoonLocked(wait time.Duration, text string) {
	if !s.opt.VoiceOver || text == "" {
		return
	}
	if s.narrationWait != nil {
		s.narrationWait.Stop()
	}
	narrator := s.opt.Narrator
	cue := Cue{Text: text, Lang: s.opt.NarrationLocale, Voice: s.opt.NarratorVoice}
	if wait <= 0 {
		go narrator.Speak(cue)
		return
	}
	s.narrationWait = time.AfterFunc(wait, func() {
		narrator.Speak(cue)
	})
}

func (s *Session) cancelTimersLocked() {
	s.gen++
	if s.autoAdvance != nil {
		s.autoAdvance.Stop()
		s.autoAdvance = nil
	}
	if s.feedbackClear != nil {
		s.feedbackClear.Stop()
		s.feedbackClear = nil
	}
	if s.narrationWait != nil {
		s.narrationWait.Stop()
		s.narrationWait = nil
	}
	s.opt.Narrator.Stop()
}

func (s *Session) snapshotLocked() State {
	total := len(s.lesson.Steps)
	bonus := 0
	if s.completed {
		bonus = 1
	}
	progress := 0
	if total > 0 {
		progress = int(math.Round(float64(s.stepIndex+bonus) / float64(total) * 100))
	}
	highlight := HighlightAction
	if s.opt.VoiceOver && s.feedback == nil {
		highlight = HighlightAttention
	}
	st := State{
		Phase:         s.phaseLocked(),
		StepIndex:     s.stepIndex,
		TotalSteps:    total,
		Progress:      progress,
		Completed:     s.completed,
		HighlightType: highlight,
		Feedback:      s.feedback,
	}
	if s.quiz != nil {
		st.Quiz = s.quiz.Snapshot()
	}
	return st
}

func (s *Session) phaseLocked() Phase {
	if s.completed {
		return PhaseCompleted
	}
	switch s.currentStepLocked().Type {
	case domain.StepOverview:
		return PhaseOverview
	case domain.StepQuiz:
		return PhaseQuiz
	default:
		return PhaseInteractive
	}
}

func (s *Session) emitStateLocked() {
	st := s.snapshotLocked()
	s.emitLocked(Event{Kind: EventState, State: &st})
}

func (s *Session) emitLocked(e Event) {
	if s.opt.Sink != nil {
		s.opt.Sink(e)
	}
}
