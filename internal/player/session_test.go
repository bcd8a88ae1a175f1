package player

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wintutor/wintutor/internal/domain"
)

type recordingNarrator struct {
	mu    sync.Mutex
	cues  []Cue
	stops int
}

func (r *recordingNarrator) Speak(cue Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

func (r *recordingNarrator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
}

func (r *recordingNarrator) cueCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cues)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) sink(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

// timings small enough that tests complete quickly but large enough to
// assert cancellation windows
func testConfig() Config {
	return Config{
		MinAdvanceDelay:    30 * time.Millisecond,
		PerCharDelay:       0,
		FeedbackClearDelay: 30 * time.Millisecond,
		StepNarrationWait:  time.Millisecond,
		CueNarrationWait:   time.Millisecond,
	}
}

func testLesson() *domain.LessonModel {
	return &domain.LessonModel{
		ID:       "navigating-desktop",
		CourseID: "windows-11",
		Title:    domain.NewLocalizedText("Navigating the Desktop", "Naviguer sur le Bureau"),
		Steps: []domain.StepModel{
			{
				ID:      0,
				Type:    domain.StepOverview,
				Title:   domain.NewLocalizedText("Overview", "Aperçu"),
				Content: domain.NewLocalizedText("Welcome", "Bienvenue"),
			},
			{
				ID:                1,
				Type:              domain.StepInteractive,
				Instruction:       domain.NewLocalizedText("Click the Start button", "Cliquez sur le bouton Démarrer"),
				BeforeExplanation: domain.NewLocalizedText("The Start button is on the taskbar.", "Le bouton Démarrer est sur la barre des tâches."),
				AfterExplanation:  domain.NewLocalizedText("You opened the Start menu.", "Vous avez ouvert le menu Démarrer."),
				Action:            "click",
				TargetID:          "start-button",
			},
			{
				ID:   2,
				Type: domain.StepQuiz,
				Questions: []domain.QuestionModel{
					{
						ID:   "q1",
						Text: domain.NewLocalizedText("Which button opens the Start menu?", "Quel bouton ouvre le menu Démarrer ?"),
						Options: []domain.OptionModel{
							{ID: "a", Text: domain.NewLocalizedText("The Windows icon", "L'icône Windows"), IsCorrect: true},
							{ID: "b", Text: domain.NewLocalizedText("The Recycle Bin", "La Corbeille"), IsCorrect: false},
						},
					},
				},
			},
		},
	}
}

func TestSessionStartsOnOverview(t *testing.T) {
	s := NewSession(testLesson(), testConfig(), Options{})
	defer s.Close()

	st := s.Snapshot()
	if st.Phase != PhaseOverview {
		t.Fatalf("expected phase %q, got %q", PhaseOverview, st.Phase)
	}
	if st.StepIndex != 0 {
		t.Fatalf("expected step 0, got %d", st.StepIndex)
	}
	if st.Progress != 0 {
		t.Fatalf("expected progress 0, got %d", st.Progress)
	}
}

func TestOverviewIgnoresActions(t *testing.T) {
	s := NewSession(testLesson(), testConfig(), Options{})
	defer s.Close()

	s.HandleAction("click", "start-button")
	st := s.Snapshot()
	if st.Feedback != nil {
		t.Fatalf("overview step should not produce feedback, got %+v", st.Feedback)
	}
	if st.StepIndex != 0 {
		t.Fatalf("overview step should not advance, got step %d", st.StepIndex)
	}
}

func TestCorrectActionProducesSuccessAndAutoAdvances(t *testing.T) {
	rec := &eventRecorder{}
	s := NewSession(testLesson(), testConfig(), Options{Sink: rec.sink})
	defer s.Close()

	s.Advance() // onto the interactive step
	s.HandleAction("click", "start-button")

	st := s.Snapshot()
	if st.Feedback == nil || st.Feedback.Type != FeedbackSuccess {
		t.Fatalf("expected success feedback, got %+v", st.Feedback)
	}

	// wait past the auto-advance floor
	time.Sleep(100 * time.Millisecond)
	st = s.Snapshot()
	if st.Phase != PhaseQuiz {
		t.Fatalf("expected auto-advance to quiz, got phase %q", st.Phase)
	}
	if st.Feedback != nil {
		t.Fatalf("feedback should clear on advance, got %+v", st.Feedback)
	}
}

func TestWrongActionShowsErrorThatClears(t *testing.T) {
	s := NewSession(testLesson(), testConfig(), Options{})
	defer s.Close()

	s.Advance()
	s.HandleAction("click", "recycle-bin")

	st := s.Snapshot()
	if st.Feedback == nil || st.Feedback.Type != FeedbackError {
		t.Fatalf("expected error feedback, got %+v", st.Feedback)
	}
	if st.StepIndex != 1 {
		t.Fatalf("wrong action must not advance, got step %d", st.StepIndex)
	}

	time.Sleep(100 * time.Millisecond)
	st = s.Snapshot()
	if st.Feedback != nil {
		t.Fatalf("error feedback should self-clear, got %+v", st.Feedback)
	}
	if st.StepIndex != 1 {
		t.Fatalf("error clear must not advance, got step %d", st.StepIndex)
	}
}

func TestWrongTargetRightActionDoesNotMatch(t *testing.T) {
	s := NewSession(testLesson(), testConfig(), Options{})
	defer s.Close()

	s.Advance()
	s.HandleAction("click", "settings-app")
	st := s.Snapshot()
	if st.Feedback == nil || st.Feedback.Type != FeedbackError {
		t.Fatalf("action on the wrong target must fail, got %+v", st.Feedback)
	}
}

func TestMalformedStepNeverMatches(t *testing.T) {
	lesson := testLesson()
	lesson.Steps[1].TargetID = ""
	s := NewSession(lesson, testConfig(), Options{})
	defer s.Close()

	s.Advance()
	s.HandleAction("click", "")
	st := s.Snapshot()
	if st.Feedback == nil || st.Feedback.Type != FeedbackError {
		t.Fatalf("step without a target must never match, got %+v", st.Feedback)
	}
}

func TestManualAdvanceCancelsAutoAdvance(t *testing.T) {
	s := NewSession(testLesson(), testConfig(), Options{})
	defer s.Close()

	s.Advance()
	s.HandleAction("click", "start-button")
	s.Advance() // manual advance before the timer fires

	st := s.Snapshot()
	if st.Phase != PhaseQuiz {
		t.Fatalf("expected quiz phase, got %q", st.Phase)
	}

	// the cancelled timer must not fire a second advance
	time.Sleep(100 * time.Millisecond)
	st = s.Snapshot()
	if st.Phase != PhaseQuiz || st.Completed {
		t.Fatalf("stale timer advanced the session: %+v", st)
	}
}

func TestPreviousStepsBack(t *testing.T) {
	s := NewSession(testLesson(), testConfig(), Options{})
	defer s.Close()

	s.Previous() // on first step, no-op
	if st := s.Snapshot(); st.StepIndex != 0 {
		t.Fatalf("previous on step 0 must be a no-op, got %d", st.StepIndex)
	}

	s.Advance()
	s.Previous()
	if st := s.Snapshot(); st.StepIndex != 0 {
		t.Fatalf("expected step 0 after previous, got %d", st.StepIndex)
	}
}

func TestRestartResetsCompletedLesson(t *testing.T) {
	s := NewSession(testLesson(), testConfig(), Options{})
	defer s.Close()

	s.Advance()
	s.Advance()
	s.SelectOption("a")
	s.NextQuestion()
	if st := s.Snapshot(); !st.Completed {
		t.Fatalf("expected completed lesson, got %+v", st)
	}

	s.Restart()
	st := s.Snapshot()
	if st.Completed || st.StepIndex != 0 || st.Phase != PhaseOverview {
		t.Fatalf("restart should reset to the first step, got %+v", st)
	}
}

func TestCompletionFiresCallbackOnce(t *testing.T) {
	done := make(chan struct{}, 2)
	s := NewSession(testLesson(), testConfig(), Options{
		OnComplete: func() { done <- struct{}{} },
	})
	defer s.Close()

	s.Advance()
	s.Advance()
	s.SelectOption("a")
	s.NextQuestion()
	s.NextQuestion() // extra calls after completion are ignored

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("completion callback did not fire")
	}
	select {
	case <-done:
		t.Fatal("completion callback fired twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProgressPercentage(t *testing.T) {
	s := NewSession(testLesson(), testConfig(), Options{})
	defer s.Close()

	if st := s.Snapshot(); st.Progress != 0 {
		t.Fatalf("expected 0%%, got %d", st.Progress)
	}
	s.Advance()
	if st := s.Snapshot(); st.Progress != 33 {
		t.Fatalf("expected 33%%, got %d", st.Progress)
	}
	s.Advance()
	if st := s.Snapshot(); st.Progress != 67 {
		t.Fatalf("expected 67%%, got %d", st.Progress)
	}
	s.SelectOption("a")
	s.NextQuestion()
	if st := s.Snapshot(); st.Progress != 100 {
		t.Fatalf("expected 100%% when completed, got %d", st.Progress)
	}
}

func TestNarrationOnStepEntry(t *testing.T) {
	n := &recordingNarrator{}
	s := NewSession(testLesson(), testConfig(), Options{
		VoiceOver:       true,
		NarrationLocale: "fr",
		Narrator:        n,
	})
	defer s.Close()

	s.Advance()
	time.Sleep(20 * time.Millisecond)

	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.cues) == 0 {
		t.Fatal("expected a narration cue on entering an interactive step")
	}
	cue := n.cues[0]
	if cue.Lang != "fr" {
		t.Fatalf("expected fr narration, got %q", cue.Lang)
	}
	if cue.Text != "Le bouton Démarrer est sur la barre des tâches. Cliquez sur le bouton Démarrer" {
		t.Fatalf("unexpected cue text: %q", cue.Text)
	}
}

func TestNoNarrationWhenVoiceOverDisabled(t *testing.T) {
	n := &recordingNarrator{}
	s := NewSession(testLesson(), testConfig(), Options{Narrator: n})
	defer s.Close()

	s.Advance()
	s.HandleAction("click", "start-button")
	time.Sleep(20 * time.Millisecond)

	if n.cueCount() != 0 {
		t.Fatalf("expected no narration, got %d cues", n.cueCount())
	}
}

func TestHighlightTypeReflectsVoiceOver(t *testing.T) {
	s := NewSession(testLesson(), testConfig(), Options{VoiceOver: true})
	defer s.Close()

	s.Advance()
	if st := s.Snapshot(); st.HighlightType != HighlightAttention {
		t.Fatalf("expected attention highlight with voice-over on, got %q", st.HighlightType)
	}

	s.HandleAction("click", "recycle-bin")
	if st := s.Snapshot(); st.HighlightType != HighlightAction {
		t.Fatalf("expected action highlight while feedback shows, got %q", st.HighlightType)
	}

	s.SetVoiceOver(false)
	time.Sleep(100 * time.Millisecond) // let feedback clear
	if st := s.Snapshot(); st.HighlightType != HighlightAction {
		t.Fatalf("expected action highlight with voice-over off, got %q", st.HighlightType)
	}
}

func TestCompletedSessionIgnoresActions(t *testing.T) {
	rec := &eventRecorder{}
	s := NewSession(testLesson(), testConfig(), Options{Sink: rec.sink})
	defer s.Close()

	s.Advance()
	s.Advance()
	s.SelectOption("a")
	s.NextQuestion()

	s.HandleAction("click", "start-button")
	s.Advance()
	st := s.Snapshot()
	if !st.Completed || st.Phase != PhaseCompleted {
		t.Fatalf("completed session must stay completed, got %+v", st)
	}

	seen := 0
	for _, k := range rec.kinds() {
		if k == EventCompleted {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("expected exactly one completed event, got %d", seen)
	}
}

func TestAutoAdvanceDelayCountsDisplayedCharacters(t *testing.T) {
	lesson := testLesson()
	// 10 characters in fr but 20 bytes; the en text is long enough that
	// reading it would hold the step for a full second
	lesson.Steps[1].AfterExplanation = domain.NewLocalizedText(
		strings.Repeat("x", 100),
		strings.Repeat("é", 10),
	)
	cfg := testConfig()
	cfg.MinAdvanceDelay = time.Millisecond
	cfg.PerCharDelay = 10 * time.Millisecond

	s := NewSession(lesson, cfg, Options{DisplayLocale: "fr", NarrationLocale: "en"})
	defer s.Close()

	s.Advance()
	s.HandleAction("click", "start-button")

	// 10 displayed characters read in 100ms; byte counting or the
	// narration-locale text would still be waiting
	time.Sleep(150 * time.Millisecond)
	if st := s.Snapshot(); st.Phase != PhaseQuiz {
		t.Fatalf("expected advance after the displayed reading time, got phase %q", st.Phase)
	}
}

func TestAdvanceDelayFloor(t *testing.T) {
	cfg := DefaultConfig()
	if d := cfg.AdvanceDelay(10); d != 6*time.Second {
		t.Fatalf("short explanations use the floor, got %s", d)
	}
	if d := cfg.AdvanceDelay(100); d != 8*time.Second {
		t.Fatalf("expected 100 chars to read in 8s, got %s", d)
	}
}
