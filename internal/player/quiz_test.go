package player

import (
	"testing"

	"github.com/wintutor/wintutor/internal/domain"
)

func quizQuestions() []domain.QuestionModel {
	return []domain.QuestionModel{
		{
			ID:   "q1",
			Text: domain.NewLocalizedText("First question", "Première question"),
			Options: []domain.OptionModel{
				{ID: "a", IsCorrect: true},
				{ID: "b", IsCorrect: false},
			},
		},
		{
			ID:   "q2",
			Text: domain.NewLocalizedText("Second question", "Deuxième question"),
			Options: []domain.OptionModel{
				{ID: "a", IsCorrect: false},
				{ID: "b", IsCorrect: true},
			},
		},
	}
}

func TestQuizSelectScoresCorrectAnswer(t *testing.T) {
	q := newQuizMachine(quizQuestions())

	correct, ok := q.Select("a")
	if !ok || !correct {
		t.Fatalf("expected accepted correct answer, got correct=%v ok=%v", correct, ok)
	}
	st := q.Snapshot()
	if st.Score != 1 || !st.Answered || st.SelectedOption != "a" {
		t.Fatalf("unexpected state after select: %+v", st)
	}
}

func TestQuizSecondSelectIgnored(t *testing.T) {
	q := newQuizMachine(quizQuestions())

	q.Select("b")
	if _, ok := q.Select("a"); ok {
		t.Fatal("changing the answer must be rejected")
	}
	if st := q.Snapshot(); st.Score != 0 || st.SelectedOption != "b" {
		t.Fatalf("first answer must stand: %+v", st)
	}
}

func TestQuizUnknownOptionIgnored(t *testing.T) {
	q := newQuizMachine(quizQuestions())

	if _, ok := q.Select("z"); ok {
		t.Fatal("unknown option must be rejected")
	}
	if st := q.Snapshot(); st.Answered {
		t.Fatalf("unknown option must not answer the question: %+v", st)
	}
}

func TestQuizNextResetsSelection(t *testing.T) {
	q := newQuizMachine(quizQuestions())

	q.Select("a")
	if finished := q.Next(); finished {
		t.Fatal("next on the first of two questions must not finish")
	}
	st := q.Snapshot()
	if st.QuestionIndex != 1 || st.Answered || st.SelectedOption != "" {
		t.Fatalf("selection must reset on the next question: %+v", st)
	}
}

func TestQuizFinishesRegardlessOfScore(t *testing.T) {
	q := newQuizMachine(quizQuestions())

	q.Select("b") // wrong
	q.Next()
	q.Select("a") // wrong
	if finished := q.Next(); !finished {
		t.Fatal("next on the last question must finish")
	}
	st := q.Snapshot()
	if !st.ShowResults || st.Score != 0 || st.Passed {
		t.Fatalf("expected failed results state: %+v", st)
	}
	if q.Next() {
		t.Fatal("next after results must be a no-op")
	}
}

func TestQuizPassThreshold(t *testing.T) {
	q := newQuizMachine(quizQuestions())

	// 1 of 2 correct meets the rounded-up half threshold
	q.Select("a")
	q.Next()
	q.Select("a")
	q.Next()
	if st := q.Snapshot(); st.Score != 1 || !st.Passed {
		t.Fatalf("expected a pass at 1/2: %+v", st)
	}

	q = newQuizMachine(quizQuestions()[:1])
	q.Next()
	if st := q.Snapshot(); st.Passed {
		t.Fatalf("0/1 must not pass: %+v", st)
	}
}

func TestQuizSkippingAnswersStillFinishes(t *testing.T) {
	q := newQuizMachine(quizQuestions())

	q.Next()
	if finished := q.Next(); !finished {
		t.Fatal("skipping every question must still reach results")
	}
}
