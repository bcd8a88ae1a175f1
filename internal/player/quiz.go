package player

import "github.com/wintutor/wintutor/internal/domain"

// QuizState serialisable view of the quiz sub machine
type QuizState struct {
	QuestionIndex  int    `json:"questionIndex"`
	TotalQuestions int    `json:"totalQuestions"`
	SelectedOption string `json:"selectedOption,omitempty"`
	Answered       bool   `json:"answered"`
	Score          int    `json:"score"`
	ShowResults    bool   `json:"showResults"`
	Passed         bool   `json:"passed"`
}

// quizMachine nested state machine for quiz typed steps. States:
// asking(questionIndex, selectedOption, answered) and results(score).
type quizMachine struct {
	questions []domain.QuestionModel

	questionIndex  int
	selectedOption string
	answered       bool
	score          int
	showResults    bool
}

func newQuizMachine(questions []domain.QuestionModel) *quizMachine {
	return &quizMachine{questions: questions}
}

// Select record the answer for the current question. Exactly one
// selection is permitted per question; repeated or unknown selections
// are ignored. Returns whether the option was correct and whether the
// selection was accepted.
func (q *quizMachine) Select(optionID string) (correct bool, ok bool) {
	if q.answered || q.showResults || q.questionIndex >= len(q.questions) {
		return false, false
	}
	var option *domain.OptionModel
	for i := range q.questions[q.questionIndex].Options {
		if q.questions[q.questionIndex].Options[i].ID == optionID {
			option = &q.questions[q.questionIndex].Options[i]
			break
		}
	}
	if option == nil {
		return false, false
	}
	q.selectedOption = optionID
	q.answered = true
	if option.IsCorrect {
		q.score++
	}
	return option.IsCorrect, true
}

// Next move to the following question, or transition to results when
// the last question has been reached. Returns true on the transition
// to results, which completes the parent lesson regardless of score.
func (q *quizMachine) Next() (finished bool) {
	if q.showResults {
		return false
	}
	if q.questionIndex < len(q.questions)-1 {
		q.questionIndex++
		q.selectedOption = ""
		q.answered = false
		return false
	}
	q.showResults = true
	return true
}

// Passed half of the questions answered correctly, rounded up. Used
// for congratulatory framing only, never as a completion gate.
func (q *quizMachine) Passed() bool {
	return q.score >= (len(q.questions)+1)/2
}

func (q *quizMachine) Snapshot() *QuizState {
	return &QuizState{
		QuestionIndex:  q.questionIndex,
		TotalQuestions: len(q.questions),
		SelectedOption: q.selectedOption,
		Answered:       q.answered,
		Score:          q.score,
		ShowResults:    q.showResults,
		Passed:         q.Passed(),
	}
}
