package domain

import (
	"context"
	"encoding/json"
)

// DefaultLocale is the fallback locale for localized content.
const DefaultLocale = "en"

// LocalizedText holds content that is either a plain string or a map of
// locale to string. The catalog stores both shapes side by side.
type LocalizedText struct {
	Plain    string
	ByLocale map[string]string
}

// NewLocalizedText build a LocalizedText from per-locale values
func NewLocalizedText(en, fr string) LocalizedText {
	return LocalizedText{ByLocale: map[string]string{"en": en, "fr": fr}}
}

// Resolve return the value for locale, falling back to the default
// locale and finally to the plain form
func (lt LocalizedText) Resolve(locale string) string {
	if lt.ByLocale != nil {
		if v, ok := lt.ByLocale[locale]; ok && v != "" {
			return v
		}
		return lt.ByLocale[DefaultLocale]
	}
	return lt.Plain
}

// IsZero report whether no content is present in any form
func (lt LocalizedText) IsZero() bool {
	return lt.Plain == "" && len(lt.ByLocale) == 0
}

func (lt *LocalizedText) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		lt.Plain = plain
		lt.ByLocale = nil
		return nil
	}
	byLocale := make(map[string]string)
	if err := json.Unmarshal(data, &byLocale); err != nil {
		return err
	}
	lt.Plain = ""
	lt.ByLocale = byLocale
	return nil
}

func (lt LocalizedText) MarshalJSON() ([]byte, error) {
	if lt.ByLocale != nil {
		return json.Marshal(lt.ByLocale)
	}
	return json.Marshal(lt.Plain)
}

// LocalizedList is the list shaped counterpart of LocalizedText, used
// for lesson objectives
type LocalizedList struct {
	Plain    []string
	ByLocale map[string][]string
}

// Resolve return the list for locale with the same fallback rules as
// LocalizedText
func (ll LocalizedList) Resolve(locale string) []string {
	if ll.ByLocale != nil {
		if v, ok := ll.ByLocale[locale]; ok && len(v) > 0 {
			return v
		}
		return ll.ByLocale[DefaultLocale]
	}
	return ll.Plain
}

func (ll *LocalizedList) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		ll.Plain = plain
		ll.ByLocale = nil
		return nil
	}
	byLocale := make(map[string][]string)
	if err := json.Unmarshal(data, &byLocale); err != nil {
		return err
	}
	ll.Plain = nil
	ll.ByLocale = byLocale
	return nil
}

func (ll LocalizedList) MarshalJSON() ([]byte, error) {
	if ll.ByLocale != nil {
		return json.Marshal(ll.ByLocale)
	}
	return json.Marshal(ll.Plain)
}

// StepType discriminates the step union
type StepType string

const (
	StepOverview    StepType = "overview"
	StepInteractive StepType = "interactive"
	StepQuiz        StepType = "quiz"
)

// StepModel is one unit of lesson content. The populated fields depend
// on Type: overview steps carry Title/Content/Objectives, interactive
// steps carry Instruction/explanations plus the expected Action and
// TargetID, quiz steps carry Questions.
type StepModel struct {
	ID   int      `json:"id"`
	Type StepType `json:"type"`

	Title      LocalizedText `json:"title,omitempty"`
	Content    LocalizedText `json:"content,omitempty"`
	Objectives LocalizedList `json:"objectives,omitempty"`

	Instruction       LocalizedText `json:"instruction,omitempty"`
	BeforeExplanation LocalizedText `json:"beforeExplanation,omitempty"`
	AfterExplanation  LocalizedText `json:"afterExplanation,omitempty"`
	Action            string        `json:"action,omitempty"`
	TargetID          string        `json:"targetId,omitempty"`

	Questions []QuestionModel `json:"questions,omitempty"`
}

// QuestionModel quiz question with its ordered options
type QuestionModel struct {
	ID      string        `json:"id"`
	Text    LocalizedText `json:"text"`
	Options []OptionModel `json:"options"`
}

// OptionModel one selectable quiz answer
type OptionModel struct {
	ID        string        `json:"id"`
	Text      LocalizedText `json:"text"`
	IsCorrect bool          `json:"isCorrect"`
}

// LessonModel an ordered sequence of steps inside a course.
// ID is unique within the course; the persistence key is CourseID-ID.
type LessonModel struct {
	ID          string        `json:"id"`
	CourseID    string        `json:"courseId"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	Duration    LocalizedText `json:"duration"`
	Order       int           `json:"order"`
	Steps       []StepModel   `json:"steps,omitempty"`

	// Locked is derived per user from course order and completion,
	// never persisted
	Locked bool `json:"locked"`
}

// CourseModel immutable catalog data authored offline, never mutated at
// runtime
type CourseModel struct {
	ID          string         `json:"id"`
	Title       LocalizedText  `json:"title"`
	Description LocalizedText  `json:"description"`
	Icon        string         `json:"icon"`
	Color       string         `json:"color"`
	Price       float64        `json:"price"`
	Lessons     []*LessonModel `json:"lessons,omitempty"`
}

// LessonByID find a lesson by its short (course-scoped) id
func (cm *CourseModel) LessonByID(id string) *LessonModel {
	for _, l := range cm.Lessons {
		if l.ID == id {
			return l
		}
	}
	return nil
}

type CatalogRepository interface {
	GetAllCourses(ctx context.Context) ([]*CourseModel, error)
	GetCourseByID(ctx context.Context, id string) (*CourseModel, error)
	SaveCourse(ctx context.Context, course *CourseModel) error
}

type CatalogUseCase interface {
	ListCourses(ctx context.Context) ([]*CourseModel, error)
	GetCourse(ctx context.Context, id string) (*CourseModel, error)
	GetCourseForUser(ctx context.Context, userID, courseID string) (*CourseModel, error)
}
