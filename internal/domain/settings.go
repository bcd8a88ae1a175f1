package domain

import "context"

// SettingsModel per user preference state. Loaded at startup by the
// client, merged over defaults, written back on every change.
type SettingsModel struct {
	DisplayLanguage   string   `json:"displayLanguage"`
	NarrationLanguage string   `json:"narrationLanguage"`
	NarratorVoice     string   `json:"narratorVoice"`
	VoiceOverEnabled  bool     `json:"isVoiceOverEnabled"`
	CompletedLessons  []string `json:"completedLessons"`
}

// DefaultSettings the baseline every stored document is merged over
func DefaultSettings() *SettingsModel {
	return &SettingsModel{
		DisplayLanguage:   DefaultLocale,
		NarrationLanguage: DefaultLocale,
		NarratorVoice:     "default",
		VoiceOverEnabled:  false,
		CompletedLessons:  []string{},
	}
}

type SettingsRepository interface {
	Load(ctx context.Context, userID string) (*SettingsModel, error)
	Save(ctx context.Context, userID string, s *SettingsModel) error
}

type SettingsUseCase interface {
	Get(ctx context.Context, userID string) (*SettingsModel, error)
	Update(ctx context.Context, userID string, patch map[string]interface{}) (*SettingsModel, error)
	CompleteLesson(ctx context.Context, userID, lessonID string) (*SettingsModel, error)
}
