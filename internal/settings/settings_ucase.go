package settings

import (
	"context"

	"go.elastic.co/apm"

	"github.com/wintutor/wintutor/internal/domain"
)

type SettingsUseCaseImpl struct {
	Repo domain.SettingsRepository
}

var _ domain.SettingsUseCase = &SettingsUseCaseImpl{}

func NewSettingsUseCase(repo domain.SettingsRepository) *SettingsUseCaseImpl {
	return &SettingsUseCaseImpl{Repo: repo}
}

func (uc *SettingsUseCaseImpl) Get(ctx context.Context, userID string) (*domain.SettingsModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "GetSettings", "custom")
	defer apmSpan.End()

	return uc.Repo.Load(ctx, userID)
}

// Update apply a partial patch on top of the stored settings and
// persist the result. Unknown keys are ignored.
func (uc *SettingsUseCaseImpl) Update(ctx context.Context, userID string, patch map[string]interface{}) (*domain.SettingsModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "UpdateSettings", "custom")
	defer apmSpan.End()

	current, err := uc.Repo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	applyPatch(current, patch)
	if err := uc.Repo.Save(ctx, userID, current); err != nil {
		return nil, err
	}
	return current, nil
}

// CompleteLesson append a lesson key to the completed list if absent
func (uc *SettingsUseCaseImpl) CompleteLesson(ctx context.Context, userID, lessonID string) (*domain.SettingsModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "SettingsCompleteLesson", "custom")
	defer apmSpan.End()

	current, err := uc.Repo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, id := range current.CompletedLessons {
		if id == lessonID {
			return current, nil
		}
	}
	current.CompletedLessons = append(current.CompletedLessons, lessonID)
	if err := uc.Repo.Save(ctx, userID, current); err != nil {
		return nil, err
	}
	return current, nil
}

func applyPatch(s *domain.SettingsModel, patch map[string]interface{}) {
	if v, ok := patch["displayLanguage"].(string); ok && v != "" {
		s.DisplayLanguage = v
	}
	if v, ok := patch["narrationLanguage"].(string); ok && v != "" {
		s.NarrationLanguage = v
	}
	if v, ok := patch["narratorVoice"].(string); ok && v != "" {
		s.NarratorVoice = v
	}
	if v, ok := patch["isVoiceOverEnabled"].(bool); ok {
		s.VoiceOverEnabled = v
	}
}
