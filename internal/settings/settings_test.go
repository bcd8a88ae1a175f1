package settings

import (
	"context"
	"testing"
	"time"
)

type memKV struct {
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) SetEX(key, value string, expiration time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Get(key string) (string, error) {
	return m.data[key], nil
}

func (m *memKV) Exists(key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *memKV) Ping() error { return nil }

func TestLoadReturnsDefaultsWhenAbsent(t *testing.T) {
	repo := NewSettingsRepository(newMemKV())

	s, err := repo.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.DisplayLanguage != "en" || s.NarrationLanguage != "en" {
		t.Fatalf("expected default languages, got %+v", s)
	}
	if s.CompletedLessons == nil || len(s.CompletedLessons) != 0 {
		t.Fatalf("completed lessons must be an empty list, got %#v", s.CompletedLessons)
	}
}

func TestLoadMergesPartialDocumentOverDefaults(t *testing.T) {
	kv := newMemKV()
	kv.data["settings:u1"] = `{"displayLanguage":"fr"}`
	repo := NewSettingsRepository(kv)

	s, err := repo.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.DisplayLanguage != "fr" {
		t.Fatalf("stored field must win, got %q", s.DisplayLanguage)
	}
	if s.NarratorVoice != "default" {
		t.Fatalf("missing fields keep their default, got %q", s.NarratorVoice)
	}
}

func TestLoadCorruptDocumentFallsBack(t *testing.T) {
	kv := newMemKV()
	kv.data["settings:u1"] = `{not json`
	repo := NewSettingsRepository(kv)

	s, err := repo.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.DisplayLanguage != "en" {
		t.Fatalf("corrupt document must resolve to defaults, got %+v", s)
	}
}

func TestUpdateAppliesKnownFieldsOnly(t *testing.T) {
	uc := NewSettingsUseCase(NewSettingsRepository(newMemKV()))
	ctx := context.Background()

	s, err := uc.Update(ctx, "u1", map[string]interface{}{
		"displayLanguage":    "fr",
		"isVoiceOverEnabled": true,
		"narratorVoice":      "",      // empty strings are ignored
		"completedLessons":   "bogus", // not patchable
		"unknown":            42,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.DisplayLanguage != "fr" || !s.VoiceOverEnabled {
		t.Fatalf("patch not applied: %+v", s)
	}
	if s.NarratorVoice != "default" {
		t.Fatalf("empty voice must keep the default, got %q", s.NarratorVoice)
	}

	// the patched document must persist
	s, err = uc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.DisplayLanguage != "fr" || !s.VoiceOverEnabled {
		t.Fatalf("settings not persisted: %+v", s)
	}
}

func TestCompleteLessonDeduplicates(t *testing.T) {
	uc := NewSettingsUseCase(NewSettingsRepository(newMemKV()))
	ctx := context.Background()

	uc.CompleteLesson(ctx, "u1", "windows-11-navigating-desktop")
	uc.CompleteLesson(ctx, "u1", "windows-11-navigating-desktop")
	s, err := uc.CompleteLesson(ctx, "u1", "windows-11-managing-files")
	if err != nil {
		t.Fatalf("complete lesson: %v", err)
	}
	if len(s.CompletedLessons) != 2 {
		t.Fatalf("expected two distinct lessons, got %v", s.CompletedLessons)
	}
}
