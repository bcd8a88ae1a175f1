package domain

import (
	"encoding/json"
	"testing"
)

func TestLocalizedTextDecodesBothShapes(t *testing.T) {
	var lt LocalizedText
	if err := json.Unmarshal([]byte(`"File Management"`), &lt); err != nil {
		t.Fatalf("plain string: %v", err)
	}
	if lt.Plain != "File Management" || lt.ByLocale != nil {
		t.Fatalf("unexpected decode: %+v", lt)
	}

	if err := json.Unmarshal([]byte(`{"en":"Desktop","fr":"Bureau"}`), &lt); err != nil {
		t.Fatalf("locale map: %v", err)
	}
	if lt.ByLocale["fr"] != "Bureau" || lt.Plain != "" {
		t.Fatalf("unexpected decode: %+v", lt)
	}
}

func TestLocalizedTextResolveFallback(t *testing.T) {
	lt := NewLocalizedText("Desktop", "Bureau")
	if got := lt.Resolve("fr"); got != "Bureau" {
		t.Fatalf("expected fr value, got %q", got)
	}
	if got := lt.Resolve("de"); got != "Desktop" {
		t.Fatalf("unknown locale falls back to en, got %q", got)
	}

	lt = LocalizedText{ByLocale: map[string]string{"en": "Desktop", "fr": ""}}
	if got := lt.Resolve("fr"); got != "Desktop" {
		t.Fatalf("empty locale value falls back to en, got %q", got)
	}

	lt = LocalizedText{Plain: "Desktop"}
	if got := lt.Resolve("fr"); got != "Desktop" {
		t.Fatalf("plain form serves every locale, got %q", got)
	}
}

func TestLocalizedTextRoundTripPreservesShape(t *testing.T) {
	for _, raw := range []string{`"File Management"`, `{"en":"Desktop","fr":"Bureau"}`} {
		var lt LocalizedText
		if err := json.Unmarshal([]byte(raw), &lt); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		out, err := json.Marshal(lt)
		if err != nil {
			t.Fatalf("encode %s: %v", raw, err)
		}
		if string(out) != raw {
			t.Fatalf("round trip changed shape: %s became %s", raw, out)
		}
	}
}

func TestStepDecodeFromCatalogJSON(t *testing.T) {
	raw := `{
		"id": 1,
		"type": "interactive",
		"instruction": {"en": "Click the Start button", "fr": "Cliquez sur le bouton Démarrer"},
		"beforeExplanation": "The Start button opens the menu.",
		"action": "click",
		"targetId": "start-button"
	}`
	var step StepModel
	if err := json.Unmarshal([]byte(raw), &step); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if step.Type != StepInteractive || step.Action != "click" || step.TargetID != "start-button" {
		t.Fatalf("unexpected step: %+v", step)
	}
	if step.Instruction.Resolve("fr") != "Cliquez sur le bouton Démarrer" {
		t.Fatalf("instruction not localized: %+v", step.Instruction)
	}
	if step.BeforeExplanation.Resolve("fr") != "The Start button opens the menu." {
		t.Fatalf("plain explanation must serve all locales: %+v", step.BeforeExplanation)
	}
}

func TestLessonByID(t *testing.T) {
	course := &CourseModel{
		ID: "word",
		Lessons: []*LessonModel{
			{ID: "word-getting-started"},
			{ID: "word-formatting"},
		},
	}
	if l := course.LessonByID("word-formatting"); l == nil || l.ID != "word-formatting" {
		t.Fatalf("expected lesson, got %+v", l)
	}
	if l := course.LessonByID("word-tables"); l != nil {
		t.Fatalf("unknown lesson must be nil, got %+v", l)
	}
}
