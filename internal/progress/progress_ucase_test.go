package progress

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/wintutor/wintutor/internal/domain"
)

type seqGenerator struct{ n int }

func (g *seqGenerator) Generate() (string, error) {
	g.n++
	return fmt.Sprintf("id-%d", g.n), nil
}

// memProgressRepository backs the use case with maps. BeginTx hands back
// the same instance, so transactional and pool scoped calls share state.
type memProgressRepository struct {
	lessonsPerCourse map[string]int
	enrollments      map[string]*domain.EnrollmentModel
	completions      map[string]map[string]bool // user:course -> lesson -> done
	certificates     map[string]*domain.CertificateModel

	commits   int
	rollbacks int
}

func newMemProgressRepository(lessonsPerCourse map[string]int) *memProgressRepository {
	return &memProgressRepository{
		lessonsPerCourse: lessonsPerCourse,
		enrollments:      make(map[string]*domain.EnrollmentModel),
		completions:      make(map[string]map[string]bool),
		certificates:     make(map[string]*domain.CertificateModel),
	}
}

func (m *memProgressRepository) BeginTx(ctx context.Context) (domain.ProgressRepository, error) {
	return m, nil
}

func (m *memProgressRepository) Commit(ctx context.Context) error {
	m.commits++
	return nil
}

func (m *memProgressRepository) Rollback(ctx context.Context) error {
	m.rollbacks++
	return nil
}

func (m *memProgressRepository) InsertEnrollment(ctx context.Context, e *domain.EnrollmentModel) error {
	key := e.UserID + ":" + e.CourseID
	if _, ok := m.enrollments[key]; ok {
		return nil // conflict target, insert ignored
	}
	now := time.Now()
	e.EnrolledAt = &now
	m.enrollments[key] = e
	return nil
}

func (m *memProgressRepository) GetEnrollment(ctx context.Context, userID, courseID string) (*domain.EnrollmentModel, error) {
	return m.enrollments[userID+":"+courseID], nil
}

func (m *memProgressRepository) UpsertLessonProgress(ctx context.Context, p *domain.LessonProgressModel) error {
	key := p.UserID + ":" + p.CourseID
	if m.completions[key] == nil {
		m.completions[key] = make(map[string]bool)
	}
	m.completions[key][p.LessonID] = p.Completed
	return nil
}

func (m *memProgressRepository) CompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	var ids []string
	for id, done := range m.completions[userID+":"+courseID] {
		if done {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memProgressRepository) CountLessons(ctx context.Context, courseID string) (int, error) {
	return m.lessonsPerCourse[courseID], nil
}

func (m *memProgressRepository) InsertCertificate(ctx context.Context, c *domain.CertificateModel) error {
	key := c.UserID + ":" + c.CourseID
	if _, ok := m.certificates[key]; ok {
		return nil
	}
	now := time.Now()
	c.IssuedAt = &now
	m.certificates[key] = c
	return nil
}

func (m *memProgressRepository) GetCertificate(ctx context.Context, userID, courseID string) (*domain.CertificateModel, error) {
	return m.certificates[userID+":"+courseID], nil
}

func TestEnrollIsIdempotent(t *testing.T) {
	repo := newMemProgressRepository(map[string]int{"windows-11": 3})
	uc := NewProgressUseCase(repo, &seqGenerator{})
	ctx := context.Background()

	if err := uc.Enroll(ctx, "u1", "windows-11"); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := uc.Enroll(ctx, "u1", "windows-11"); err != nil {
		t.Fatalf("second enroll: %v", err)
	}
	e, err := uc.GetEnrollment(ctx, "u1", "windows-11")
	if err != nil {
		t.Fatalf("get enrollment: %v", err)
	}
	if e == nil || e.ID != "id-1" {
		t.Fatalf("first enrollment row must survive, got %+v", e)
	}
}

func TestMarkLessonCompletePartialCourse(t *testing.T) {
	repo := newMemProgressRepository(map[string]int{"windows-11": 3})
	uc := NewProgressUseCase(repo, &seqGenerator{})
	ctx := context.Background()

	result, err := uc.MarkLessonComplete(ctx, "u1", "windows-11", "navigating-desktop")
	if err != nil {
		t.Fatalf("mark complete: %v", err)
	}
	if result.Percentage != 33 || result.CompletedCount != 1 || result.TotalLessons != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.IsFinished {
		t.Fatal("one of three lessons must not finish the course")
	}
	if cert, _ := uc.GetCertificate(ctx, "u1", "windows-11"); cert != nil {
		t.Fatalf("no certificate before 100%%, got %+v", cert)
	}
	if repo.commits != 1 {
		t.Fatalf("expected one committed transaction, got %d", repo.commits)
	}
}

func TestMarkLessonCompleteIsIdempotent(t *testing.T) {
	repo := newMemProgressRepository(map[string]int{"windows-11": 3})
	uc := NewProgressUseCase(repo, &seqGenerator{})
	ctx := context.Background()

	uc.MarkLessonComplete(ctx, "u1", "windows-11", "navigating-desktop")
	result, err := uc.MarkLessonComplete(ctx, "u1", "windows-11", "navigating-desktop")
	if err != nil {
		t.Fatalf("repeat completion: %v", err)
	}
	if result.CompletedCount != 1 || result.Percentage != 33 {
		t.Fatalf("repeat completion must not double count: %+v", result)
	}
}

func TestCertificateIssuedAtFullCompletion(t *testing.T) {
	repo := newMemProgressRepository(map[string]int{"windows-11": 2})
	uc := NewProgressUseCase(repo, &seqGenerator{})
	ctx := context.Background()

	uc.MarkLessonComplete(ctx, "u1", "windows-11", "navigating-desktop")
	result, err := uc.MarkLessonComplete(ctx, "u1", "windows-11", "managing-files")
	if err != nil {
		t.Fatalf("mark complete: %v", err)
	}
	if !result.IsFinished || result.Percentage != 100 {
		t.Fatalf("expected a finished course: %+v", result)
	}

	cert, err := uc.GetCertificate(ctx, "u1", "windows-11")
	if err != nil {
		t.Fatalf("get certificate: %v", err)
	}
	if cert == nil || cert.ProgressPercentage != 100 {
		t.Fatalf("expected an issued certificate, got %+v", cert)
	}

	// re-completing the course must not replace the certificate
	first := cert.ID
	uc.MarkLessonComplete(ctx, "u1", "windows-11", "managing-files")
	cert, _ = uc.GetCertificate(ctx, "u1", "windows-11")
	if cert.ID != first {
		t.Fatalf("certificate must be issued once, got %q then %q", first, cert.ID)
	}
}

func TestGetCourseProgressEmptyCourse(t *testing.T) {
	repo := newMemProgressRepository(map[string]int{"powerpoint": 0})
	uc := NewProgressUseCase(repo, &seqGenerator{})

	p, err := uc.GetCourseProgress(context.Background(), "u1", "powerpoint")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if p.Percentage != 0 || p.TotalLessons != 0 {
		t.Fatalf("a course without lessons reports zero progress: %+v", p)
	}
}

func TestGetCourseProgressAggregates(t *testing.T) {
	repo := newMemProgressRepository(map[string]int{"word": 2})
	uc := NewProgressUseCase(repo, &seqGenerator{})
	ctx := context.Background()

	uc.MarkLessonComplete(ctx, "u1", "word", "word-getting-started")
	p, err := uc.GetCourseProgress(ctx, "u1", "word")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if p.Percentage != 50 || p.CompletedCount != 1 || p.TotalLessons != 2 {
		t.Fatalf("unexpected aggregate: %+v", p)
	}
	if len(p.CompletedLessons) != 1 || p.CompletedLessons[0] != "word-getting-started" {
		t.Fatalf("unexpected completed lessons: %v", p.CompletedLessons)
	}
}
