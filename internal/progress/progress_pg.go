package progress

import (
	"context"

	"github.com/wintutor/wintutor/internal/domain"
	"github.com/wintutor/wintutor/internal/infrastructure/driver"
)

// PGProgressRepository progress persistence over PostgreSQL. Every
// write is guarded by the table's natural unique constraint.
type PGProgressRepository struct {
	Conn driver.ITransactionalDB
}

var _ domain.ProgressRepository = &PGProgressRepository{}

func NewProgressRepository(Conn driver.ITransactionalDB) *PGProgressRepository {
	return &PGProgressRepository{Conn: Conn}
}

// BeginTx returns a repository bound to a fresh transaction
func (repo *PGProgressRepository) BeginTx(ctx context.Context) (domain.ProgressRepository, error) {
	tx, err := repo.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &PGProgressRepository{Conn: tx}, nil
}

func (repo *PGProgressRepository) Commit(ctx context.Context) error {
	return repo.Conn.Commit(ctx)
}

func (repo *PGProgressRepository) Rollback(ctx context.Context) error {
	return repo.Conn.Rollback(ctx)
}

func (repo *PGProgressRepository) InsertEnrollment(ctx context.Context, e *domain.EnrollmentModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO enrollments (id, user_id, course_id)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, course_id) DO NOTHING
	`, e.ID, e.UserID, e.CourseID)
	return err
}

func (repo *PGProgressRepository) GetEnrollment(ctx context.Context, userID, courseID string) (*domain.EnrollmentModel, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT id, user_id, course_id, enrolled_at
FROM enrollments
WHERE user_id = $1 AND course_id = $2
	`, userID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		e := new(domain.EnrollmentModel)
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, nil
}

func (repo *PGProgressRepository) UpsertLessonProgress(ctx context.Context, p *domain.LessonProgressModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO lesson_progress (id, user_id, course_id, lesson_id, completed, completed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, course_id, lesson_id)
DO UPDATE SET completed = EXCLUDED.completed, completed_at = EXCLUDED.completed_at
	`, p.ID, p.UserID, p.CourseID, p.LessonID, p.Completed, p.CompletedAt)
	return err
}

func (repo *PGProgressRepository) CompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT lesson_id
FROM lesson_progress
WHERE user_id = $1 AND course_id = $2 AND completed = TRUE
	`, userID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, nil
}

func (repo *PGProgressRepository) CountLessons(ctx context.Context, courseID string) (int, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT COUNT(*) FROM lessons WHERE course_id = $1
	`, courseID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// InsertCertificate conflict-safe: a certificate that already exists
// keeps its original issued_at
func (repo *PGProgressRepository) InsertCertificate(ctx context.Context, c *domain.CertificateModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO certificates (id, user_id, course_id, progress_percentage)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, course_id) DO NOTHING
	`, c.ID, c.UserID, c.CourseID, c.ProgressPercentage)
	return err
}

func (repo *PGProgressRepository) GetCertificate(ctx context.Context, userID, courseID string) (*domain.CertificateModel, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT id, user_id, course_id, issued_at, progress_percentage
FROM certificates
WHERE user_id = $1 AND course_id = $2
	`, userID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		c := new(domain.CertificateModel)
		if err := rows.Scan(&c.ID, &c.UserID, &c.CourseID, &c.IssuedAt, &c.ProgressPercentage); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, nil
}
