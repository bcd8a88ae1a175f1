package catalog

import (
	"context"
	"encoding/json"

	"github.com/wintutor/wintutor/internal/domain"
	"github.com/wintutor/wintutor/internal/infrastructure/driver"
)

// PGCatalogRepository course catalog over PostgreSQL. Lesson steps are
// stored as a JSONB document per lesson; the bilingual scalar fields
// are split into en/fr columns.
type PGCatalogRepository struct {
	Conn driver.ITransactionalDB
}

var _ domain.CatalogRepository = &PGCatalogRepository{}

func NewCatalogRepository(Conn driver.ITransactionalDB) *PGCatalogRepository {
	return &PGCatalogRepository{Conn: Conn}
}

// GetAllCourses list courses ordered by English title, without lessons
func (repo *PGCatalogRepository) GetAllCourses(ctx context.Context) ([]*domain.CourseModel, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT id, title_en, title_fr, description_en, description_fr, icon, color, price
FROM courses
ORDER BY title_en ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.CourseModel
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, course)
	}
	return result, nil
}

// GetCourseByID fetch one course with its ordered lesson list and
// decoded steps. Returns nil when the id is unknown.
func (repo *PGCatalogRepository) GetCourseByID(ctx context.Context, id string) (*domain.CourseModel, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT id, title_en, title_fr, description_en, description_fr, icon, color, price
FROM courses
WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	course, err := scanCourse(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	lessonRows, err := repo.Conn.QueryContext(ctx, `
SELECT lesson_id, course_id, title_en, title_fr, description_en, description_fr,
    duration_en, duration_fr, "order", steps
FROM lessons
WHERE course_id = $1
ORDER BY "order" ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer lessonRows.Close()

	for lessonRows.Next() {
		var (
			lesson                 domain.LessonModel
			titleEn, titleFr       string
			descEn, descFr         string
			durationEn, durationFr string
			steps                  []byte
		)
		if err := lessonRows.Scan(&lesson.ID, &lesson.CourseID, &titleEn, &titleFr,
			&descEn, &descFr, &durationEn, &durationFr, &lesson.Order, &steps); err != nil {
			return nil, err
		}
		lesson.Title = domain.NewLocalizedText(titleEn, titleFr)
		lesson.Description = domain.NewLocalizedText(descEn, descFr)
		lesson.Duration = domain.NewLocalizedText(durationEn, durationFr)
		if err := json.Unmarshal(steps, &lesson.Steps); err != nil {
			return nil, err
		}
		course.Lessons = append(course.Lessons, &lesson)
	}
	return course, nil
}

// SaveCourse upsert a course and its lessons, used by the seeder
func (repo *PGCatalogRepository) SaveCourse(ctx context.Context, course *domain.CourseModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO courses (id, title_en, title_fr, description_en, description_fr, icon, color, price)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    title_en = EXCLUDED.title_en,
    title_fr = EXCLUDED.title_fr,
    description_en = EXCLUDED.description_en,
    description_fr = EXCLUDED.description_fr,
    icon = EXCLUDED.icon,
    color = EXCLUDED.color,
    price = EXCLUDED.price,
    updated_at = NOW()
	`, course.ID,
		course.Title.Resolve("en"), course.Title.Resolve("fr"),
		course.Description.Resolve("en"), course.Description.Resolve("fr"),
		course.Icon, course.Color, course.Price)
	if err != nil {
		return err
	}

	for order, lesson := range course.Lessons {
		steps, err := json.Marshal(lesson.Steps)
		if err != nil {
			return err
		}
		_, err = repo.Conn.ExecContext(ctx, `
INSERT INTO lessons (id, course_id, lesson_id, title_en, title_fr, description_en, description_fr,
    duration_en, duration_fr, "order", steps)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
    title_en = EXCLUDED.title_en,
    title_fr = EXCLUDED.title_fr,
    description_en = EXCLUDED.description_en,
    description_fr = EXCLUDED.description_fr,
    duration_en = EXCLUDED.duration_en,
    duration_fr = EXCLUDED.duration_fr,
    "order" = EXCLUDED."order",
    steps = EXCLUDED.steps,
    updated_at = NOW()
		`, course.ID+"-"+lesson.ID, course.ID, lesson.ID,
			lesson.Title.Resolve("en"), lesson.Title.Resolve("fr"),
			lesson.Description.Resolve("en"), lesson.Description.Resolve("fr"),
			lesson.Duration.Resolve("en"), lesson.Duration.Resolve("fr"),
			order, steps)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanCourse(rows driver.ISQLRows) (*domain.CourseModel, error) {
	var (
		course           domain.CourseModel
		titleEn, titleFr string
		descEn, descFr   string
	)
	if err := rows.Scan(&course.ID, &titleEn, &titleFr, &descEn, &descFr,
		&course.Icon, &course.Color, &course.Price); err != nil {
		return nil, err
	}
	course.Title = domain.NewLocalizedText(titleEn, titleFr)
	course.Description = domain.NewLocalizedText(descEn, descFr)
	return &course, nil
}
