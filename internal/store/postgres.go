package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lwr-nhs/tutoring/internal/model"
)

// Postgres keeps each tutor as one row: scalar profile columns plus the
// specialties and slots arrays as jsonb, with a bigint version column doing
// the compare-and-swap.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const tutorColumns = `id, name, password, bio, grade_level, is_admin, specialties, slots, version, created_at, updated_at`

// GetTutor loads a tutor document by id.
func (s *Postgres) GetTutor(ctx context.Context, id string) (*model.Tutor, error) {
	query := `SELECT ` + tutorColumns + ` FROM tutors WHERE id = $1`

	tutor, err := scanTutor(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, model.ErrTutorNotFound
		}
		return nil, fmt.Errorf("get tutor: %w", err)
	}

	return tutor, nil
}

// PutTutor writes the whole tutor document conditionally on its version.
func (s *Postgres) PutTutor(ctx context.Context, tutor *model.Tutor, expectedVersion int64) error {
	specialties, slots, err := marshalArrays(tutor)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if expectedVersion == 0 {
		query := `
			INSERT INTO tutors (id, name, password, bio, grade_level, is_admin, specialties, slots, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $9)
			ON CONFLICT (id) DO NOTHING
		`

		tag, err := s.pool.Exec(ctx, query,
			tutor.ID, tutor.Name, tutor.Password, tutor.Bio, tutor.GradeLevel,
			tutor.IsAdmin, specialties, slots, now)
		if err != nil {
			return fmt.Errorf("insert tutor: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrTutorExists
		}

		tutor.Version = 1
		tutor.CreatedAt = now
		tutor.UpdatedAt = now
		return nil
	}

	query := `
		UPDATE tutors
		SET name = $1, password = $2, bio = $3, grade_level = $4, is_admin = $5,
		    specialties = $6, slots = $7, version = version + 1, updated_at = $8
		WHERE id = $9 AND version = $10
	`

	tag, err := s.pool.Exec(ctx, query,
		tutor.Name, tutor.Password, tutor.Bio, tutor.GradeLevel, tutor.IsAdmin,
		specialties, slots, now, tutor.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update tutor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Zero rows means either a lost race or a vanished record.
		var exists bool
		err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tutors WHERE id = $1)`, tutor.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check tutor exists: %w", err)
		}
		if exists {
			return model.ErrVersionConflict
		}
		return model.ErrTutorNotFound
	}

	tutor.Version = expectedVersion + 1
	tutor.UpdatedAt = now
	return nil
}

// ListTutors returns every tutor document.
func (s *Postgres) ListTutors(ctx context.Context) ([]model.Tutor, error) {
	query := `SELECT ` + tutorColumns + ` FROM tutors ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	defer rows.Close()

	return collectTutors(rows)
}

// ListTutorsBySpecialty returns tutors listing the subject as a specialty,
// using jsonb containment against the specialties array.
func (s *Postgres) ListTutorsBySpecialty(ctx context.Context, subject string) ([]model.Tutor, error) {
	needle, err := json.Marshal([]string{subject})
	if err != nil {
		return nil, fmt.Errorf("marshal specialty filter: %w", err)
	}

	query := `SELECT ` + tutorColumns + ` FROM tutors WHERE specialties @> $1 ORDER BY id`

	rows, err := s.pool.Query(ctx, query, needle)
	if err != nil {
		return nil, fmt.Errorf("list tutors by specialty: %w", err)
	}
	defer rows.Close()

	return collectTutors(rows)
}

// ListSubjects returns the subject catalog.
func (s *Postgres) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	query := `
		SELECT id, name, category, icon, badge, tutor_count, created_at
		FROM subjects
		ORDER BY name
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var subject model.Subject
		err := rows.Scan(
			&subject.ID,
			&subject.Name,
			&subject.Category,
			&subject.Icon,
			&subject.Badge,
			&subject.TutorCount,
			&subject.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}

	return subjects, rows.Err()
}

// UpsertSubject creates or replaces a subject catalog entry.
func (s *Postgres) UpsertSubject(ctx context.Context, subject *model.Subject) error {
	query := `
		INSERT INTO subjects (id, name, category, icon, badge, tutor_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, category = EXCLUDED.category,
		    icon = EXCLUDED.icon, badge = EXCLUDED.badge,
		    tutor_count = EXCLUDED.tutor_count
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		subject.ID, subject.Name, subject.Category, subject.Icon,
		subject.Badge, subject.TutorCount).Scan(&subject.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert subject: %w", err)
	}

	return nil
}

func marshalArrays(tutor *model.Tutor) (specialties, slots []byte, err error) {
	sp := tutor.Specialties
	if sp == nil {
		sp = []string{}
	}
	specialties, err = json.Marshal(sp)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal specialties: %w", err)
	}

	sl := tutor.Slots
	if sl == nil {
		sl = []model.Slot{}
	}
	slots, err = json.Marshal(sl)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal slots: %w", err)
	}

	return specialties, slots, nil
}

func scanTutor(row pgx.Row) (*model.Tutor, error) {
	var (
		tutor       model.Tutor
		specialties []byte
		slots       []byte
	)

	err := row.Scan(
		&tutor.ID,
		&tutor.Name,
		&tutor.Password,
		&tutor.Bio,
		&tutor.GradeLevel,
		&tutor.IsAdmin,
		&specialties,
		&slots,
		&tutor.Version,
		&tutor.CreatedAt,
		&tutor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(specialties, &tutor.Specialties); err != nil {
		return nil, fmt.Errorf("unmarshal specialties: %w", err)
	}
	if err := json.Unmarshal(slots, &tutor.Slots); err != nil {
		return nil, fmt.Errorf("unmarshal slots: %w", err)
	}

	return &tutor, nil
}

func collectTutors(rows pgx.Rows) ([]model.Tutor, error) {
	var tutors []model.Tutor
	for rows.Next() {
		tutor, err := scanTutor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tutor: %w", err)
		}
		tutors = append(tutors, *tutor)
	}
	return tutors, rows.Err()
}
