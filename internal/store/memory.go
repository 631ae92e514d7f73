package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lwr-nhs/tutoring/internal/model"
)

// Memory is an in-process Store with the same version semantics as Postgres.
// It backs the service tests and small single-node deployments.
type Memory struct {
	mu       sync.Mutex
	tutors   map[string]model.Tutor
	subjects map[string]model.Subject
}

func NewMemory() *Memory {
	return &Memory{
		tutors:   make(map[string]model.Tutor),
		subjects: make(map[string]model.Subject),
	}
}

func (s *Memory) GetTutor(ctx context.Context, id string) (*model.Tutor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tutor, ok := s.tutors[id]
	if !ok {
		return nil, model.ErrTutorNotFound
	}

	copied := cloneTutor(tutor)
	return &copied, nil
}

func (s *Memory) PutTutor(ctx context.Context, tutor *model.Tutor, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored, exists := s.tutors[tutor.ID]

	if expectedVersion == 0 {
		if exists {
			return model.ErrTutorExists
		}
		tutor.Version = 1
		tutor.CreatedAt = now
		tutor.UpdatedAt = now
		s.tutors[tutor.ID] = cloneTutor(*tutor)
		return nil
	}

	if !exists {
		return model.ErrTutorNotFound
	}
	if stored.Version != expectedVersion {
		return model.ErrVersionConflict
	}

	tutor.Version = expectedVersion + 1
	tutor.UpdatedAt = now
	s.tutors[tutor.ID] = cloneTutor(*tutor)
	return nil
}

func (s *Memory) ListTutors(ctx context.Context) ([]model.Tutor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tutors := make([]model.Tutor, 0, len(s.tutors))
	for _, tutor := range s.tutors {
		tutors = append(tutors, cloneTutor(tutor))
	}
	sort.Slice(tutors, func(i, j int) bool { return tutors[i].ID < tutors[j].ID })

	return tutors, nil
}

func (s *Memory) ListTutorsBySpecialty(ctx context.Context, subject string) ([]model.Tutor, error) {
	all, err := s.ListTutors(ctx)
	if err != nil {
		return nil, err
	}

	var tutors []model.Tutor
	for _, tutor := range all {
		if tutor.HasSpecialty(subject) {
			tutors = append(tutors, tutor)
		}
	}

	return tutors, nil
}

func (s *Memory) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects := make([]model.Subject, 0, len(s.subjects))
	for _, subject := range s.subjects {
		subjects = append(subjects, subject)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })

	return subjects, nil
}

func (s *Memory) UpsertSubject(ctx context.Context, subject *model.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.subjects[subject.ID]; ok {
		subject.CreatedAt = existing.CreatedAt
	} else if subject.CreatedAt.IsZero() {
		subject.CreatedAt = time.Now().UTC()
	}
	s.subjects[subject.ID] = *subject

	return nil
}

func cloneTutor(tutor model.Tutor) model.Tutor {
	copied := tutor
	copied.Specialties = append([]string(nil), tutor.Specialties...)
	copied.Slots = append([]model.Slot(nil), tutor.Slots...)
	return copied
}
