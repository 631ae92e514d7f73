// Package store persists tutor documents and the subject catalog.
//
// A tutor record is stored as one document owning its whole slot array.
// Every write replaces the array wholesale, guarded by an optimistic version
// counter: PutTutor succeeds only when the stored version still equals
// expectedVersion, so a booking and a rollover sweep racing on the same tutor
// can never silently clobber each other.
package store

import (
	"context"

	"github.com/lwr-nhs/tutoring/internal/model"
)

// Store is the document-level port the scheduling core runs against.
type Store interface {
	// GetTutor loads a tutor document. Returns model.ErrTutorNotFound when absent.
	GetTutor(ctx context.Context, id string) (*model.Tutor, error)

	// PutTutor writes the full tutor document. With expectedVersion 0 it
	// creates the record and fails with model.ErrTutorExists if the id is
	// taken; otherwise it updates conditionally and fails with
	// model.ErrVersionConflict when the stored version moved, or
	// model.ErrTutorNotFound when the record vanished. On success the
	// tutor's Version field is advanced.
	PutTutor(ctx context.Context, tutor *model.Tutor, expectedVersion int64) error

	// ListTutors returns every tutor document.
	ListTutors(ctx context.Context) ([]model.Tutor, error)

	// ListTutorsBySpecialty returns tutors whose specialty set contains the
	// subject name.
	ListTutorsBySpecialty(ctx context.Context, subject string) ([]model.Tutor, error)

	// ListSubjects returns the subject catalog ordered by name.
	ListSubjects(ctx context.Context) ([]model.Subject, error)

	// UpsertSubject creates or replaces a catalog entry.
	UpsertSubject(ctx context.Context, subject *model.Subject) error
}
