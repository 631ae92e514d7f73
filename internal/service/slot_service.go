package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lwr-nhs/tutoring/internal/model"
	"github.com/lwr-nhs/tutoring/internal/recurrence"
	"github.com/lwr-nhs/tutoring/internal/store"
)

// SlotService covers the tutor side of scheduling: creating and removing
// availability slots and maintaining the tutor profile.
type SlotService struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewSlotService(st store.Store, logger *zap.Logger) *SlotService {
	return &SlotService{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// CreateTutor registers a new tutor record. The id doubles as the login
// handle; creation fails if it is already taken.
func (s *SlotService) CreateTutor(ctx context.Context, id, name, password string, isAdmin bool) (*model.Tutor, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: tutor id is required", model.ErrValidation)
	}
	if name == "" {
		name = id
	}

	tutor := &model.Tutor{
		ID:          id,
		Name:        name,
		Password:    password,
		IsAdmin:     isAdmin,
		Specialties: []string{},
		Slots:       []model.Slot{},
	}

	if err := s.store.PutTutor(ctx, tutor, 0); err != nil {
		return nil, fmt.Errorf("create tutor: %w", err)
	}

	s.logger.Info("Tutor created",
		zap.String("tutor_id", id),
		zap.Bool("is_admin", isAdmin),
	)

	return tutor, nil
}

// UpdateProfile replaces the tutor's bio, grade level and specialty set.
func (s *SlotService) UpdateProfile(ctx context.Context, tutorID, bio, gradeLevel string, specialties []string) (*model.Tutor, error) {
	tutor, err := updateTutor(ctx, s.store, tutorID, func(t *model.Tutor) error {
		t.Bio = bio
		t.GradeLevel = gradeLevel
		t.Specialties = append([]string(nil), specialties...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("Tutor profile updated",
		zap.String("tutor_id", tutorID),
		zap.Int("specialties", len(specialties)),
	)

	return tutor, nil
}

// CreateRecurringSlots creates one weekly slot per subject on the given
// school day and eligible time window, and indexes the subjects into the
// tutor's specialty set.
func (s *SlotService) CreateRecurringSlots(ctx context.Context, tutorID, dayOfWeek, windowID string, subjects []string) ([]model.Slot, error) {
	window, err := s.validateRequest(windowID, subjects)
	if err != nil {
		return nil, err
	}

	weekday, ok := model.ParseWeekday(dayOfWeek)
	if !ok {
		return nil, fmt.Errorf("%w: unknown day of week %q", model.ErrValidation, dayOfWeek)
	}
	if !model.EligibleDay(weekday) {
		return nil, fmt.Errorf("%w: tutoring runs on school days only, got %s", model.ErrValidation, dayOfWeek)
	}

	now := s.now()
	occurrence, err := recurrence.NextOccurrence(weekday, window.Start, now)
	if err != nil {
		return nil, err
	}
	expiry, err := recurrence.ExpiryInstant(occurrence, window.End)
	if err != nil {
		return nil, err
	}

	slots := make([]model.Slot, 0, len(subjects))
	for _, subject := range subjects {
		slots = append(slots, model.Slot{
			ID:             uuid.NewString(),
			Type:           model.SlotTypeRecurring,
			DayOfWeek:      dayOfWeek,
			StartTime:      window.Start,
			EndTime:        window.End,
			Subject:        subject,
			Status:         model.SlotStatusAvailable,
			NextOccurrence: occurrence,
			ExpiryDate:     expiry,
			MaxCapacity:    1,
			CreatedAt:      now,
		})
	}

	if err := s.appendSlots(ctx, tutorID, slots, subjects); err != nil {
		return nil, err
	}

	s.logger.Info("Recurring slots created",
		zap.String("tutor_id", tutorID),
		zap.String("day", dayOfWeek),
		zap.String("window", windowID),
		zap.Int("count", len(slots)),
		zap.Time("next_occurrence", occurrence),
	)

	return slots, nil
}

// CreateSpecificDateSlots creates one single-shot slot per subject on an
// explicit calendar date (YYYY-MM-DD). The session must start strictly in
// the future.
func (s *SlotService) CreateSpecificDateSlots(ctx context.Context, tutorID, date, windowID string, subjects []string) ([]model.Slot, error) {
	window, err := s.validateRequest(windowID, subjects)
	if err != nil {
		return nil, err
	}

	now := s.now()
	day, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", model.ErrValidation, date)
	}
	if !model.EligibleDay(day.Weekday()) {
		return nil, fmt.Errorf("%w: tutoring runs on school days only, got %s", model.ErrValidation, day.Weekday())
	}

	start, err := recurrence.At(day, window.Start)
	if err != nil {
		return nil, err
	}
	if !start.After(now) {
		return nil, fmt.Errorf("%w: session must be in the future", model.ErrValidation)
	}

	expiry, err := recurrence.ExpiryInstant(start, window.End)
	if err != nil {
		return nil, err
	}

	slots := make([]model.Slot, 0, len(subjects))
	for _, subject := range subjects {
		slots = append(slots, model.Slot{
			ID:             uuid.NewString(),
			Type:           model.SlotTypeSpecificDate,
			SpecificDate:   date,
			StartTime:      window.Start,
			EndTime:        window.End,
			Subject:        subject,
			Status:         model.SlotStatusAvailable,
			NextOccurrence: start,
			ExpiryDate:     expiry,
			MaxCapacity:    1,
			CreatedAt:      now,
		})
	}

	if err := s.appendSlots(ctx, tutorID, slots, subjects); err != nil {
		return nil, err
	}

	s.logger.Info("Specific-date slots created",
		zap.String("tutor_id", tutorID),
		zap.String("date", date),
		zap.String("window", windowID),
		zap.Int("count", len(slots)),
	)

	return slots, nil
}

// RemoveSlot deletes a slot from the tutor's list.
func (s *SlotService) RemoveSlot(ctx context.Context, tutorID, slotID string) error {
	_, err := updateTutor(ctx, s.store, tutorID, func(t *model.Tutor) error {
		idx := t.SlotByID(slotID)
		if idx < 0 {
			return fmt.Errorf("slot %s: %w", slotID, model.ErrSlotNotFound)
		}
		t.Slots = append(t.Slots[:idx], t.Slots[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Slot removed",
		zap.String("tutor_id", tutorID),
		zap.String("slot_id", slotID),
	)

	return nil
}

// AddSubject registers a new topic in the subject catalog under a slug id
// derived from its name.
func (s *SlotService) AddSubject(ctx context.Context, name, category string) (*model.Subject, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: subject name is required", model.ErrValidation)
	}
	if category == "" {
		category = "specialized"
	}

	subject := &model.Subject{
		ID:       model.SubjectSlug(name),
		Name:     name,
		Category: category,
		Icon:     "book-open",
	}

	if err := s.store.UpsertSubject(ctx, subject); err != nil {
		return nil, fmt.Errorf("add subject: %w", err)
	}

	s.logger.Info("Subject added",
		zap.String("subject_id", subject.ID),
		zap.String("name", name),
		zap.String("category", category),
	)

	return subject, nil
}

func (s *SlotService) validateRequest(windowID string, subjects []string) (model.TimeWindow, error) {
	if len(subjects) == 0 {
		return model.TimeWindow{}, fmt.Errorf("%w: at least one subject is required", model.ErrValidation)
	}
	for _, subject := range subjects {
		if subject == "" {
			return model.TimeWindow{}, fmt.Errorf("%w: empty subject name", model.ErrValidation)
		}
	}

	window, ok := model.WindowByID(windowID)
	if !ok {
		return model.TimeWindow{}, fmt.Errorf("%w: unknown time window %q", model.ErrValidation, windowID)
	}

	return window, nil
}

func (s *SlotService) appendSlots(ctx context.Context, tutorID string, slots []model.Slot, subjects []string) error {
	for i := range slots {
		if err := slots[i].Validate(); err != nil {
			return err
		}
	}

	_, err := updateTutor(ctx, s.store, tutorID, func(t *model.Tutor) error {
		t.Slots = append(t.Slots, slots...)
		// Creating a slot for a subject also advertises it as a specialty,
		// so the subject search can find the tutor.
		for _, subject := range subjects {
			if !t.HasSpecialty(subject) {
				t.Specialties = append(t.Specialties, subject)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append slots: %w", err)
	}

	return nil
}
