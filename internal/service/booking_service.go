package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lwr-nhs/tutoring/internal/model"
	"github.com/lwr-nhs/tutoring/internal/recurrence"
	"github.com/lwr-nhs/tutoring/internal/store"
)

// BookingService covers the student side: finding tutors by subject and
// booking a slot.
type BookingService struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewBookingService(st store.Store, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// BookSlot reserves a slot for a student. The whole read-check-write sequence
// runs under the tutor document's version guard and is retried a bounded
// number of times on a lost race: of two students booking the same slot
// concurrently, exactly one succeeds and the other gets model.ErrSlotTaken.
//
// A recurring slot whose previous booking has already concluded is booked for
// its next occurrence without waiting for the rollover sweep.
func (s *BookingService) BookSlot(ctx context.Context, tutorID, slotID, studentName, studentEmail string) (*model.Slot, error) {
	if studentName == "" {
		return nil, fmt.Errorf("%w: student name is required", model.ErrValidation)
	}

	var booked model.Slot

	tutor, err := updateTutor(ctx, s.store, tutorID, func(t *model.Tutor) error {
		idx := t.SlotByID(slotID)
		if idx < 0 {
			return fmt.Errorf("slot %s: %w", slotID, model.ErrSlotNotFound)
		}

		slot := &t.Slots[idx]
		now := s.now()
		if !slot.Bookable(now) {
			return fmt.Errorf("slot %s: %w", slotID, model.ErrSlotTaken)
		}

		// A concluded prior booking means this occurrence is over; the new
		// booking is for the following week.
		if slot.Type == model.SlotTypeRecurring && slot.IsExpired(now) {
			weekday, ok := model.ParseWeekday(slot.DayOfWeek)
			if !ok {
				return fmt.Errorf("%w: slot %s has unknown day %q", model.ErrValidation, slotID, slot.DayOfWeek)
			}
			occurrence, err := recurrence.NextOccurrence(weekday, slot.StartTime, now)
			if err != nil {
				return err
			}
			expiry, err := recurrence.ExpiryInstant(occurrence, slot.EndTime)
			if err != nil {
				return err
			}
			slot.NextOccurrence = occurrence
			slot.ExpiryDate = expiry
		}

		slot.Status = model.SlotStatusBooked
		slot.StudentName = studentName
		slot.StudentEmail = studentEmail

		booked = *slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot booked",
		zap.String("tutor_id", tutor.ID),
		zap.String("slot_id", slotID),
		zap.String("subject", booked.Subject),
		zap.String("student", studentName),
		zap.Time("occurrence", booked.NextOccurrence),
	)

	return &booked, nil
}

// FindTutorsBySubject returns tutors who list the subject as a specialty and
// currently have at least one bookable slot, each with only their bookable
// slots in chronological order.
func (s *BookingService) FindTutorsBySubject(ctx context.Context, subject string) ([]model.TutorAvailability, error) {
	tutors, err := s.store.ListTutorsBySpecialty(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("find tutors: %w", err)
	}

	now := s.now()
	var results []model.TutorAvailability

	for _, tutor := range tutors {
		var open []model.Slot
		for _, slot := range tutor.Slots {
			if slot.Bookable(now) {
				open = append(open, slot)
			}
		}
		if len(open) == 0 {
			continue
		}

		sortSlotsChronologically(open)

		tutor.Slots = nil
		results = append(results, model.TutorAvailability{
			Tutor: tutor,
			Slots: open,
		})
	}

	return results, nil
}

// ListSubjects returns the subject catalog.
func (s *BookingService) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	return s.store.ListSubjects(ctx)
}

// sortSlotsChronologically orders by the actual next session instant rather
// than by day name, so a Friday slot later today sorts before next Monday.
func sortSlotsChronologically(slots []model.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].NextOccurrence.Equal(slots[j].NextOccurrence) {
			return slots[i].NextOccurrence.Before(slots[j].NextOccurrence)
		}
		return startMinutes(slots[i]) < startMinutes(slots[j])
	})
}

func startMinutes(slot model.Slot) int {
	hour, minute, err := recurrence.To24Hour(slot.StartTime)
	if err != nil {
		return 0
	}
	return hour*60 + minute
}
