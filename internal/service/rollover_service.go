package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lwr-nhs/tutoring/internal/model"
	"github.com/lwr-nhs/tutoring/internal/recurrence"
	"github.com/lwr-nhs/tutoring/internal/store"
)

// RolloverService sweeps every tutor's slots: concluded specific-date slots
// are marked Expired for good, concluded recurring slots roll forward to the
// next week and return to the bookable pool. The sweep is a cleanup pass —
// booking already treats a concluded recurring booking as rebookable, so
// nothing depends on the sweep running at any particular moment.
type RolloverService struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewRolloverService(st store.Store, logger *zap.Logger) *RolloverService {
	return &RolloverService{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// Sweep processes every tutor once. A failure on one tutor is logged and
// collected but never stops the sweep for the rest; the combined error is
// returned for the caller to report.
func (s *RolloverService) Sweep(ctx context.Context) error {
	tutors, err := s.store.ListTutors(ctx)
	if err != nil {
		return fmt.Errorf("list tutors: %w", err)
	}

	var (
		rolled  int
		expired int
		errs    error
	)

	for _, tutor := range tutors {
		r, e, err := s.sweepTutor(ctx, tutor.ID)
		if err != nil {
			s.logger.Error("Sweep failed for tutor",
				zap.String("tutor_id", tutor.ID),
				zap.Error(err),
			)
			errs = multierr.Append(errs, fmt.Errorf("tutor %s: %w", tutor.ID, err))
			continue
		}
		rolled += r
		expired += e
	}

	s.logger.Info("Slot sweep finished",
		zap.Int("tutors", len(tutors)),
		zap.Int("recurring_rolled", rolled),
		zap.Int("specific_expired", expired),
	)

	return errs
}

// sweepTutor rewrites one tutor's slot list under the document version guard.
// Tutors whose slots need no changes are not written at all.
func (s *RolloverService) sweepTutor(ctx context.Context, tutorID string) (rolled, expired int, err error) {
	_, err = updateTutor(ctx, s.store, tutorID, func(t *model.Tutor) error {
		changed := false
		rolled, expired = 0, 0 // the cycle may rerun after a lost race

		now := s.now()
		for i := range t.Slots {
			slot := &t.Slots[i]
			if !slot.IsExpired(now) {
				continue
			}

			switch slot.Type {
			case model.SlotTypeSpecificDate:
				if slot.Status != model.SlotStatusExpired {
					slot.Status = model.SlotStatusExpired
					changed = true
					expired++
				}

			case model.SlotTypeRecurring:
				weekday, ok := model.ParseWeekday(slot.DayOfWeek)
				if !ok {
					return fmt.Errorf("%w: slot %s has unknown day %q", model.ErrValidation, slot.ID, slot.DayOfWeek)
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
				slot.Status = model.SlotStatusAvailable
				slot.StudentName = ""
				slot.StudentEmail = ""
				changed = true
				rolled++

				s.logger.Debug("Recurring slot rolled forward",
					zap.String("tutor_id", t.ID),
					zap.String("slot_id", slot.ID),
					zap.String("subject", slot.Subject),
					zap.Time("next_occurrence", occurrence),
				)
			}
		}

		if !changed {
			return errUnchanged
		}
		return nil
	})

	if errors.Is(err, errUnchanged) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	return rolled, expired, nil
}
