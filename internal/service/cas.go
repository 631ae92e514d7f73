package service

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/lwr-nhs/tutoring/internal/model"
	"github.com/lwr-nhs/tutoring/internal/store"
)

const (
	casAttempts  = 3
	casRetryWait = 25 * time.Millisecond
)

// errUnchanged signals that a mutation left the tutor document as-is and the
// conditional write should be skipped.
var errUnchanged = errors.New("tutor unchanged")

// updateTutor runs one read-mutate-conditional-write cycle against a tutor
// document, retrying the whole cycle a bounded number of times when the write
// loses a race. Any other error from mutate or the store aborts immediately.
func updateTutor(ctx context.Context, st store.Store, tutorID string, mutate func(*model.Tutor) error) (*model.Tutor, error) {
	var updated *model.Tutor

	backoff := retry.WithMaxRetries(casAttempts, retry.NewConstant(casRetryWait))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		tutor, err := st.GetTutor(ctx, tutorID)
		if err != nil {
			return err
		}

		if err := mutate(tutor); err != nil {
			return err
		}

		if err := st.PutTutor(ctx, tutor, tutor.Version); err != nil {
			if errors.Is(err, model.ErrVersionConflict) {
				return retry.RetryableError(err)
			}
			return err
		}

		updated = tutor
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
