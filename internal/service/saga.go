// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
)

// Outcome is the terminal state of a lifecycle operation.
type Outcome int

const (
	// OutcomeCommitted means every step succeeded.
	OutcomeCommitted Outcome = iota
	// OutcomeAborted means the first step failed and nothing was changed.
	OutcomeAborted
	// OutcomeRolledBack means a later step failed and every completed step
	// was compensated.
	OutcomeRolledBack
	// OutcomeInconsistent means at least one compensation failed.
	OutcomeInconsistent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeAborted:
		return "aborted"
	case OutcomeRolledBack:
		return "rolled_back"
	case OutcomeInconsistent:
		return "inconsistent"
	default:
		return "unknown"
	}
}

// step is one forward action of a saga and the action that undoes it.
// compensate may be nil for the last step.
type step struct {
	name       string
	forward    func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// saga runs steps in order. When step i fails, steps i-1..0 are compensated
// in reverse order. Once the first step has committed, the remaining steps
// and all compensations run on a context detached from caller cancellation.
type saga struct {
	operation string
	username  string
	// related lists other usernames the operation touches. They are
	// flagged together with username when the saga ends inconsistent.
	related []string
	steps   []step
}

func (s saga) run(ctx context.Context) (Outcome, error) {
	log := logger.FromContext(ctx).With().
		Str("operation", s.operation).
		Str("username", s.username).
		Logger()

	for i, st := range s.steps {
		if i == 1 {
			ctx = context.WithoutCancel(ctx)
		}

		log.Debug().Str("step", st.name).Msg("running saga step")
		err := st.forward(ctx)
		if err == nil {
			continue
		}

		if i == 0 {
			log.Debug().Err(err).Str("step", st.name).Msg("saga aborted")
			return OutcomeAborted, &LifecycleError{
				Operation: s.operation,
				Username:  s.username,
				Outcome:   OutcomeAborted,
				Err:       err,
			}
		}

		compErr := s.compensate(ctx, i)
		if compErr != nil {
			log.Error().
				AnErr("step_error", err).
				AnErr("compensation_error", compErr).
				Str("step", st.name).
				Msg("compensation failed, stores are inconsistent")
			return OutcomeInconsistent, &LifecycleError{
				Operation:       s.operation,
				Username:        s.username,
				Outcome:         OutcomeInconsistent,
				Err:             err,
				CompensationErr: compErr,
			}
		}

		return OutcomeRolledBack, &LifecycleError{
			Operation: s.operation,
			Username:  s.username,
			Outcome:   OutcomeRolledBack,
			Err:       err,
		}
	}

	return OutcomeCommitted, nil
}

// compensate undoes steps failed-1..0 and joins every compensation error.
func (s saga) compensate(ctx context.Context, failed int) error {
	log := logger.FromContext(ctx)

	var errs []error
	for j := failed - 1; j >= 0; j-- {
		st := s.steps[j]
		if st.compensate == nil {
			continue
		}

		log.Warn().Str("operation", s.operation).Str("username", s.username).Str("step", st.name).Msg("compensating saga step")
		if err := st.compensate(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
