package billing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/billingkit/pkg/async"
)

// renewalReport is the model the renewal-report email template renders.
type renewalReport struct {
	User    User
	IsRenew bool
}

func (s *service) RenewalSweep(ctx context.Context) error {
	users, err := s.users.FindSubscribedByRole(ctx, s.sweepRole)
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "renewal sweep started",
		slog.Int("subscribed_users", len(users)),
		slog.String("role", string(s.sweepRole)),
	)

	// Each user is swept independently and concurrently; one user's
	// provider failure must never block or abort another's.
	futures := make([]*async.Future[bool], len(users))
	for i := range users {
		user := users[i]
		futures[i] = async.Async(ctx, user, func(ctx context.Context, u User) (bool, error) {
			cancelled, err := s.sweepUser(ctx, &u)
			return cancelled, err
		})
	}

	var cancelled, failed int
	for i, f := range futures {
		done, err := f.Await()
		if err != nil {
			failed++
			s.log.ErrorContext(ctx, "renewal sweep user skipped",
				slog.String("user_id", users[i].ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if done {
			cancelled++
		}
	}

	s.log.InfoContext(ctx, "renewal sweep finished",
		slog.Int("cancelled", cancelled),
		slog.Int("failed", failed),
	)
	return nil
}

// sweepUser checks a single subscribed user and cancels their subscription
// when the program year has run out. Reports whether a cancellation happened.
func (s *service) sweepUser(ctx context.Context, user *User) (bool, error) {
	enrollments, err := s.enrollments.FindByUser(ctx, user.ID)
	if err != nil {
		return false, err
	}
	if len(enrollments) == 0 {
		return false, nil
	}
	enrollment := enrollments[0]

	// The cycle ends the month before its anniversary: start year plus one,
	// start month minus one. A January start yields end month zero, which
	// the comparison below treats as already reached within the end year.
	endYear := enrollment.StartYear + 1
	endMonth := enrollment.StartMonth - 1

	now := s.now()
	if now.Year() < endYear || int(now.Month()) < endMonth {
		return false, nil
	}

	sub, err := s.provider.GetSubscription(ctx, user.SubscriptionID)
	if err != nil {
		return false, errors.Join(ErrLookupFailed, err)
	}

	// Wait for the billing anniversary day so the final month stays paid.
	if sub.CreatedAt.Day() > now.Day() {
		return false, nil
	}

	if err := s.DeleteSubscription(ctx, user.SubscriptionID); err != nil {
		return false, err
	}

	user.SubscriptionID = ""
	if err := s.users.Save(ctx, user); err != nil {
		return false, err
	}

	s.log.InfoContext(ctx, "subscription cancelled at end of program year",
		slog.String("user_id", user.ID.String()),
	)

	if s.notifier != nil {
		s.notifier.Dispatch(user.Email, "renewal-report", renewalReport{User: *user, IsRenew: true})
	}

	return true, nil
}
