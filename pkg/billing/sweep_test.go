package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/billing"
	"github.com/dmitrymomot/billingkit/pkg/email"
)

func fixedClock(t time.Time) billing.ServiceOption {
	return billing.WithClock(func() time.Time { return t })
}

func subscribedUser(subID string) billing.User {
	return billing.User{
		ID:             uuid.New(),
		Email:          "member@example.com",
		Role:           billing.RoleMember,
		SubscriptionID: subID,
	}
}

func TestRenewalSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels when the program year is over", func(t *testing.T) {
		// Enrolled September 2025: the cycle runs through August 2026.
		now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
		svc, d := newService(t, fixedClock(now))

		user := subscribedUser("sub_1")
		d.users.On("FindSubscribedByRole", ctx, billing.RoleMember).Return([]billing.User{user}, nil)
		d.enrollments.On("FindByUser", mock.Anything, user.ID).Return([]billing.Enrollment{
			{UserID: user.ID, StartYear: 2025, StartMonth: 9},
		}, nil)
		d.provider.On("GetSubscription", mock.Anything, "sub_1").Return(&billing.Subscription{
			ID:        "sub_1",
			CreatedAt: time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		}, nil)
		d.provider.On("CancelSubscription", mock.Anything, "sub_1").Return(nil).Once()
		d.users.On("Save", mock.Anything, mock.MatchedBy(func(u *billing.User) bool {
			return u.ID == user.ID && u.SubscriptionID == ""
		})).Return(nil).Once()

		require.NoError(t, svc.RenewalSweep(ctx))
		d.provider.AssertExpectations(t)
		d.users.AssertExpectations(t)
	})

	t.Run("skips while the cycle is still running", func(t *testing.T) {
		now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
		svc, d := newService(t, fixedClock(now))

		user := subscribedUser("sub_1")
		d.users.On("FindSubscribedByRole", ctx, billing.RoleMember).Return([]billing.User{user}, nil)
		d.enrollments.On("FindByUser", mock.Anything, user.ID).Return([]billing.Enrollment{
			{UserID: user.ID, StartYear: 2025, StartMonth: 9},
		}, nil)

		require.NoError(t, svc.RenewalSweep(ctx))
		d.provider.AssertNotCalled(t, "GetSubscription", mock.Anything, mock.Anything)
		d.provider.AssertNotCalled(t, "CancelSubscription", mock.Anything, mock.Anything)
	})

	t.Run("waits for the billing anniversary day", func(t *testing.T) {
		now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
		svc, d := newService(t, fixedClock(now))

		user := subscribedUser("sub_1")
		d.users.On("FindSubscribedByRole", ctx, billing.RoleMember).Return([]billing.User{user}, nil)
		d.enrollments.On("FindByUser", mock.Anything, user.ID).Return([]billing.Enrollment{
			{UserID: user.ID, StartYear: 2025, StartMonth: 9},
		}, nil)
		d.provider.On("GetSubscription", mock.Anything, "sub_1").Return(&billing.Subscription{
			ID:        "sub_1",
			CreatedAt: time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		}, nil)

		require.NoError(t, svc.RenewalSweep(ctx))
		d.provider.AssertNotCalled(t, "CancelSubscription", mock.Anything, mock.Anything)
	})

	t.Run("skips users without an enrollment", func(t *testing.T) {
		now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
		svc, d := newService(t, fixedClock(now))

		user := subscribedUser("sub_1")
		d.users.On("FindSubscribedByRole", ctx, billing.RoleMember).Return([]billing.User{user}, nil)
		d.enrollments.On("FindByUser", mock.Anything, user.ID).Return([]billing.Enrollment{}, nil)

		require.NoError(t, svc.RenewalSweep(ctx))
		d.provider.AssertNotCalled(t, "GetSubscription", mock.Anything, mock.Anything)
	})

	t.Run("january enrollment is eligible from the start of the end year", func(t *testing.T) {
		now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
		svc, d := newService(t, fixedClock(now))

		user := subscribedUser("sub_1")
		d.users.On("FindSubscribedByRole", ctx, billing.RoleMember).Return([]billing.User{user}, nil)
		d.enrollments.On("FindByUser", mock.Anything, user.ID).Return([]billing.Enrollment{
			{UserID: user.ID, StartYear: 2025, StartMonth: 1},
		}, nil)
		d.provider.On("GetSubscription", mock.Anything, "sub_1").Return(&billing.Subscription{
			ID:        "sub_1",
			CreatedAt: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		}, nil)
		d.provider.On("CancelSubscription", mock.Anything, "sub_1").Return(nil).Once()
		d.users.On("Save", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, svc.RenewalSweep(ctx))
		d.provider.AssertExpectations(t)
	})

	t.Run("one user's failure never blocks the others", func(t *testing.T) {
		now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
		svc, d := newService(t, fixedClock(now))

		broken := subscribedUser("sub_broken")
		healthy := subscribedUser("sub_ok")
		d.users.On("FindSubscribedByRole", ctx, billing.RoleMember).Return([]billing.User{broken, healthy}, nil)

		enrollment := billing.Enrollment{StartYear: 2025, StartMonth: 9}
		d.enrollments.On("FindByUser", mock.Anything, broken.ID).Return([]billing.Enrollment{enrollment}, nil)
		d.enrollments.On("FindByUser", mock.Anything, healthy.ID).Return([]billing.Enrollment{enrollment}, nil)

		d.provider.On("GetSubscription", mock.Anything, "sub_broken").Return(nil, errors.New("gateway timeout"))
		d.provider.On("GetSubscription", mock.Anything, "sub_ok").Return(&billing.Subscription{
			ID:        "sub_ok",
			CreatedAt: time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		}, nil)
		d.provider.On("CancelSubscription", mock.Anything, "sub_ok").Return(nil).Once()
		d.users.On("Save", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, svc.RenewalSweep(ctx))
		d.provider.AssertExpectations(t)
		d.provider.AssertNotCalled(t, "CancelSubscription", mock.Anything, "sub_broken")
	})

	t.Run("sends the renewal report after cancellation", func(t *testing.T) {
		sender := &recordingSender{}
		notifier := email.NewNotifier(sender)

		now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
		svc, d := newService(t, fixedClock(now), billing.WithNotifier(notifier))

		user := subscribedUser("sub_1")
		user.Name = "Jane"
		d.users.On("FindSubscribedByRole", ctx, billing.RoleMember).Return([]billing.User{user}, nil)
		d.enrollments.On("FindByUser", mock.Anything, user.ID).Return([]billing.Enrollment{
			{UserID: user.ID, StartYear: 2025, StartMonth: 9},
		}, nil)
		d.provider.On("GetSubscription", mock.Anything, "sub_1").Return(&billing.Subscription{
			ID:        "sub_1",
			CreatedAt: time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		}, nil)
		d.provider.On("CancelSubscription", mock.Anything, "sub_1").Return(nil)
		d.users.On("Save", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, svc.RenewalSweep(ctx))

		assert.Eventually(t, func() bool {
			sent := sender.Sent()
			return len(sent) == 1 && sent[0].SendTo == "member@example.com"
		}, time.Second, 10*time.Millisecond)
	})
}

type recordingSender struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
}

func (s *recordingSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, params)
	return nil
}

func (s *recordingSender) Sent() []email.SendEmailParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.SendEmailParams(nil), s.sent...)
}
