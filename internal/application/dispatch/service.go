package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Manemax937/HostelApp/internal/domain"
	"github.com/Manemax937/HostelApp/internal/infrastructure/fcm"
	"github.com/Manemax937/HostelApp/internal/pkg/id"
)

// FailurePolicy decides what a transport failure does to the caller: the
// single-user path fails fast, group fan-outs suppress per recipient so one
// stale token never blocks the rest.
type FailurePolicy int

const (
	FailFast FailurePolicy = iota
	Suppress
)

// Outcome classifies a single delivery attempt.
type Outcome int

const (
	// OutcomeDelivered means the transport accepted the message.
	OutcomeDelivered Outcome = iota
	// OutcomeSkipped means the recipient has no stored push token.
	OutcomeSkipped
	// OutcomeTokenCleared means the transport reported the token as
	// permanently unusable and it was removed from the user record.
	OutcomeTokenCleared
	// OutcomeFailed means any other transport error.
	OutcomeFailed
)

// Delivery is the settled result of one recipient's attempt.
type Delivery struct {
	UserID  string
	Outcome Outcome
	Err     error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	ListByResidenceAndRole(ctx context.Context, residenceName, role string, verifiedOnly bool) ([]domain.User, error)
	ClearFCMToken(ctx context.Context, userID string) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
}

// Service persists incoming notifications and fans them out to the resolved
// recipients.
type Service interface {
	// Ingest writes the notification record. It models the upstream store
	// write that the fan-out reacts to; records it creates become eligible
	// for the retention sweep.
	Ingest(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error)
	HandleNotificationCreated(ctx context.Context, n *domain.Notification) error
}

type service struct {
	users         userStore
	notifications notificationStore
	push          fcm.Sender
}

func NewService(users userStore, notifications notificationStore, push fcm.Sender) Service {
	return &service{users: users, notifications: notifications, push: push}
}

func (s *service) Ingest(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error) {
	n := &domain.Notification{
		NotificationID: id.New(),
		Title:          req.Title,
		Body:           req.Body,
		UserID:         req.UserID,
		ResidenceName:  req.ResidenceName,
		Type:           req.Type,
		// Second precision keeps the marshalled created_at fixed-width, so
		// the sweep's lexicographic comparison stays chronological.
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.notifications.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("store notification: %w", err)
	}
	return n, nil
}

// HandleNotificationCreated runs both targeting branches. They are
// independent: a notification naming a user and a residence sends to both.
// Only the user-targeted branch can fail the handler; residence fan-outs
// settle every attempt and surface failures in logs alone.
func (s *service) HandleNotificationCreated(ctx context.Context, n *domain.Notification) error {
	if n.UserID != "" {
		if err := s.sendToUser(ctx, n); err != nil {
			return err
		}
	}
	if n.ResidenceName != "" {
		if err := s.sendToResidence(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) sendToUser(ctx context.Context, n *domain.Notification) error {
	u, err := s.users.Get(ctx, n.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Info("notification target not found", "user_id", n.UserID)
			return nil
		}
		return err
	}
	d := s.deliver(ctx, u, n, map[string]string{"userId": u.UserID}, FailFast)
	if d.Outcome == OutcomeFailed {
		return fmt.Errorf("send to user %s: %w", u.UserID, d.Err)
	}
	return nil
}

func (s *service) sendToResidence(ctx context.Context, n *domain.Notification) error {
	role := domain.RoleOwner
	verifiedOnly := true
	if domain.BroadcastsToStudents(n.Type) {
		role = domain.RoleStudent
		verifiedOnly = false
	}

	recipients, err := s.users.ListByResidenceAndRole(ctx, n.ResidenceName, role, verifiedOnly)
	if err != nil {
		return fmt.Errorf("resolve %s recipients for %q: %w", role, n.ResidenceName, err)
	}
	if len(recipients) == 0 {
		slog.Info("no recipients for residence", "residence", n.ResidenceName, "role", role)
		return nil
	}

	extra := map[string]string{"residenceName": n.ResidenceName}
	results := s.fanOut(ctx, recipients, n, extra)

	var delivered, skipped, cleared, failed int
	for _, d := range results {
		switch d.Outcome {
		case OutcomeDelivered:
			delivered++
		case OutcomeSkipped:
			skipped++
		case OutcomeTokenCleared:
			cleared++
		case OutcomeFailed:
			failed++
		}
	}
	slog.Info("residence fan-out settled",
		"residence", n.ResidenceName, "role", role,
		"delivered", delivered, "skipped", skipped, "cleared", cleared, "failed", failed)
	return nil
}

// fanOut attempts delivery to every recipient concurrently and waits for all
// of them, collecting one settled Delivery per recipient. Individual failures
// never short-circuit the join.
func (s *service) fanOut(ctx context.Context, recipients []domain.User, n *domain.Notification, extra map[string]string) []Delivery {
	results := make([]Delivery, len(recipients))
	var wg sync.WaitGroup
	for i := range recipients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.deliver(ctx, &recipients[i], n, extra, Suppress)
		}(i)
	}
	wg.Wait()
	return results
}

// deliver builds the push envelope for one recipient and attempts the send.
// An unregistered token is absorbed after clearing it from the user record,
// whatever the policy.
func (s *service) deliver(ctx context.Context, u *domain.User, n *domain.Notification, extra map[string]string, policy FailurePolicy) Delivery {
	if u.FCMToken == "" {
		slog.Info("no push token for user", "user_id", u.UserID)
		return Delivery{UserID: u.UserID, Outcome: OutcomeSkipped}
	}

	notifType := n.Type
	if notifType == "" {
		notifType = domain.TypeGeneral
	}
	data := map[string]string{"type": notifType}
	for k, v := range extra {
		data[k] = v
	}

	err := s.push.Send(ctx, fcm.PushMessage{
		Token: u.FCMToken,
		Title: n.Title,
		Body:  n.Body,
		Data:  data,
	})
	if err == nil {
		return Delivery{UserID: u.UserID, Outcome: OutcomeDelivered}
	}

	if errors.Is(err, domain.ErrTokenNotRegistered) {
		if clearErr := s.users.ClearFCMToken(ctx, u.UserID); clearErr != nil {
			slog.Warn("failed to clear invalid token", "user_id", u.UserID, "err", clearErr)
		} else {
			slog.Info("removed invalid push token", "user_id", u.UserID)
		}
		return Delivery{UserID: u.UserID, Outcome: OutcomeTokenCleared}
	}

	if policy == Suppress {
		slog.Warn("push delivery failed", "user_id", u.UserID, "err", err)
	}
	return Delivery{UserID: u.UserID, Outcome: OutcomeFailed, Err: err}
}
