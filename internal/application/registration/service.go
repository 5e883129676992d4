package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/Manemax937/HostelApp/internal/application/verification"
	"github.com/Manemax937/HostelApp/internal/domain"
	"github.com/Manemax937/HostelApp/internal/pkg/id"
)

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
}

// Result is the structured outcome of a user-created trigger. A failed
// verification email leaves the registration intact; the failure is reported
// here instead of escaping the handler boundary.
type Result struct {
	User               *domain.User
	VerificationIssued bool
	VerificationError  string
}

// Service persists newly registered users and, for owners, issues the
// one-time verification code. The issuer fires on creation only, never on
// update, so one record receives at most one ticket through this path.
type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*Result, error)
}

type service struct {
	users  userStore
	issuer verification.Service
}

func NewService(users userStore, issuer verification.Service) Service {
	return &service{users: users, issuer: issuer}
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*Result, error) {
	now := time.Now().UTC()
	u := &domain.User{
		UserID:        id.New(),
		Email:         req.Email,
		FullName:      req.FullName,
		Role:          req.Role,
		ResidenceName: req.ResidenceName,
		FCMToken:      req.FCMToken,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}

	res := &Result{User: u}
	if u.Role != domain.RoleOwner {
		return res, nil
	}
	if err := s.issuer.Issue(ctx, u); err != nil {
		res.VerificationError = err.Error()
		return res, nil
	}
	res.VerificationIssued = true
	return res, nil
}
