package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/Manemax937/HostelApp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockIssuer struct{ mock.Mock }

func (m *mockIssuer) Issue(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockIssuer) ConfirmCode(ctx context.Context, userID, code string) error {
	return m.Called(ctx, userID, code).Error(0)
}

func ownerReq() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		Email:         "a@x.com",
		FullName:      "A",
		Role:          domain.RoleOwner,
		ResidenceName: "R",
	}
}

func TestRegister_Owner_IssuesVerification(t *testing.T) {
	us := &mockUserStore{}
	is := &mockIssuer{}
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	is.On("Issue", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	svc := NewService(us, is)
	res, err := svc.Register(context.Background(), ownerReq())

	require.NoError(t, err)
	assert.True(t, res.VerificationIssued)
	assert.Empty(t, res.VerificationError)
	assert.NotEmpty(t, res.User.UserID)
	assert.Equal(t, domain.RoleOwner, res.User.Role)
	is.AssertExpectations(t)
}

func TestRegister_Student_SkipsVerification(t *testing.T) {
	us := &mockUserStore{}
	is := &mockIssuer{}
	us.On("Put", mock.Anything, mock.Anything).Return(nil)

	req := ownerReq()
	req.Role = domain.RoleStudent

	svc := NewService(us, is)
	res, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, res.VerificationIssued)
	is.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestRegister_IssuerFailure_ReportedNotRaised(t *testing.T) {
	us := &mockUserStore{}
	is := &mockIssuer{}
	us.On("Put", mock.Anything, mock.Anything).Return(nil)
	is.On("Issue", mock.Anything, mock.Anything).Return(errors.New("smtp unreachable"))

	svc := NewService(us, is)
	res, err := svc.Register(context.Background(), ownerReq())

	require.NoError(t, err)
	assert.False(t, res.VerificationIssued)
	assert.Contains(t, res.VerificationError, "smtp unreachable")
}

func TestRegister_StoreFailure_Propagates(t *testing.T) {
	us := &mockUserStore{}
	is := &mockIssuer{}
	us.On("Put", mock.Anything, mock.Anything).Return(errors.New("store down"))

	svc := NewService(us, is)
	_, err := svc.Register(context.Background(), ownerReq())

	require.Error(t, err)
	is.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}
