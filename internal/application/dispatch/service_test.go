package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/Manemax937/HostelApp/internal/domain"
	"github.com/Manemax937/HostelApp/internal/infrastructure/fcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) ListByResidenceAndRole(ctx context.Context, residenceName, role string, verifiedOnly bool) ([]domain.User, error) {
	args := m.Called(ctx, residenceName, role, verifiedOnly)
	if users, _ := args.Get(0).([]domain.User); users != nil {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) ClearFCMToken(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type mockPushSender struct{ mock.Mock }

func (m *mockPushSender) Send(ctx context.Context, msg fcm.PushMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// --- helpers ---

func student(id, residence, token string) domain.User {
	return domain.User{
		UserID:        id,
		Role:          domain.RoleStudent,
		ResidenceName: residence,
		FCMToken:      token,
	}
}

func owner(id, residence, token string, verified bool) domain.User {
	return domain.User{
		UserID:        id,
		Role:          domain.RoleOwner,
		ResidenceName: residence,
		FCMToken:      token,
		IsVerified:    verified,
	}
}

func tokenIs(token string) interface{} {
	return mock.MatchedBy(func(msg fcm.PushMessage) bool { return msg.Token == token })
}

// --- single-user path ---

func TestHandleNotification_UserWithoutToken_NoAttempt(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "Rent due", UserID: "u1",
	})

	require.NoError(t, err)
	ps.AssertNumberOfCalls(t, "Send", 0)
}

func TestHandleNotification_UserNotFound_IsSuccess(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	us.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "Rent due", UserID: "u1",
	})

	require.NoError(t, err)
	ps.AssertNumberOfCalls(t, "Send", 0)
}

func TestHandleNotification_UserSendFailure_Propagates(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	u := student("u1", "Sunrise PG", "tok1")
	us.On("Get", mock.Anything, "u1").Return(&u, nil)
	ps.On("Send", mock.Anything, tokenIs("tok1")).Return(errors.New("transport down"))

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "Rent due", UserID: "u1",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport down")
}

func TestHandleNotification_UserInvalidToken_ClearedAndAbsorbed(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	u := student("u1", "Sunrise PG", "stale")
	us.On("Get", mock.Anything, "u1").Return(&u, nil)
	ps.On("Send", mock.Anything, tokenIs("stale")).Return(domain.ErrTokenNotRegistered)
	us.On("ClearFCMToken", mock.Anything, "u1").Return(nil)

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "Rent due", UserID: "u1",
	})

	require.NoError(t, err)
	us.AssertCalled(t, "ClearFCMToken", mock.Anything, "u1")
}

func TestHandleNotification_TypeDefaultsToGeneral(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	u := student("u1", "Sunrise PG", "tok1")
	us.On("Get", mock.Anything, "u1").Return(&u, nil)
	ps.On("Send", mock.Anything, mock.MatchedBy(func(msg fcm.PushMessage) bool {
		return msg.Data["type"] == domain.TypeGeneral && msg.Data["userId"] == "u1"
	})).Return(nil)

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "Rent due", UserID: "u1",
	})

	require.NoError(t, err)
	ps.AssertExpectations(t)
}

// --- residence paths ---

func TestHandleNotification_NoticeBroadcast_OnlyTokenHoldersAttempted(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	us.On("ListByResidenceAndRole", mock.Anything, "Sunrise PG", domain.RoleStudent, false).
		Return([]domain.User{
			student("s1", "Sunrise PG", "tok1"),
			student("s2", "Sunrise PG", ""),
			student("s3", "Sunrise PG", "tok3"),
		}, nil)
	ps.On("Send", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "Water cut", Body: "9am-11am", ResidenceName: "Sunrise PG", Type: domain.TypeNotice,
	})

	require.NoError(t, err)
	ps.AssertNumberOfCalls(t, "Send", 2)
}

func TestHandleNotification_BroadcastFailures_AreSuppressed(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	us.On("ListByResidenceAndRole", mock.Anything, "Sunrise PG", domain.RoleStudent, false).
		Return([]domain.User{
			student("s1", "Sunrise PG", "tok1"),
			student("s2", "Sunrise PG", "tok2"),
		}, nil)
	ps.On("Send", mock.Anything, mock.Anything).Return(errors.New("transport down"))

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "Water cut", Body: "9am-11am", ResidenceName: "Sunrise PG", Type: domain.TypeNotice,
	})

	// Both attempts fail, the handler still reports success.
	require.NoError(t, err)
	ps.AssertNumberOfCalls(t, "Send", 2)
}

func TestHandleNotification_GeneralType_GoesToVerifiedOwners(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	us.On("ListByResidenceAndRole", mock.Anything, "Sunrise PG", domain.RoleOwner, true).
		Return([]domain.User{owner("o1", "Sunrise PG", "tok-o1", true)}, nil)
	ps.On("Send", mock.Anything, tokenIs("tok-o1")).Return(nil)

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "New booking", ResidenceName: "Sunrise PG",
	})

	require.NoError(t, err)
	us.AssertCalled(t, "ListByResidenceAndRole", mock.Anything, "Sunrise PG", domain.RoleOwner, true)
	ps.AssertNumberOfCalls(t, "Send", 1)
}

func TestHandleNotification_InvalidToken_ClearsOnlyThatRecipient(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	us.On("ListByResidenceAndRole", mock.Anything, "Sunrise PG", domain.RoleStudent, false).
		Return([]domain.User{
			student("s1", "Sunrise PG", "stale"),
			student("s2", "Sunrise PG", "tok2"),
		}, nil)
	ps.On("Send", mock.Anything, tokenIs("stale")).Return(domain.ErrTokenNotRegistered)
	ps.On("Send", mock.Anything, tokenIs("tok2")).Return(nil)
	us.On("ClearFCMToken", mock.Anything, "s1").Return(nil)

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "Water cut", ResidenceName: "Sunrise PG", Type: domain.TypeMachine,
	})

	require.NoError(t, err)
	us.AssertCalled(t, "ClearFCMToken", mock.Anything, "s1")
	us.AssertNotCalled(t, "ClearFCMToken", mock.Anything, "s2")
}

func TestHandleNotification_EmptyResidence_IsSuccess(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	us.On("ListByResidenceAndRole", mock.Anything, "Ghost PG", domain.RoleStudent, false).
		Return([]domain.User{}, nil)

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "Water cut", ResidenceName: "Ghost PG", Type: domain.TypeNotice,
	})

	require.NoError(t, err)
	ps.AssertNumberOfCalls(t, "Send", 0)
}

func TestHandleNotification_ResolverFailure_Propagates(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	us.On("ListByResidenceAndRole", mock.Anything, "Sunrise PG", domain.RoleOwner, true).
		Return(nil, errors.New("store down"))

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "New booking", ResidenceName: "Sunrise PG",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store down")
}

func TestHandleNotification_BothBranchesFire(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPushSender{}
	u := student("u1", "Other PG", "tok-u1")
	us.On("Get", mock.Anything, "u1").Return(&u, nil)
	us.On("ListByResidenceAndRole", mock.Anything, "Sunrise PG", domain.RoleStudent, false).
		Return([]domain.User{student("s1", "Sunrise PG", "tok-s1")}, nil)
	ps.On("Send", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(us, nil, ps)
	err := svc.HandleNotificationCreated(context.Background(), &domain.Notification{
		Title: "Update", UserID: "u1", ResidenceName: "Sunrise PG", Type: domain.TypeNotice,
	})

	require.NoError(t, err)
	ps.AssertNumberOfCalls(t, "Send", 2)
}

// --- ingest ---

func TestIngest_AssignsIDAndCreationTime(t *testing.T) {
	ns := &mockNotificationStore{}
	ns.On("Put", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)

	svc := NewService(nil, ns, nil)
	n, err := svc.Ingest(context.Background(), domain.CreateNotificationRequest{
		Title: "Water cut", Body: "9am-11am", ResidenceName: "Sunrise PG", Type: domain.TypeNotice,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, n.NotificationID)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Equal(t, "Water cut", n.Title)
	ns.AssertExpectations(t)
}

func TestIngest_StoreFailure_Propagates(t *testing.T) {
	ns := &mockNotificationStore{}
	ns.On("Put", mock.Anything, mock.Anything).Return(errors.New("store down"))

	svc := NewService(nil, ns, nil)
	_, err := svc.Ingest(context.Background(), domain.CreateNotificationRequest{Title: "x"})

	require.Error(t, err)
}
