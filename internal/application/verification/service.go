package verification

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/Manemax937/HostelApp/internal/domain"
	"github.com/Manemax937/HostelApp/internal/infrastructure/smtp"
)

const (
	codeTTL      = 24 * time.Hour
	emailSubject = "Your Comfort PG verification code"
)

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// Service issues and confirms one-time verification codes for owner accounts.
type Service interface {
	// Issue generates a fresh code for a newly registered owner, persists its
	// hash and expiry, and emails the plaintext. The plaintext code never
	// reaches the store or the logs.
	Issue(ctx context.Context, u *domain.User) error
	// ConfirmCode checks a typed-in code against the stored hash and marks
	// the owner verified on a match.
	ConfirmCode(ctx context.Context, userID, code string) error
}

type service struct {
	users  userStore
	mailer smtp.Mailer
	now    func() time.Time
}

func NewService(users userStore, mailer smtp.Mailer) Service {
	return &service{users: users, mailer: mailer, now: time.Now}
}

func (s *service) Issue(ctx context.Context, u *domain.User) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	now := s.now().UTC()
	// Hash and expiry are written before the send attempt so a crashed email
	// transport never leaves a sent code that cannot be confirmed.
	err = s.users.Update(ctx, u.UserID, map[string]interface{}{
		"verification_code_hash":  hashCode(code),
		"verification_expires_at": now.Add(codeTTL).Unix(),
		"verification_sent_at":    now.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("store verification ticket for %s: %w", u.UserID, err)
	}

	if err := s.mailer.SendEmail(u.Email, emailSubject, emailBody(u, code)); err != nil {
		slog.Warn("verification email failed", "user_id", u.UserID, "err", err)
		if updErr := s.users.Update(ctx, u.UserID, map[string]interface{}{
			"verification_email_sent":  false,
			"verification_email_error": err.Error(),
		}); updErr != nil {
			slog.Warn("failed to record email error", "user_id", u.UserID, "err", updErr)
		}
		return fmt.Errorf("send verification email: %w", err)
	}

	slog.Info("verification email sent", "user_id", u.UserID)
	return s.users.Update(ctx, u.UserID, map[string]interface{}{
		"verification_email_sent":  true,
		"verification_email_error": "",
	})
}

func (s *service) ConfirmCode(ctx context.Context, userID, code string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u.VerificationCodeHash == "" {
		return fmt.Errorf("no pending verification: %w", domain.ErrBadRequest)
	}
	if hashCode(code) != u.VerificationCodeHash {
		return fmt.Errorf("invalid code: %w", domain.ErrUnauthorized)
	}
	if u.VerificationExpiresAt < s.now().Unix() {
		return fmt.Errorf("code expired: %w", domain.ErrUnauthorized)
	}
	return s.users.Update(ctx, userID, map[string]interface{}{
		"is_verified":             true,
		"verification_code_hash":  "",
		"verification_expires_at": int64(0),
	})
}

// generateCode returns a cryptographically random 6-digit code. The range
// starts at 100000 so the decimal form never collapses a leading zero.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func emailBody(u *domain.User, code string) string {
	residence := ""
	if u.ResidenceName != "" {
		residence = fmt.Sprintf("<p>Residence: <b>%s</b></p>", u.ResidenceName)
	}
	return fmt.Sprintf(`<html><body>
<h2>Welcome to Comfort PG, %s!</h2>
%s<p>Your verification code is:</p>
<h1 style="letter-spacing: 4px;">%s</h1>
<p>The code expires in 24 hours.</p>
</body></html>`, u.FullName, residence, code)
}
