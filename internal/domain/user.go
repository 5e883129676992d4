package domain

import "time"

// User roles.
const (
	RoleStudent = "student"
	RoleOwner   = "owner"
)

type User struct {
	UserID        string `json:"id" dynamodbav:"user_id"`
	Email         string `json:"email" dynamodbav:"email"`
	FullName      string `json:"full_name" dynamodbav:"full_name"`
	Role          string `json:"role" dynamodbav:"role"`
	ResidenceName string `json:"residence_name,omitempty" dynamodbav:"residence_name"`

	// FCMToken is the opaque per-device push token. Empty means the user has
	// no push destination; it is assumed valid until a send reports otherwise.
	FCMToken string `json:"-" dynamodbav:"fcm_token"`

	IsVerified bool `json:"is_verified" dynamodbav:"is_verified"`

	// Verification ticket state for the owner email flow. Only the SHA-256
	// hash of the code is ever stored; the plaintext exists in the outbound
	// email alone.
	VerificationCodeHash   string     `json:"-" dynamodbav:"verification_code_hash"`
	VerificationExpiresAt  int64      `json:"-" dynamodbav:"verification_expires_at"` // Unix seconds
	VerificationSentAt     *time.Time `json:"-" dynamodbav:"verification_sent_at"`
	VerificationEmailSent  bool       `json:"-" dynamodbav:"verification_email_sent"`
	VerificationEmailError string     `json:"-" dynamodbav:"verification_email_error"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// CreateUserRequest is the user-created trigger payload.
type CreateUserRequest struct {
	Email         string `json:"email" validate:"required,email"`
	FullName      string `json:"full_name" validate:"required"`
	Role          string `json:"role" validate:"required,oneof=student owner"`
	ResidenceName string `json:"residence_name"`
	FCMToken      string `json:"fcm_token"`
}

// ConfirmCodeRequest carries the code an owner typed back in.
type ConfirmCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}
