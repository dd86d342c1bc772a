package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/myauth/auth-service/internal/auth/domain UserRepository
//go:generate mockgen -destination=../../mocks/mock_email_sender.go -package=mocks github.com/myauth/auth-service/internal/auth/domain EmailSender

// UserRepository is the persistent user store. Lookups return (nil, nil)
// when no user matches. Email lookups are case-insensitive.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUniqueFields(ctx context.Context, email, phone, idNumber string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

// EmailSender delivers a single HTML email. Failures are logged by callers,
// never treated as fatal.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// RevocationLedger tracks which refresh tokens are currently honored.
// Absence means revoked or never issued. Deactivating an absent token is a
// no-op. Implementations must be safe for concurrent use.
type RevocationLedger interface {
	Activate(ctx context.Context, token string, ttl time.Duration) error
	Deactivate(ctx context.Context, token string) error
	IsActive(ctx context.Context, token string) (bool, error)
}
