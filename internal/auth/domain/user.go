package domain

import "time"

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Gender       string
	DOB          time.Time
	Address      string
	IDNumber     string
	Phone        string
	Email        string
	PasswordHash string
	IsVerified   bool

	// Legacy reset bookkeeping. The reset flow uses signed tokens and only
	// clears these; nothing populates them anymore.
	PasswordResetToken   *string
	PasswordResetExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
