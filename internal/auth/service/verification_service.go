package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/myauth/auth-service/internal/auth/domain"
	"github.com/myauth/auth-service/internal/auth/dto"
	"github.com/myauth/auth-service/internal/auth/mailer"
	autherror "github.com/myauth/auth-service/internal/errors"
	"github.com/myauth/auth-service/pkg/constant"
)

// VerificationService owns the account lifecycle flows that hinge on
// single-purpose tokens: registration with email verification, resending
// verification, and password reset.
type VerificationService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	hasher       PasswordHasher
	emailSender  domain.EmailSender
	clientURL    string
	logger       *slog.Logger
}

func NewVerificationService(repo domain.UserRepository, tokenService TokenGenerator, hasher PasswordHasher, emailSender domain.EmailSender, clientURL string, logger *slog.Logger) *VerificationService {
	return &VerificationService{
		repo:         repo,
		tokenService: tokenService,
		hasher:       hasher,
		emailSender:  emailSender,
		clientURL:    clientURL,
		logger:       logger,
	}
}

// Register creates an unverified user and dispatches a verification email.
// Email delivery is best-effort: a send failure is logged and registration
// still succeeds.
func (s *VerificationService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	if len(input.Password) < constant.MinPasswordLength {
		return nil, autherror.ErrPasswordTooShort
	}

	email := strings.ToLower(input.Email)

	existing, err := s.repo.GetByUniqueFields(ctx, email, input.Phone, input.IDNumber)
	if err != nil {
		return nil, fmt.Errorf("uniqueness check: %w", err)
	}
	if existing != nil {
		return nil, &autherror.ConflictError{Field: collidingField(existing, email, input.Phone)}
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	dob, err := time.Parse("2006-01-02", input.DOB)
	if err != nil {
		return nil, autherror.ErrInvalidDateOfBirth
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Gender:       input.Gender,
		DOB:          dob,
		Address:      input.Address,
		IDNumber:     input.IDNumber,
		Phone:        input.Phone,
		Email:        email,
		PasswordHash: hashedPassword,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.sendVerificationEmail(ctx, user)

	return user, nil
}

func collidingField(existing *domain.User, email, phone string) string {
	switch {
	case existing.Email == email:
		return "email"
	case existing.Phone == phone:
		return "phone"
	default:
		return "id number"
	}
}

func (s *VerificationService) sendVerificationEmail(ctx context.Context, user *domain.User) {
	token, err := s.tokenService.GenerateVerificationToken(user.ID)
	if err != nil {
		s.logger.Error("generate verification token", "user_id", user.ID, "error", err)
		return
	}

	body := mailer.VerificationEmail(user.FirstName, s.clientURL, token)
	if err := s.emailSender.Send(ctx, user.Email, mailer.VerificationSubject, body); err != nil {
		s.logger.Error("send verification email", "user_id", user.ID, "error", err)
	}
}

// VerifyEmail consumes a verification token. Verifying an already-verified
// account succeeds without touching state.
func (s *VerificationService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokenService.Decode(token, constant.TokenClassVerify)
	if err != nil {
		return autherror.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("verify lookup: %w", err)
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if user.IsVerified {
		return nil
	}

	user.IsVerified = true
	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	return nil
}

// ResendVerification issues a fresh verification token. The response is
// identical whether the email matches a user or not, so the endpoint does
// not leak account existence.
func (s *VerificationService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("resend lookup: %w", err)
	}
	if user == nil || user.IsVerified {
		return nil
	}

	s.sendVerificationEmail(ctx, user)

	return nil
}

// ForgotPassword issues a reset token by email. Like ResendVerification, it
// gives the same answer for unknown addresses.
func (s *VerificationService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("forgot lookup: %w", err)
	}
	if user == nil {
		return nil
	}

	token, err := s.tokenService.GenerateResetToken(user.ID)
	if err != nil {
		s.logger.Error("generate reset token", "user_id", user.ID, "error", err)
		return nil
	}

	body := mailer.PasswordResetEmail(s.clientURL, token)
	if err := s.emailSender.Send(ctx, user.Email, mailer.PasswordResetSubject, body); err != nil {
		s.logger.Error("send reset email", "user_id", user.ID, "error", err)
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the password hash.
func (s *VerificationService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < constant.MinPasswordLength {
		return autherror.ErrPasswordTooShort
	}

	claims, err := s.tokenService.Decode(token, constant.TokenClassReset)
	if err != nil {
		return autherror.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("reset lookup: %w", err)
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	hashedPassword, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hashedPassword
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("save password: %w", err)
	}

	return nil
}
