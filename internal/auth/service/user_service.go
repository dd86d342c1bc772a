package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/myauth/auth-service/internal/auth/domain"
	"github.com/myauth/auth-service/internal/auth/dto"
	autherror "github.com/myauth/auth-service/internal/errors"
	"github.com/myauth/auth-service/pkg/constant"
)

// UserService is the session authority: it owns login, refresh and logout,
// and with them every transition of a refresh token between issued, active
// and revoked.
type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	ledger       domain.RevocationLedger
	hasher       PasswordHasher
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, ledger domain.RevocationLedger, hasher PasswordHasher) *UserService {
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		ledger:       ledger,
		hasher:       hasher,
	}
}

// Login verifies credentials and mints an access+refresh token pair. The
// refresh token is activated in the ledger before tokens are returned, so a
// successful login always leaves a revocable session and a failed one leaves
// no ledger entry.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}
	if user == nil {
		return nil, autherror.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, autherror.ErrAccountNotVerified
	}

	if s.hasher.Compare(user.PasswordHash, input.Password) != nil {
		return nil, autherror.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokenService.GeneratePair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token pair: %w", err)
	}

	if err := s.ledger.Activate(ctx, refreshToken, s.tokenService.RefreshTokenTTL()); err != nil {
		return nil, fmt.Errorf("activate refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserSummary{
			Email:     user.Email,
			FirstName: user.FirstName,
		},
	}, nil
}

// Refresh mints a new access token for the subject of an active refresh
// token. The refresh token itself is not rotated; it stays in the ledger
// until logout or expiry.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	active, err := s.ledger.IsActive(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("check refresh token: %w", err)
	}
	if !active {
		return "", autherror.ErrRefreshTokenRevoked
	}

	claims, err := s.tokenService.Decode(refreshToken, constant.TokenClassRefresh)
	if err != nil {
		return "", autherror.ErrInvalidToken
	}

	accessToken, err := s.tokenService.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout revokes the refresh token. Deactivating an absent token is a
// no-op, so logout is idempotent.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.ledger.Deactivate(ctx, refreshToken); err != nil {
		return fmt.Errorf("deactivate refresh token: %w", err)
	}
	return nil
}
