package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/myauth/auth-service/internal/auth/service TokenGenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	autherror "github.com/myauth/auth-service/internal/errors"
	"github.com/myauth/auth-service/pkg/constant"
)

// decodeLeeway absorbs clock skew between issuer and verifier.
const decodeLeeway = 30 * time.Second

type TokenGenerator interface {
	GeneratePair(userID, email string) (string, string, error)
	GenerateAccessToken(userID, email string) (string, error)
	GenerateVerificationToken(userID string) (string, error)
	GenerateResetToken(userID string) (string, error)
	Decode(tokenString, class string) (*JWTCustomClaims, error)
	RefreshTokenTTL() time.Duration
}

// TokenService signs and verifies all four token classes. Access and
// refresh tokens use distinct secrets so compromise of one cannot forge
// the other; verification and reset tokens share the access secret.
type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	VerifyTokenExpiry  time.Duration
	ResetTokenExpiry   time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	Email      string `json:"email,omitempty"`
	TokenClass string `json:"token_class"`
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes, verifyMinutes, resetMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
		VerifyTokenExpiry:  time.Duration(verifyMinutes) * time.Minute,
		ResetTokenExpiry:   time.Duration(resetMinutes) * time.Minute,
	}
}

func (ts *TokenService) secretFor(class string) ([]byte, error) {
	switch class {
	case constant.TokenClassRefresh:
		return []byte(ts.RefreshTokenSecret), nil
	case constant.TokenClassAccess, constant.TokenClassVerify, constant.TokenClassReset:
		return []byte(ts.AccessTokenSecret), nil
	}
	return nil, fmt.Errorf("unknown token class %q", class)
}

func (ts *TokenService) issue(userID, email, class string, ttl time.Duration) (string, error) {
	secret, err := ts.secretFor(class)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := JWTCustomClaims{
		UserID:     userID,
		Email:      email,
		TokenClass: class,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// GeneratePair mints the access+refresh token pair issued at login.
func (ts *TokenService) GeneratePair(userID, email string) (string, string, error) {
	accessToken, err := ts.issue(userID, email, constant.TokenClassAccess, ts.AccessTokenExpiry)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := ts.issue(userID, "", constant.TokenClassRefresh, ts.RefreshTokenExpiry)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (ts *TokenService) GenerateAccessToken(userID, email string) (string, error) {
	return ts.issue(userID, email, constant.TokenClassAccess, ts.AccessTokenExpiry)
}

func (ts *TokenService) GenerateVerificationToken(userID string) (string, error) {
	return ts.issue(userID, "", constant.TokenClassVerify, ts.VerifyTokenExpiry)
}

func (ts *TokenService) GenerateResetToken(userID string) (string, error) {
	return ts.issue(userID, "", constant.TokenClassReset, ts.ResetTokenExpiry)
}

// Decode parses and validates tokenString against the expected class.
// Every failure mode (expired, malformed, bad signature, wrong class)
// collapses into ErrInvalidToken so callers map it to a single
// authentication failure.
func (ts *TokenService) Decode(tokenString, class string) (*JWTCustomClaims, error) {
	secret, err := ts.secretFor(class)
	if err != nil {
		return nil, autherror.ErrInvalidToken
	}

	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithLeeway(decodeLeeway))

	if err != nil || !token.Valid {
		return nil, autherror.ErrInvalidToken
	}

	if claims.TokenClass != class {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

func (ts *TokenService) RefreshTokenTTL() time.Duration {
	return ts.RefreshTokenExpiry
}
