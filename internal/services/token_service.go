package services

import (
	"fmt"
	"time"

	"github.com/MananRajppout/newamplify/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. Each purpose carries its own TTL and a token issued for
// one purpose never verifies as another.
const (
	PurposeVerification = "email_verification"
	PurposeSession      = "session"
	PurposeReset        = "password_reset"
)

const (
	VerificationTokenTTL = 24 * time.Hour
	SessionTokenTTL      = 7 * 24 * time.Hour
	ResetTokenTTL        = time.Hour
)

// TokenService issues and verifies the signed, short-lived tokens used by
// the account lifecycle. Tokens are HS256-signed with a process-wide
// secret; all state needed to consume one is embedded in the token itself.
type TokenService interface {
	IssueVerificationToken(userID uuid.UUID) (string, error)
	IssueSessionToken(userID uuid.UUID, role string) (string, error)
	IssueResetToken(userID uuid.UUID) (string, error)

	VerifyVerificationToken(token string) (uuid.UUID, error)
	VerifySessionToken(token string) (*SessionClaims, error)
	VerifyResetToken(token string) (uuid.UUID, error)
}

// AccountClaims is the decoded payload of every account token. Purpose is
// validated against the flow consuming the token.
type AccountClaims struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// SessionClaims is the validated result of a session token.
type SessionClaims struct {
	UserID uuid.UUID
	Role   string
}

type tokenService struct {
	secret []byte
}

// NewTokenService creates a token service bound to the given signing
// secret. The secret must stay constant for the process lifetime.
func NewTokenService(secret string) TokenService {
	return &tokenService{secret: []byte(secret)}
}

func (s *tokenService) IssueVerificationToken(userID uuid.UUID) (string, error) {
	return s.issue(userID, "", PurposeVerification, VerificationTokenTTL)
}

func (s *tokenService) IssueSessionToken(userID uuid.UUID, role string) (string, error) {
	return s.issue(userID, role, PurposeSession, SessionTokenTTL)
}

func (s *tokenService) IssueResetToken(userID uuid.UUID) (string, error) {
	return s.issue(userID, "", PurposeReset, ResetTokenTTL)
}

func (s *tokenService) issue(userID uuid.UUID, role, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccountClaims{
		UserID:  userID.String(),
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "newamplify-auth",
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) VerifyVerificationToken(token string) (uuid.UUID, error) {
	claims, err := s.verify(token, PurposeVerification)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.userID()
}

func (s *tokenService) VerifySessionToken(token string) (*SessionClaims, error) {
	claims, err := s.verify(token, PurposeSession)
	if err != nil {
		return nil, err
	}
	userID, err := claims.userID()
	if err != nil {
		return nil, err
	}
	return &SessionClaims{UserID: userID, Role: claims.Role}, nil
}

func (s *tokenService) VerifyResetToken(token string) (uuid.UUID, error) {
	claims, err := s.verify(token, PurposeReset)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.userID()
}

// verify collapses every failure mode (malformed token, bad signature,
// expiry, purpose mismatch) into common.ErrInvalidToken so callers cannot
// tell them apart.
func (s *tokenService) verify(token, purpose string) (*AccountClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &AccountClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*AccountClaims)
	if !ok || !parsed.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Purpose != purpose {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func (c *AccountClaims) userID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, common.ErrInvalidToken
	}
	return id, nil
}
