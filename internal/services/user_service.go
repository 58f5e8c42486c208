package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MananRajppout/newamplify/internal/common"
	"github.com/MananRajppout/newamplify/internal/models"
	"github.com/MananRajppout/newamplify/internal/password"
	"github.com/MananRajppout/newamplify/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the platform has always hashed with.
// Changing it only affects new hashes; verification reads the cost from
// the stored hash.
const bcryptCost = 10

// RegisterRequest carries the self-registration payload.
type RegisterRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	CompanyName   string `json:"companyName"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	Status        string `json:"status"`
	TermsAccepted bool   `json:"termsAccepted"`
}

// UpdateUserRequest carries an admin profile edit. Credential fields are
// deliberately absent; password changes go through the password flows.
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	CompanyName *string `json:"companyName"`
	Role        *string `json:"role"`
	Status      *string `json:"status"`
}

// AccountService orchestrates the credential and token lifecycle:
// registration, login, email verification, password reset/change and the
// admin-facing user record operations.
type AccountService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, plaintext string) (*models.User, string, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type accountService struct {
	userRepo repositories.UserRepository
	tokenSvc TokenService
	emailSvc EmailService
}

// NewAccountService wires the account lifecycle over its collaborators.
// All dependencies are explicit; there is no package-level state.
func NewAccountService(userRepo repositories.UserRepository, tokenSvc TokenService, emailSvc EmailService) AccountService {
	return &accountService{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
		emailSvc: emailSvc,
	}
}

// Register creates the user record, then issues the 24h verification
// token and dispatches the verification email. The email is best-effort:
// by the time it is attempted the record is already committed, so a
// delivery failure is queued for retry rather than failing registration.
func (s *accountService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	taken, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrEmailTaken
	}

	if !password.Evaluate(req.Password).Satisfied() {
		return nil, common.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	user := &models.User{
		ID:                uuid.New(),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		CompanyName:       req.CompanyName,
		PasswordHash:      string(hash),
		Role:              req.Role,
		Status:            status,
		IsEmailVerified:   false,
		IsDeleted:         false,
		CreatedBy:         models.CreatedBySelf,
		TermsAccepted:     req.TermsAccepted,
		TermsAcceptedTime: time.Now(),
		Credits:           0,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokenSvc.IssueVerificationToken(user.ID)
	if err != nil {
		// The account exists either way. Log the gap; resolving it takes
		// operator action since there is no resend endpoint.
		log.Printf("ERROR: failed to issue verification token for %s: %v", user.Email, err)
		return user, nil
	}
	if err := s.emailSvc.DispatchVerificationEmail(ctx, user.Email, user.FirstName, token); err != nil {
		log.Printf("ERROR: failed to dispatch verification email to %s: %v", user.Email, err)
	}

	return user, nil
}

// Login gates in order: record exists, not soft-deleted, Active status,
// password verifies. An unknown email and a wrong password produce the
// same failure so responses cannot confirm which emails have accounts.
func (s *accountService) Login(ctx context.Context, email, plaintext string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if user.IsDeleted {
		return nil, "", common.ErrAccountDeleted
	}
	if user.Status != models.StatusActive {
		return nil, "", common.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)); err != nil {
		return nil, "", common.ErrInvalidCredentials
	}

	// The token is the sole session artifact; nothing is stored
	// server-side.
	token, err := s.tokenSvc.IssueSessionToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	return user, token, nil
}

// VerifyEmail consumes a verification token and flips the flag. Verifying
// an already-verified account succeeds without any further effect.
func (s *accountService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokenSvc.VerifyVerificationToken(token)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	return s.userRepo.SetEmailVerified(ctx, userID)
}

// ForgotPassword issues the 1h reset token and emails reset
// instructions. The user record is not mutated.
func (s *accountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user.IsDeleted {
		return common.ErrAccountDeleted
	}
	if user.Status != models.StatusActive {
		return common.ErrAccountInactive
	}

	token, err := s.tokenSvc.IssueResetToken(user.ID)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	if err := s.emailSvc.DispatchResetEmail(ctx, user.Email, user.FirstName, token); err != nil {
		log.Printf("ERROR: failed to dispatch reset email to %s: %v", user.Email, err)
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the stored hash.
// Tokens stay valid until natural expiry; there is no first-use
// invalidation.
func (s *accountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokenSvc.VerifyResetToken(token)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if !password.Evaluate(newPassword).Satisfied() {
		return common.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePasswordHash(ctx, userID, string(hash))
}

// ChangePassword requires the current plaintext password; a session
// token alone is not enough.
func (s *accountService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsDeleted {
		return common.ErrAccountDeleted
	}
	if user.Status != models.StatusActive {
		return common.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return common.ErrInvalidCredentials
	}

	if !password.Evaluate(newPassword).Satisfied() {
		return common.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePasswordHash(ctx, userID, string(hash))
}

func (s *accountService) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Update edits profile fields only. Credential, verification and billing
// state cannot be reached from here.
func (s *accountService) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.CompanyName != nil {
		user.CompanyName = *req.CompanyName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete marks the record deleted. The row is retained.
func (s *accountService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.userRepo.SoftDelete(ctx, id)
}
