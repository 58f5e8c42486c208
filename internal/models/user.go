package models

import (
	"time"

	"github.com/google/uuid"
)

// User account statuses. Only StatusActive permits login, password reset
// and password change.
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusSuspended = "Suspended"
)

// CreatedBySelf marks accounts created through self-registration.
const CreatedBySelf = "self"

type User struct {
	ID                uuid.UUID `json:"id" db:"id"`
	FirstName         string    `json:"first_name" db:"first_name"`
	LastName          string    `json:"last_name" db:"last_name"`
	Email             string    `json:"email" db:"email"`
	PhoneNumber       string    `json:"phone_number" db:"phone_number"`
	CompanyName       string    `json:"company_name" db:"company_name"`
	PasswordHash      string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Role              string    `json:"role" db:"role"`
	Status            string    `json:"status" db:"status"`
	IsEmailVerified   bool      `json:"is_email_verified" db:"is_email_verified"`
	IsDeleted         bool      `json:"is_deleted" db:"is_deleted"`
	CreatedBy         string    `json:"created_by" db:"created_by"`
	TermsAccepted     bool      `json:"terms_accepted" db:"terms_accepted"`
	TermsAcceptedTime time.Time `json:"terms_accepted_time" db:"terms_accepted_time"`
	Credits           int       `json:"credits" db:"credits"`
	StripeCustomerID  *string   `json:"stripe_customer_id" db:"stripe_customer_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
