package domain

import "time"

// User is an identity record. The core reads users; it never mutates them
// outside of provisioning.
type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2 encoded
	Forename     string
	Surname      string
	Role         Role
	Status       AccountStatus
	CompanyID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Company is a tenant. Users, inventory and orders are scoped to one.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// LoginChallenge is the step-one authentication result: credentials were
// accepted and a one-time code has been dispatched out of band.
type LoginChallenge struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	CompanyID   string `json:"company_id"`
	RequiresOTP bool   `json:"requires_otp"` // always true
}

// Identity is the authenticated principal the gate hands to downstream
// operations. Downstream code trusts it for the remainder of the call.
type Identity struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CompanyID string `json:"company_id"`
}
