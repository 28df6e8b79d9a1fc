package auth

import (
	"net/mail"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a registered account. Password holds the bcrypt hash, never
// the plaintext. ResetCode and ResetCodeExpires are set only while a
// password reset is pending.
type User struct {
	ID               bson.ObjectID `bson:"_id,omitempty"`
	FirstName        string        `bson:"first_name"`
	LastName         string        `bson:"last_name"`
	Email            string        `bson:"email"`
	Phone            string        `bson:"phone"`
	Password         string        `bson:"password"`
	Role             string        `bson:"role"`
	IsActive         bool          `bson:"is_active"`
	ResetCode        *string       `bson:"reset_code,omitempty"`
	ResetCodeExpires *time.Time    `bson:"reset_code_expires,omitempty"`
	CreatedAt        time.Time     `bson:"created_at"`
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

// Validate checks required fields and password strength.
func (in RegisterInput) Validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return ErrFirstNameRequired
	}
	if strings.TrimSpace(in.LastName) == "" {
		return ErrLastNameRequired
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(in.Phone) == "" {
		return ErrPhoneRequired
	}
	return ValidatePassword(in.Password)
}

// LoginInput carries the login credentials.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordInput starts a password reset.
type ForgotPasswordInput struct {
	Email string `json:"email"`
}

// ResetPasswordInput completes a password reset.
type ResetPasswordInput struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public representation of an account.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

// ToResponse converts a stored user into its API representation.
func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}

const passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword enforces the account password policy: at least 8
// characters with an uppercase letter, a digit and a special character.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return ErrPasswordNoUppercase
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasSpecial:
		return ErrPasswordNoSpecial
	}
	return nil
}
