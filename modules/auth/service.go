package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventreport/backend/pkg/email"
	"github.com/eventreport/backend/pkg/jwt"
	"github.com/eventreport/backend/pkg/logger"
)

// Config holds the authentication settings.
type Config struct {
	JWTSigningKey string        `env:"JWT_SIGNING_KEY,required"`
	TokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
	ResetCodeTTL  time.Duration `env:"AUTH_RESET_CODE_TTL" envDefault:"10m"`
}

// Store is the persistence surface the service needs. *Repository is
// the production implementation.
type Store interface {
	Create(ctx context.Context, u User) (bson.ObjectID, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	SetResetCode(ctx context.Context, email, code string, expires time.Time) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// Service implements registration, login and password reset.
type Service struct {
	repo         Store
	jwt          *jwt.Service
	mailer       email.EmailSender
	log          *slog.Logger
	tokenTTL     time.Duration
	resetCodeTTL time.Duration
}

// NewService builds the auth service.
func NewService(cfg Config, repo Store, jwtSvc *jwt.Service, mailer email.EmailSender, log *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		jwt:          jwtSvc,
		mailer:       mailer,
		log:          log.With(logger.Component("auth")),
		tokenTTL:     cfg.TokenTTL,
		resetCodeTTL: cfg.ResetCodeTTL,
	}
}

// Register creates a new account and returns its id. The password is
// stored as a bcrypt hash; every new account gets the user role.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.repo.Create(ctx, User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  string(hash),
		Role:      "user",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}

	s.log.InfoContext(ctx, "user registered", logger.UserID(id.Hex()))
	return id.Hex(), nil
}

// Login verifies the credentials and issues a signed token with the
// account email as subject. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (TokenResponse, error) {
	u, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return TokenResponse{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)) != nil {
		return TokenResponse{}, ErrInvalidCredentials
	}

	now := time.Now()
	token, err := s.jwt.Generate(jwt.StandardClaims{
		Subject:   u.Email,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
	})
	if err != nil {
		return TokenResponse{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// UserByEmail loads the account behind a verified token subject.
func (s *Service) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// ForgotPassword stores a 6-digit reset code with a short expiry and
// emails it to the account.
func (s *Service) ForgotPassword(ctx context.Context, in ForgotPasswordInput) error {
	if _, err := s.repo.FindByEmail(ctx, in.Email); err != nil {
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}
	expires := time.Now().UTC().Add(s.resetCodeTTL)

	if err := s.repo.SetResetCode(ctx, in.Email, code, expires); err != nil {
		return err
	}

	body, err := renderResetCodeEmail(code)
	if err != nil {
		return err
	}
	if err := s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   in.Email,
		Subject:  resetCodeEmailSubject,
		BodyHTML: body,
		Tag:      "password-reset",
	}); err != nil {
		s.log.ErrorContext(ctx, "failed to send reset code email", logger.Error(err))
		return fmt.Errorf("failed to send reset code email: %w", err)
	}
	return nil
}

// ResetPassword completes a pending reset: the code must match and
// still be within its validity window. On success the new password is
// hashed and the pending code cleared.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := ValidatePassword(in.NewPassword); err != nil {
		return err
	}

	u, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if u.ResetCode == nil || *u.ResetCode != in.Code {
		return ErrInvalidResetCode
	}
	if u.ResetCodeExpires == nil || time.Now().UTC().After(*u.ResetCodeExpires) {
		return ErrResetCodeExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, in.Email, string(hash))
}

// generateResetCode returns a random 6-digit code as a string.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
