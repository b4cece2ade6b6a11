package service

import (
	"clinigoal/backend/internal/mail"
	"clinigoal/backend/internal/repository"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountNotFound = errors.New("no account found for this email")
	ErrInvalidOTP      = errors.New("invalid verification code")
	ErrExpiredOTP      = errors.New("verification code has expired")
)

// OTPValidity is how long a reset code stays usable after it is issued.
const OTPValidity = 10 * time.Minute

// PasswordResetService drives the forgot-password flow for both learners
// and admins: a one-time code is mailed out, verified, and then consumed
// when the new password is set.
type PasswordResetService interface {
	SendOTP(ctx context.Context, email string, kind IdentityKind) error
	VerifyOTP(ctx context.Context, email, code string, kind IdentityKind) error
	ResetPassword(ctx context.Context, email, code, newPassword string, kind IdentityKind) error
}

type passwordResetService struct {
	userRepo  repository.UserRepository
	adminRepo repository.AdminRepository
	mailer    mail.Mailer
}

func NewPasswordResetService(userRepo repository.UserRepository, adminRepo repository.AdminRepository, mailer mail.Mailer) PasswordResetService {
	return &passwordResetService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		mailer:    mailer,
	}
}

// credential is the slice of an account record the reset flow cares about.
type credential struct {
	Email        string
	OTP          string
	OTPExpiresAt *time.Time
}

func (s *passwordResetService) lookup(ctx context.Context, email string, kind IdentityKind) (*credential, error) {
	switch kind {
	case IdentityAdmin:
		admin, err := s.adminRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &credential{Email: admin.Email, OTP: admin.OTP, OTPExpiresAt: admin.OTPExpiresAt}, nil
	default:
		user, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &credential{Email: user.Email, OTP: user.OTP, OTPExpiresAt: user.OTPExpiresAt}, nil
	}
}

// SendOTP generates a fresh six digit code, stores it on the account and
// emails it. Re-requesting replaces any previous code.
func (s *passwordResetService) SendOTP(ctx context.Context, email string, kind IdentityKind) error {
	if email == "" {
		return errors.New("email cannot be empty")
	}

	if _, err := s.lookup(ctx, email, kind); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generating verification code: %w", err)
	}
	expiresAt := time.Now().Add(OTPValidity)

	switch kind {
	case IdentityAdmin:
		err = s.adminRepo.SetOTP(ctx, email, code, expiresAt)
	default:
		err = s.userRepo.SetOTP(ctx, email, code, expiresAt)
	}
	if err != nil {
		return err
	}

	subject := "Your Clinigoal password reset code"
	body := mail.OTPEmailBody(code, int(OTPValidity.Minutes()))
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to send OTP email")
		return fmt.Errorf("sending verification email: %w", err)
	}
	return nil
}

// VerifyOTP checks a submitted code without consuming it. The frontend
// calls this before showing the new-password form.
func (s *passwordResetService) VerifyOTP(ctx context.Context, email, code string, kind IdentityKind) error {
	cred, err := s.lookup(ctx, email, kind)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	return checkOTP(cred, code)
}

// ResetPassword re-verifies the code and swaps in the new password hash.
// The stored code is cleared so it cannot be replayed.
func (s *passwordResetService) ResetPassword(ctx context.Context, email, code, newPassword string, kind IdentityKind) error {
	if newPassword == "" {
		return errors.New("new password cannot be empty")
	}

	cred, err := s.lookup(ctx, email, kind)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if err := checkOTP(cred, code); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}

	switch kind {
	case IdentityAdmin:
		return s.adminRepo.ResetPassword(ctx, email, string(hashed))
	default:
		return s.userRepo.ResetPassword(ctx, email, string(hashed))
	}
}

func checkOTP(cred *credential, code string) error {
	if cred.OTP == "" || code == "" || cred.OTP != code {
		return ErrInvalidOTP
	}
	if cred.OTPExpiresAt == nil || time.Now().After(*cred.OTPExpiresAt) {
		return ErrExpiredOTP
	}
	return nil
}

func generateOTP() (string, error) {
	const digits = "0123456789"
	// Bytes 250..255 are rejected so each digit is equally likely.
	const limit = 250
	code := make([]byte, 0, 6)
	buf := make([]byte, 1)
	for len(code) < cap(code) {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		if buf[0] >= limit {
			continue
		}
		code = append(code, digits[int(buf[0])%len(digits)])
	}
	return string(code), nil
}
