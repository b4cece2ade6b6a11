package service

import (
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("account with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// IdentityKind distinguishes token subjects; users and admins live in
// separate collections with separate credentials.
type IdentityKind string

const (
	IdentityUser  IdentityKind = "user"
	IdentityAdmin IdentityKind = "admin"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password, avatarURL string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	AdminLogin(ctx context.Context, email, password string) (token string, admin *domain.Admin, err error)
	// EnsureAdmin seeds the admin account, or refreshes its password hash if
	// it already exists. There is no admin-registration route; deployments
	// bootstrap the account from configuration at startup.
	EnsureAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error)
	GetJWTSecret() string
}

type authService struct {
	userRepo      repository.UserRepository
	adminRepo     repository.AdminRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, adminRepo repository.AdminRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		adminRepo:     adminRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new learner registration.
func (s *authService) Register(ctx context.Context, name, email, password, avatarURL string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.New("name, email and password cannot be empty")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		AvatarURL:    avatarURL,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique email index closes the race between the existence
		// check and the insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates a learner and returns a signed session token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user.ID.Hex(), IdentityUser)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// AdminLogin authenticates against the admin collection.
func (s *authService) AdminLogin(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(admin.ID.Hex(), IdentityAdmin)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	admin.PasswordHash = ""
	return token, admin, nil
}

// EnsureAdmin upserts the admin credentials.
func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error) {
	if email == "" || password == "" {
		return nil, errors.New("admin email and password cannot be empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err == nil {
		// Existing account: refresh the hash (also clears any stale OTP).
		if err := s.adminRepo.ResetPassword(ctx, email, string(hashed)); err != nil {
			return nil, err
		}
		admin.PasswordHash = ""
		return admin, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	admin = &domain.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	}
	id, err := s.adminRepo.Create(ctx, admin)
	if err != nil {
		return nil, err
	}
	admin.ID = id
	admin.PasswordHash = ""
	return admin, nil
}

// --- JWT Helper ---

// Claims is the JWT payload shared with the API middleware.
type Claims struct {
	SubjectID string       `json:"uid"`
	Kind      IdentityKind `json:"kind"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(subjectID string, kind IdentityKind) (string, error) {
	now := time.Now()
	claims := &Claims{
		SubjectID: subjectID,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "clinigoal",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication.
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
