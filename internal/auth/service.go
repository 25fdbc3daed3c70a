package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
)

const (
	// DefaultAdminUsername is the account created by EnsureAdmin
	DefaultAdminUsername = "admin"
	DefaultSessionTTL    = 7 * 24 * time.Hour
	DefaultBcryptCost    = 12
	MinPasswordLength    = 8
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrNoDefaultPassword  = errors.New("ADMIN_DEFAULT_PASSWORD environment variable is not set")
)

// Store is the persistence the service needs; *database.Repository satisfies it
type Store interface {
	GetAdminByUsername(ctx context.Context, username string) (*database.AdminUser, error)
	GetAdminByID(ctx context.Context, id string) (*database.AdminUser, error)
	CreateAdmin(ctx context.Context, u *database.AdminUser) error
	UpdateAdminPassword(ctx context.Context, id, passwordHash string) error
}

// Claims is the signed session payload
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service authenticates admins and issues session tokens
type Service struct {
	store  Store
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// NewService creates an auth service signing tokens with secret
func NewService(store Store, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   DefaultBcryptCost,
		now:    time.Now,
	}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost
func (s *Service) WithBcryptCost(cost int) *Service {
	s.cost = cost
	return s
}

// SessionTTL is how long issued tokens and cookies stay valid
func (s *Service) SessionTTL() time.Duration {
	return s.ttl
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks credentials and returns the admin with a fresh session token
func (s *Service) Login(ctx context.Context, username, password string) (*database.AdminUser, string, error) {
	user, err := s.store.GetAdminByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GenerateToken signs an HS256 session token for user
func (s *Service) GenerateToken(user *database.AdminUser) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// VerifyToken validates signature and expiry and returns the claims
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ChangePassword replaces the admin's password after checking the current one
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.store.GetAdminByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrIncorrectPassword
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdateAdminPassword(ctx, user.ID, hash)
}

// EnsureAdmin creates the default admin account unless it already exists.
// created reports whether a new account was written.
func (s *Service) EnsureAdmin(ctx context.Context, defaultPassword string) (user *database.AdminUser, created bool, err error) {
	existing, err := s.store.GetAdminByUsername(ctx, DefaultAdminUsername)
	if err == nil {
		slog.Info("Admin user already exists")
		return existing, false, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, false, err
	}

	if defaultPassword == "" {
		return nil, false, ErrNoDefaultPassword
	}

	hash, err := s.HashPassword(defaultPassword)
	if err != nil {
		return nil, false, err
	}
	user = database.NewAdminUser(DefaultAdminUsername, hash)
	if err := s.store.CreateAdmin(ctx, user); err != nil {
		return nil, false, err
	}

	slog.Info("Admin user created; change the password after first login", "username", user.Username)
	return user, true, nil
}
