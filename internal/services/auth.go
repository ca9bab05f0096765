package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yungbote/feedback360-backend/internal/data/repos"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/domain/auth"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/ctxutil"
	"github.com/yungbote/feedback360-backend/internal/platform/envutil"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultSessionTTL = 24 * time.Hour

// MinPasswordLength applies to admin password changes, not to seeded defaults.
const MinPasswordLength = 6

type AuthConfig struct {
	Secret     string
	SessionTTL time.Duration
	// Passwords seed the credential table on first start.
	Passwords map[types.Access]string
}

var defaultPasswords = map[types.Access]string{
	auth.AccessAdmin:   "admin123",
	auth.AccessSelf:    "self123",
	auth.AccessPeer:    "peer123",
	auth.AccessDirect:  "direct123",
	auth.AccessManager: "manager123",
}

func AuthConfigFromEnv() AuthConfig {
	passwords := make(map[types.Access]string, len(auth.AllAccess))
	for _, a := range auth.AllAccess {
		env := strings.ToUpper(string(a)) + "_PASSWORD"
		passwords[a] = envutil.String(env, defaultPasswords[a])
	}
	return AuthConfig{
		Secret:     envutil.String("JWT_SECRET_KEY", ""),
		SessionTTL: envutil.Duration("SESSION_TTL", DefaultSessionTTL),
		Passwords:  passwords,
	}
}

type AuthService interface {
	Login(ctx context.Context, access string, password string) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	ChangePassword(ctx context.Context, access types.Access, password string) error
	SeedCredentials(ctx context.Context) error
	GetSessionTTL() time.Duration
}

type authService struct {
	db             *gorm.DB
	log            *logger.Logger
	credentialRepo repos.RoleCredentialRepo
	jwtSecretKey   string
	sessionTTL     time.Duration
	passwords      map[types.Access]string
}

func NewAuthService(db *gorm.DB, log *logger.Logger, credentialRepo repos.RoleCredentialRepo, cfg AuthConfig) (AuthService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("JWT_SECRET_KEY is empty")
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &authService{
		db:             db,
		log:            log.With("service", "AuthService"),
		credentialRepo: credentialRepo,
		jwtSecretKey:   cfg.Secret,
		sessionTTL:     ttl,
		passwords:      cfg.Passwords,
	}, nil
}

type JWTClaims struct {
	Access string `json:"access"`
	jwt.RegisteredClaims
}

func (as *authService) GetSessionTTL() time.Duration { return as.sessionTTL }

func (as *authService) Login(ctx context.Context, access string, password string) (string, error) {
	a, err := auth.ParseAccess(access)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	cred, err := as.credentialRepo.Get(ctx, nil, a)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.ErrUnauthorized
		}
		return "", fmt.Errorf("load credential: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		as.log.Info("Login rejected", "access", a)
		return "", apperr.ErrUnauthorized
	}
	token, err := as.generateAccessToken(a)
	if err != nil {
		return "", err
	}
	as.log.Info("Login succeeded", "access", a)
	return token, nil
}

func (as *authService) generateAccessToken(a types.Access) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Access: string(a),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   string(a),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return ctx, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	a, err := auth.ParseAccess(claims.Access)
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	return ctxutil.WithSession(ctx, &ctxutil.Session{Access: string(a), SessionID: claims.ID}), nil
}

func (as *authService) ChangePassword(ctx context.Context, access types.Access, password string) error {
	if _, err := auth.ParseAccess(string(access)); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperr.ErrInvalidArgument, MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := as.credentialRepo.Upsert(ctx, nil, access, string(hash)); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	as.log.Info("Password changed", "access", access)
	return nil
}

// SeedCredentials inserts the configured password for every access kind that
// has no stored credential. Existing credentials are never overwritten.
func (as *authService) SeedCredentials(ctx context.Context) error {
	for _, a := range auth.AllAccess {
		pw := as.passwords[a]
		if pw == "" {
			pw = defaultPasswords[a]
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", a, err)
		}
		inserted, err := as.credentialRepo.Seed(ctx, nil, a, string(hash))
		if err != nil {
			return fmt.Errorf("seed credential %s: %w", a, err)
		}
		if inserted {
			as.log.Info("Seeded credential", "access", a)
		}
	}
	return nil
}

// SessionAccess returns the access carried by ctx, or "" when unauthenticated.
func SessionAccess(ctx context.Context) types.Access {
	s := ctxutil.GetSession(ctx)
	if s == nil {
		return ""
	}
	return types.Access(s.Access)
}
