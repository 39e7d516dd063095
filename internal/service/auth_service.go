package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/crypto/bcrypt"

	"techradar-api/internal/model"
)

const tokenTypeBearer = "Bearer"

type AuthConfig struct {
	Secret     string
	Lifetime   time.Duration
	Issuer     string
	Audience   string
	Production bool
}

type AuthService struct {
	users      UserStore
	secret     []byte
	lifetime   time.Duration
	issuer     string
	audience   string
	production bool
	logger     *slog.Logger
	now        func() time.Time
	backoff    func() retry.Backoff
}

type tokenClaims struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func NewAuthService(users UserStore, cfg AuthConfig, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		users:      users,
		secret:     []byte(cfg.Secret),
		lifetime:   cfg.Lifetime,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		production: cfg.Production,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		backoff:    loginBackoff,
	}
}

// dummyHash is compared against when the username is unknown so that the
// response time does not reveal whether the account exists.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("techradar-timing-placeholder"), bcrypt.DefaultCost)
	return hash
})

func (s *AuthService) Login(ctx context.Context, username string, password string) (model.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.LoginResult{}, fmt.Errorf("%w: username and password are required", model.ErrInvalidInput)
	}

	user, err := withRetry(ctx, s.backoff(), func() (model.User, error) {
		return s.users.FindByUsername(ctx, username)
	})
	if errors.Is(err, model.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		s.logger.Info("login failed", "reason", "unknown user")
		return model.LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("load account: %w", err)
	}

	if err := s.checkPassword(user, password); err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			s.logger.Info("login failed", "reason", "password mismatch")
		}
		return model.LoginResult{}, err
	}

	if !user.IsActive {
		s.logger.Info("login failed", "reason", "account disabled", "user_id", user.ID)
		return model.LoginResult{}, model.ErrAccountDisabled
	}

	result, err := s.Issue(user)
	if err != nil {
		return model.LoginResult{}, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	s.logger.Info("login succeeded", "user_id", user.ID, "username", user.Username)
	return result, nil
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2") && len(stored) > 50
}

func (s *AuthService) checkPassword(user model.User, password string) error {
	if isBcryptHash(user.PasswordHash) {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return model.ErrInvalidCredentials
		}
		return nil
	}

	if s.production {
		s.logger.Error("stored password is not a bcrypt hash", "user_id", user.ID)
		return fmt.Errorf("account %d: stored password is not a bcrypt hash", user.ID)
	}

	if subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(password)) != 1 {
		return model.ErrInvalidCredentials
	}
	return nil
}

// Issue signs a credential for user. The role is normalised, so a missing
// or unknown stored role is issued as viewer.
func (s *AuthService) Issue(user model.User) (model.LoginResult, error) {
	now := s.now()
	expiresAt := now.Add(s.lifetime)

	jti, err := uuid.NewV7()
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("generate token id: %w", err)
	}

	role := model.ParseRole(user.Role)
	claims := tokenClaims{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti.String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	return model.LoginResult{
		Token:     signed,
		TokenType: tokenTypeBearer,
		ExpiresIn: int64(s.lifetime.Seconds()),
		ExpiresAt: expiresAt,
		User: model.AuthUser{
			ID:          user.ID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Role:        role,
		},
	}, nil
}

// Verify checks signature, algorithm, issuer, audience and validity window
// of token and returns the identity it carries. It does no I/O.
func (s *AuthService) Verify(token string) (*model.AuthClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, model.ErrMissingToken
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		// Signature is checked before the time claims, so a tampered token
		// never reports as expired.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject", model.ErrInvalidToken)
	}

	out := &model.AuthClaims{
		UserID:      userID,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		Role:        model.ParseRole(claims.Role),
		TokenID:     claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}

// ValidateToken reports the identity behind already verified claims.
func (s *AuthService) ValidateToken(claims *model.AuthClaims) (model.TokenValidation, error) {
	if claims == nil {
		return model.TokenValidation{}, model.ErrUnauthenticated
	}

	return model.TokenValidation{
		Valid: true,
		User: model.AuthUser{
			ID:          claims.UserID,
			Username:    claims.Username,
			DisplayName: claims.DisplayName,
			Role:        claims.Role,
		},
	}, nil
}
