package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	minPasswordLength    = 8
	minDisplayNameLength = 2
)

type AuthConfig struct {
	Secret        string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone"`
}

type LoginResponse struct {
	User   *domain.User      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

// ProfileUpdate holds the account fields a user may change. Empty fields
// are left as they are.
type ProfileUpdate struct {
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone"`
}

type tokenClaims struct {
	Role       string `json:"role,omitempty"`
	Type       string `json:"typ"`
	Generation int64  `json:"gen,omitempty"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenStore
	cfg    AuthConfig
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenStore, cfg AuthConfig) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}

	return &AuthService{users: users, tokens: tokens, cfg: cfg, now: time.Now}
}

// WithClock replaces the service clock, for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "invalid email")
	}
	if len(req.Password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "must be at least 8 characters")
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		return nil, domain.NewValidationError("displayName", "required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("could not hash password", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Phone:        req.Phone,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).WithField("user_id", user.ID).Info("User registered")

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	invalid := domain.ErrUnauthorized.WithMsg("invalid email or password")

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if domain.IsNotFound(err) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	if !user.IsActive {
		return nil, domain.ErrUnauthorized.WithMsg("account is disabled")
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{User: user, Tokens: pair}, nil
}

// Refresh rotates a refresh token: the old one is revoked and a new pair
// is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.parse(refreshToken, s.cfg.RefreshSecret, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrUnauthorized.WithMsg("refresh token revoked")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if domain.IsNotFound(err) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized.WithMsg("account is disabled")
	}

	gen, err := s.tokens.Generation(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if claims.Generation < gen {
		return nil, domain.ErrUnauthorized.WithMsg("session has ended")
	}

	if err := s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}

	return s.issue(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken, s.cfg.RefreshSecret, tokenTypeRefresh)
	if err != nil {
		return err
	}

	return s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// LogoutAll ends every refresh session of the user. Access tokens already
// handed out stay valid until they expire.
func (s *AuthService) LogoutAll(ctx context.Context, sub domain.Subject) error {
	if err := s.tokens.BumpGeneration(ctx, sub.ID); err != nil {
		return err
	}

	logging.FromContext(ctx).WithField("user_id", sub.ID).Info("All sessions ended")

	return nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, sub domain.Subject, upd ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(upd.DisplayName); name != "" {
		if len([]rune(name)) < minDisplayNameLength {
			return nil, domain.NewValidationError("displayName", "must be at least 2 characters")
		}
		user.DisplayName = name
	}
	if phone := strings.TrimSpace(upd.Phone); phone != "" {
		user.Phone = phone
	}

	return s.users.UpdateProfile(ctx, user.ID, user.DisplayName, user.Phone, s.now())
}

// ChangePassword also ends every refresh session, including the caller's.
func (s *AuthService) ChangePassword(ctx context.Context, sub domain.Subject, current, next string) error {
	user, err := s.users.GetByID(ctx, sub.ID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return domain.ErrUnauthorized.WithMsg("current password is incorrect")
	}
	if current == next {
		return domain.NewValidationError("newPassword", "must differ from the current password")
	}

	return s.setPassword(ctx, user.ID, next)
}

// ForgotPassword stores a single-use reset token for the account. It returns
// an empty token and no error for an unknown or disabled account, so callers
// cannot tell which emails are registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if domain.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", nil
	}

	token := shortuuid.New()
	if err := s.tokens.SaveResetToken(ctx, token, user.ID, s.cfg.ResetTTL); err != nil {
		return "", err
	}

	logging.FromContext(ctx).WithField("user_id", user.ID).Info("Password reset requested")

	return token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < minPasswordLength {
		return domain.NewValidationError("password", "must be at least 8 characters")
	}

	userID, err := s.tokens.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}
	if userID == uuid.Nil {
		return domain.NewValidationError("token", "invalid or expired reset token")
	}

	return s.setPassword(ctx, userID, password)
}

func (s *AuthService) setPassword(ctx context.Context, userID uuid.UUID, password string) error {
	if len(password) < minPasswordLength {
		return domain.NewValidationError("newPassword", "must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.NewInternalError("could not hash password", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash), s.now()); err != nil {
		return err
	}
	if err := s.tokens.BumpGeneration(ctx, userID); err != nil {
		return err
	}

	logging.FromContext(ctx).WithField("user_id", userID).Info("Password changed")

	return nil
}

// Authenticate turns a bearer access token into the calling subject.
func (s *AuthService) Authenticate(accessToken string) (domain.Subject, error) {
	claims, err := s.parse(accessToken, s.cfg.Secret, tokenTypeAccess)
	if err != nil {
		return domain.Subject{}, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Subject{}, domain.ErrUnauthorized
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Subject{}, domain.ErrUnauthorized
	}

	return domain.Subject{ID: id, Role: role}, nil
}

func (s *AuthService) Me(ctx context.Context, sub domain.Subject) (*domain.User, error) {
	return s.users.GetByID(ctx, sub.ID)
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	gen, err := s.tokens.Generation(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	accessExp := now.Add(s.cfg.AccessTTL)
	refreshExp := now.Add(s.cfg.RefreshTTL)

	access, err := s.sign(tokenClaims{
		Role: string(user.Role),
		Type: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}, s.cfg.Secret)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(tokenClaims{
		Type:       tokenTypeRefresh,
		Generation: gen,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
	}, s.cfg.RefreshSecret)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) sign(claims tokenClaims, secret string) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", domain.NewInternalError("could not sign token", err)
	}
	return token, nil
}

func (s *AuthService) parse(raw, secret, typ string) (*tokenClaims, error) {
	claims := &tokenClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, domain.ErrUnauthorized.WithMsg("token expired")
	}
	if err != nil {
		return nil, domain.ErrUnauthorized.WithMsg("invalid token")
	}

	if claims.Type != typ || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, domain.ErrUnauthorized.WithMsg("invalid token")
	}
	if typ == tokenTypeRefresh && claims.ID == "" {
		return nil, domain.ErrUnauthorized.WithMsg("invalid token")
	}

	return claims, nil
}
