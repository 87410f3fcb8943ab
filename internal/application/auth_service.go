package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	repo "github.com/Maniblazestarboy/api-linkado/internal/domain/repository"
	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
	"github.com/Maniblazestarboy/api-linkado/pkg/validation"
)

// dummyPassword is hashed once and compared against on unknown emails.
const dummyPassword = "linkado-placeholder-password"

var (
	loginFailures   = expvar.NewInt("login_failures")
	passwordChanges = expvar.NewInt("password_changes")
)

// PasswordHasher is a one-way salted hash with a constant-time comparator.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenCodec signs and verifies session tokens. Parse returns
// helpers.ErrTokenExpired or helpers.ErrTokenInvalid on failure.
type TokenCodec interface {
	Issue(userID, role string, issuedAt time.Time) (string, time.Time, error)
	Parse(token string) (*helpers.Claims, error)
}

// Session is the result of a successful login or password change.
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      entity.Profile `json:"user"`
}

// AuthService orchestrates login, session verification and password changes.
// It holds no per-request state and is safe for concurrent use.
type AuthService struct {
	Users  repo.UserRepository
	Hasher PasswordHasher
	Tokens TokenCodec
	Logger *logrus.Logger

	validate  *validator.Validate
	now       func() time.Time
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repo.UserRepository, hasher PasswordHasher, tokens TokenCodec, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Hasher:   hasher,
		Tokens:   tokens,
		Logger:   logger,
		validate: validation.New(),
		now:      time.Now,
	}
}

// WithClock replaces the time source, used for issuedAt and password stamps.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and issues a session token. An unknown email and a
// wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if !validation.IsEmail(email) {
		return nil, ErrInvalidEmailFormat
	}

	u, err := s.Users.FindByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.compareDummy(password)
			loginFailures.Add(1)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if !s.Hasher.Compare(u.PasswordHash, password) {
		loginFailures.Add(1)
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

// compareDummy runs one hash comparison so that an unknown email costs about
// as much as a wrong password.
func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.Hasher.Hash(dummyPassword)
		if err != nil {
			helpers.LogWarn(s.Logger, "dummy hash failed", err, nil)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		s.Hasher.Compare(s.dummyHash, password)
	}
}

// checkPassword applies the shared "pwd" rule: at least 8 characters and no
// more bytes than bcrypt reads.
func (s *AuthService) checkPassword(password string) error {
	err := s.validate.Var(password, "pwd")
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	if verrs[0].ActualTag() == "bcrypt_len" {
		return ErrPasswordTooLong
	}
	return ErrWeakPassword
}

func (s *AuthService) issue(u *entity.User) (*Session, error) {
	token, exp, err := s.Tokens.Issue(u.ID, string(u.Role), s.now())
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("sign token failed")
		}
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: u.Profile()}, nil
}

// Verify resolves the principal a token refers to. Every step fails closed:
// a missing token, a bad or expired token, a deleted user and a token minted
// before the latest password change are all rejected. The returned user is
// loaded fresh, so its role may differ from the role snapshot in the token.
func (s *AuthService) Verify(ctx context.Context, token string) (*entity.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.Tokens.Parse(token)
	if err != nil {
		if errors.Is(err, helpers.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	u, err := s.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	if u.PasswordChangedAfter(claims.IssuedAtTime()) {
		return nil, ErrPasswordChanged
	}
	return u.Sanitized(), nil
}

// Authorize allows the principal only if its role is one of permitted.
func Authorize(principal *entity.User, permitted []entity.Role) error {
	if principal == nil || !slices.Contains(permitted, principal.Role) {
		return ErrForbidden
	}
	return nil
}

// ChangePassword replaces the password of userID after checking the current
// one. Every token issued before the change stops verifying; the returned
// session carries a replacement token.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) (*Session, error) {
	if current == "" || next == "" {
		return nil, ErrMissingCredentials
	}
	if err := s.checkPassword(next); err != nil {
		return nil, err
	}
	if current == next {
		return nil, ErrPasswordUnchanged
	}

	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	// FindByID does not load the hash.
	withHash, err := s.Users.FindByEmail(ctx, u.Email, true)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if !s.Hasher.Compare(withHash.PasswordHash, current) {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	withHash.SetPassword(hash, s.now())
	if err := s.Users.Save(ctx, withHash); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	passwordChanges.Add(1)
	if s.Logger != nil {
		s.Logger.WithField("user_id", withHash.ID).Info("password changed")
	}
	return s.issue(withHash)
}

// NewUser is the input for CreateUser.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

// CreateUser registers a user. The role defaults to editor.
func (s *AuthService) CreateUser(ctx context.Context, in NewUser) (*entity.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}
	if !validation.IsEmail(email) {
		return nil, ErrInvalidEmailFormat
	}
	if s.validate.Var(name, "min=2") != nil {
		return nil, ErrInvalidName
	}
	if err := s.checkPassword(in.Password); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.DefaultRole
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Name: name, Email: email, Role: role}
	u.SetPassword(hash, s.now())
	if err := s.Users.Save(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u.Sanitized(), nil
}
