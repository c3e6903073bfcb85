package service_identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviemingle/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInternal     = errors.New("internal error")
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

const (
	minPasswordLen = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLen = 72
)

// AuthError is a user facing rejection. Its message is shown as is.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func authError(msg string) error {
	return &AuthError{Message: msg}
}

const (
	MsgAlreadyRegistered  = "User already registered"
	MsgInvalidCredentials = "Invalid login credentials"
	MsgEmailNotConfirmed  = "Email not confirmed"
	MsgPasswordsMismatch  = "Passwords do not match"
	MsgInvalidEmail       = "Unable to validate email address: invalid format"
	MsgWeakPassword       = "Password should be at least 6 characters"
	MsgLongPassword       = "Password should be at most 72 characters"
	MsgInvalidConfirmLink = "Email link is invalid or has expired"
)

//go:generate mockery --name=UserRepository --output=./mocks/users --filename=users.go
type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	ByEmail(ctx context.Context, email string) (model.User, error)
	ByID(ctx context.Context, id uuid.UUID) (model.User, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID) error
}

// TokenStore maps opaque tokens to values. A missing key reads as "".
//
//go:generate mockery --name=TokenStore --output=./mocks/tokens --filename=tokens.go
type TokenStore interface {
	Set(key string, value string, ttl time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
}

type Service struct {
	users         UserRepository
	sessions      TokenStore
	confirmations TokenStore

	redirectURL     string
	sessionTTL      time.Duration
	confirmationTTL time.Duration

	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTTL(session, confirmation time.Duration) Option {
	return func(s *Service) {
		s.sessionTTL = session
		s.confirmationTTL = confirmation
	}
}

func New(
	users UserRepository,
	sessions TokenStore,
	confirmations TokenStore,
	redirectURL string,
	opts ...Option,
) *Service {
	s := &Service{
		users:           users,
		sessions:        sessions,
		confirmations:   confirmations,
		redirectURL:     strings.TrimRight(redirectURL, "/"),
		sessionTTL:      7 * 24 * time.Hour,
		confirmationTTL: 24 * time.Hour,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) RedirectURL() string {
	return s.redirectURL
}

// SignUp creates an unconfirmed account and issues a confirmation link.
// The link is written to the log in place of an email.
func (s *Service) SignUp(ctx context.Context, email, password string) (model.PendingConfirmation, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return model.PendingConfirmation{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.PendingConfirmation{}, errors.Join(ErrInternal, err)
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return model.PendingConfirmation{}, authError(MsgAlreadyRegistered)
		}
		return model.PendingConfirmation{}, errors.Join(ErrInternal, err)
	}

	token := genToken()
	if err := s.confirmations.Set(token, user.ID.String(), s.confirmationTTL); err != nil {
		return model.PendingConfirmation{}, errors.Join(ErrInternal, err)
	}

	s.logger.Info("confirmation link issued",
		slog.String("email", email),
		slog.String("link", s.confirmationLink(token)),
	)

	return model.PendingConfirmation{
		Email:       email,
		RedirectURL: s.redirectURL,
	}, nil
}

// Confirm consumes a confirmation token. A token works once.
func (s *Service) Confirm(ctx context.Context, token string) error {
	if token == "" {
		return authError(MsgInvalidConfirmLink)
	}

	raw, err := s.confirmations.Get(token)
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return authError(MsgInvalidConfirmLink)
	}

	if err := s.users.MarkConfirmed(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return authError(MsgInvalidConfirmLink)
		}
		return errors.Join(ErrInternal, err)
	}

	if err := s.confirmations.Delete(token); err != nil {
		s.logger.Warn("failed to drop confirmation token", slog.String("error", err.Error()))
	}
	return nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	user, err := s.users.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return model.Session{}, authError(MsgInvalidCredentials)
		}
		return model.Session{}, errors.Join(ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return model.Session{}, authError(MsgInvalidCredentials)
	}
	if !user.Confirmed {
		return model.Session{}, authError(MsgEmailNotConfirmed)
	}

	token := genToken()
	if err := s.sessions.Set(token, user.ID.String(), s.sessionTTL); err != nil {
		return model.Session{}, errors.Join(ErrInternal, err)
	}

	return model.Session{Token: token, User: user}, nil
}

// CurrentUser resolves a session token. Unknown or expired tokens yield a nil
// user and no error.
func (s *Service) CurrentUser(ctx context.Context, token model.SessionToken) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := s.sessions.Get(token)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	if raw == "" {
		return nil, nil
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("corrupted session", slog.String("error", err.Error()))
		return nil, nil
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, errors.Join(ErrInternal, err)
	}

	return &user, nil
}

func (s *Service) SignOut(_ context.Context, token model.SessionToken) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(token); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *Service) confirmationLink(token string) string {
	return fmt.Sprintf("%s/api/auth/confirm?token=%s", s.redirectURL, url.QueryEscape(token))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return authError(MsgInvalidEmail)
	}
	if len(password) < minPasswordLen {
		return authError(MsgWeakPassword)
	}
	if len(password) > maxPasswordLen {
		return authError(MsgLongPassword)
	}
	return nil
}

func genToken() string {
	return uuid.New().String()
}
