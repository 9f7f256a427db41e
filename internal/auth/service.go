package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/users"
	"github.com/2beens/fittrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 8
	// bcrypt refuses longer input
	MaxPasswordBytes = 72
)

var (
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrInvalidUsername  = fmt.Errorf("username must be %d to %d characters long", MinUsernameLength, MaxUsernameLength)
	ErrInvalidPassword  = fmt.Errorf("password must be at least %d characters and at most %d bytes long", MinPasswordLength, MaxPasswordBytes)
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if n := utf8.RuneCountInString(c.Username); n < MinUsernameLength || n > MaxUsernameLength {
		return ErrInvalidUsername
	}
	if utf8.RuneCountInString(c.Password) < MinPasswordLength || len(c.Password) > MaxPasswordBytes {
		return ErrInvalidPassword
	}
	return nil
}

type usersRepo interface {
	Add(ctx context.Context, username, passwordHash string) (*users.User, error)
	GetByUsername(ctx context.Context, username string) (*users.User, error)
}

type sessionStore interface {
	Login(ctx context.Context, userID int, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type Service struct {
	usersRepo usersRepo
	sessions  sessionStore
	// HashPasswordFunc can be replaced in tests, bcrypt with a high cost is slow
	HashPasswordFunc func(password string) (string, error)
}

func NewService(usersRepo usersRepo, sessions sessionStore) *Service {
	return &Service{
		usersRepo:        usersRepo,
		sessions:         sessions,
		HashPasswordFunc: pkg.HashPassword,
	}
}

func (s *Service) Register(ctx context.Context, creds Credentials) (_ *users.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.HashPasswordFunc(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.usersRepo.Add(ctx, creds.Username, hash)
	if err != nil {
		return nil, err
	}

	log.Debugf("new user registered: %s [%d]", user.Username, user.ID)
	return user, nil
}

// Authenticate checks the credentials and opens a new session, returning its token.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.authenticate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := s.usersRepo.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			log.Tracef("[username] failed login attempt for user: %s", creds.Username)
			return "", ErrWrongCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", creds.Username)
		return "", ErrWrongCredentials
	}

	token, err := s.sessions.Login(ctx, user.ID, time.Now())
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	return token, nil
}

func (s *Service) Logout(ctx context.Context, token string) (bool, error) {
	return s.sessions.Logout(ctx, token)
}
