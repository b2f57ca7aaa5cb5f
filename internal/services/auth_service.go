package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinereview-backend/internal/apperror"
	"cinereview-backend/internal/config"
	"cinereview-backend/internal/models"
	"cinereview-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	uniqueViolation   = "23505"
	tokenIssuer       = "cinereview"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	// Login checks the credentials and returns the user with a signed session token.
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	IssueToken(userID string) (string, error)
	// ParseToken validates a session token and returns the user id it carries.
	ParseToken(token string) (string, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

type authService struct {
	users  repository.UserRepository
	config config.AuthConfig
	logger *logrus.Logger
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, cfg config.AuthConfig, logger *logrus.Logger) AuthService {
	return &authService{
		users:  users,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return nil, apperror.NewValidation("name and email are required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperror.NewValidation(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperror.NewInternal("failed to check email", err)
	}
	if existing != nil {
		return nil, apperror.NewValidation("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperror.NewValidation("email already registered")
		}
		s.logger.WithError(err).Error("Failed to create user")
		return nil, apperror.NewInternal("failed to create user", err)
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperror.NewInternal("failed to load user", err)
	}
	if user == nil {
		return nil, "", apperror.NewNotFound("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperror.NewUnauthenticated("invalid password")
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) IssueToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.SessionTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", apperror.NewInternal("failed to sign session", err)
	}
	return token, nil
}

func (s *authService) ParseToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", apperror.Wrap(apperror.Unauthenticated, "invalid session", err)
	}
	if claims.Subject == "" {
		return "", apperror.NewUnauthenticated("invalid session")
	}
	return claims.Subject, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, apperror.NewUnauthenticated("authentication required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal("failed to load user", err)
	}
	if user == nil {
		return nil, apperror.NewUnauthenticated("session user no longer exists")
	}
	return user, nil
}
