package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/ratelimit"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

const minPasswordLen = 6

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AdminEmails   []string
	Limiter       ratelimit.Limiter
	Events        events.Publisher
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}
	if len(password) > hash.MaxPasswordBytes {
		return nil, fmt.Errorf("password must be at most %d bytes: %w", hash.MaxPasswordBytes, ErrValidation)
	}

	if _, err := s.Repo.UserByLogin(ctx, username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.Repo.UserByLogin(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	role := models.RoleUser
	if slices.Contains(s.AdminEmails, email) {
		role = models.RoleAdmin
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user already exists: %w", ErrConflict)
		}
		return nil, err
	}

	s.publish(ctx, events.UserEvent{Type: events.UserRegistered, UserID: user.ID, Username: user.Username, At: time.Now().UTC()})
	l.Info("user registered", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, login, password string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "login", login)

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, fmt.Errorf("login and password are required: %w", ErrValidation)
	}

	if s.Limiter != nil {
		ok, err := s.Limiter.Allow(ctx, "login:"+strings.ToLower(login))
		if err != nil {
			l.Warn("rate limiter unavailable", "error", err)
		} else if !ok {
			return nil, ErrTooManyAttempts
		}
	}

	user, err := s.Repo.UserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	pair, refresh, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefresh(ctx, refresh); err != nil {
		return nil, err
	}

	s.publish(ctx, events.UserEvent{Type: events.UserLoggedIn, UserID: user.ID, Username: user.Username, At: time.Now().UTC()})
	return pair, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	}

	user, err := s.userFromSubject(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	pair, next, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefresh(ctx, claims.ID, tokens.Sha256Hex(refreshToken), next); err != nil {
		if errors.Is(err, repo.ErrRefreshUnusable) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("refresh token expired or revoked: %w", ErrUnauthorized)
		}
		return nil, err
	}
	return pair, nil
}

// Logout revokes the refresh token when it is still parseable.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil
	}
	return s.Repo.RevokeRefresh(ctx, claims.ID)
}

func (s *AuthService) userFromSubject(ctx context.Context, sub string) (*models.User, error) {
	id, err := tokens.SubjectID(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", ErrUnauthorized)
	}
	user, err := s.Repo.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*tokens.Pair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	access, err := tokens.SignAccess(user.ID, user.Role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, nil, err
	}
	jti := uuid.NewString()
	refresh, err := tokens.SignRefresh(user.ID, jti, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, err
	}

	return &tokens.Pair{
			AccessToken:  access,
			RefreshToken: refresh,
			AccessExp:    accessExp,
			RefreshExp:   refreshExp,
			Role:         user.Role,
		}, &models.RefreshToken{
			Token:     tokens.Sha256Hex(refresh),
			JTI:       jti,
			UserID:    user.ID,
			ExpiresAt: refreshExp.Unix(),
		}, nil
}

func (s *AuthService) publish(ctx context.Context, ev events.UserEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.TopicUser, events.Key(ev.UserID), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_error", "topic", events.TopicUser, "type", ev.Type, "error", err)
	}
}
