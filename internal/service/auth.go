package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarochkin/keebshop/internal/events"
	"github.com/dmarochkin/keebshop/internal/hash"
	"github.com/dmarochkin/keebshop/internal/logging"
	"github.com/dmarochkin/keebshop/internal/models"
	"github.com/dmarochkin/keebshop/internal/repo"
	"github.com/dmarochkin/keebshop/internal/tokens"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	Events        events.Publisher
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: pwHash,
		FullName:     fullName,
		Role:         "user",
	}
	// No check-then-insert: the unique index on email decides, so two
	// concurrent registers for the same address cannot both get through.
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if _, lookupErr := s.Repo.GetUserByEmail(ctx, email); lookupErr == nil {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, err
	}

	if s.Events != nil {
		l := logging.FromContext(ctx)
		event := map[string]any{"type": "user_registered", "user_id": user.ID}
		if err := s.Events.Publish(ctx, events.TopicUserEvents, user.ID.String(), event); err != nil {
			l.Warn("event_publish_failed", "topic", events.TopicUserEvents, "error", err)
		}
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, user)
}

// Refresh rotates the pair: the presented refresh token is revoked and a
// fresh one stored, so a replayed token fails immediately.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	usable, err := s.Repo.RefreshTokenUsable(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !usable {
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.Repo.RevokeRefreshToken(ctx, claims.ID); err != nil {
		return nil, err
	}
	return s.issuePair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, claims.ID)
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*LoginResult, error) {
	accessExp := time.Now().Add(accessTTL)
	accessToken, err := tokens.NewAccessToken(s.JWTSecret, user.ID, user.Role, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	jti := tokens.NewJTI()
	refreshToken, err := tokens.NewRefreshToken(s.RefreshSecret, user.ID, jti, refreshExp)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.AddRefreshToken(ctx, jti, user.ID, refreshExp); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      user.Role == "admin",
	}, nil
}
