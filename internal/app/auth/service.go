package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type Service struct {
	users  interfaces.UserRepository
	secret []byte
	ttl    time.Duration
	lgr    logger.Logger
}

func NewService(users interfaces.UserRepository, secret string, ttl time.Duration, lgr logger.Logger) *Service {
	return &Service{users: users, secret: []byte(secret), ttl: ttl, lgr: lgr}
}

// Login checks credentials and issues a bearer token carrying the user's
// role. Unknown usernames and wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.Validationf("invalid credentials")
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, domain.Validationf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.Validationf("invalid credentials")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.lgr.Info("user_logged_in", fmt.Sprintf("User %s logged in", user.Username), "", map[string]any{
		"username": user.Username,
		"role":     string(user.Role),
	})
	return signed, user, nil
}

// VerifyToken parses and validates a bearer token and extracts the identity.
func (s *Service) VerifyToken(tokenString string) (*interfaces.Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrForbidden)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrForbidden)
	}

	userID, ok := mapClaims["user_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrForbidden)
	}
	username, _ := mapClaims["username"].(string)
	roleStr, _ := mapClaims["role"].(string)

	role := domain.Role(roleStr)
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", roleStr, domain.ErrForbidden)
	}

	return &interfaces.Claims{
		UserID:   int64(userID),
		Username: username,
		Role:     role,
	}, nil
}

func (s *Service) CreateUser(ctx context.Context, cmd interfaces.CreateUserCommand) (*domain.User, error) {
	if cmd.Username == "" {
		return nil, domain.Validationf("username is required")
	}
	if len(cmd.Password) < 6 {
		return nil, domain.Validationf("password must be at least 6 characters")
	}
	if !domain.ValidRole(cmd.Role) {
		return nil, domain.Validationf("unknown role %q", cmd.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     cmd.Username,
		PasswordHash: string(hash),
		Role:         cmd.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.lgr.Info("user_created", fmt.Sprintf("User %s created", user.Username), "", map[string]any{
		"username": user.Username,
		"role":     string(user.Role),
	})
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}
