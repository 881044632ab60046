package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	db "psetu-backend/database"
	"psetu-backend/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the most bcrypt will hash.
const maxPasswordBytes = 72

type AuthService struct {
	users     UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
	hashCost  int
	logger    logrus.FieldLogger
}

func NewAuthService(users UserStore, jwtSecret string, tokenTTL time.Duration, logger logrus.FieldLogger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		hashCost:  bcrypt.DefaultCost,
		logger:    logger,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginResult struct {
	User  models.PublicUser
	Token string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := normalizeEmail(in.Email)
	if firstName == "" || lastName == "" || email == "" || in.Password == "" {
		return ErrMissingFields
	}
	if len(in.Password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrUserExists
	case !errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  string(hash),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	s.logger.WithField("user_id", user.ID.Hex()).Info("user registered")
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	result := &LoginResult{User: user.Public()}
	if len(s.jwtSecret) > 0 {
		token, err := s.generateJWT(user)
		if err != nil {
			return nil, fmt.Errorf("sign token: %w", err)
		}
		result.Token = token
	}
	return result, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.PublicUser, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidID
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	public := user.Public()
	createdAt := user.CreatedAt
	public.CreatedAt = &createdAt
	return &public, nil
}

func (s *AuthService) generateJWT(user *models.User) (string, error) {
	ttl := s.tokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}
