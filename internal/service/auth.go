package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/whatwillyoucook/backend/internal/models"
	"github.com/whatwillyoucook/backend/internal/types"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidPayload     = errors.New("invalid token payload")
)

const (
	// bcryptCost is fixed; changing it silently would alter login latency
	// characteristics across deployments.
	bcryptCost = 12

	// TokenTTL is the fixed lifetime of issued tokens.
	TokenTTL = 24 * time.Hour
)

// dummyHash is a structurally valid bcrypt hash compared against when the
// email is unknown, so that lookup misses cost the same as a wrong password.
const dummyHash = "$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates a user with a bcrypt-hashed password. An email collision
// surfaces as ErrEmailTaken; callers are expected to collapse it into the
// same response as any other validation failure.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &user, nil
}

// Login verifies credentials and issues a token. When the email is unknown a
// dummy comparison still runs so the two failure paths take comparable time.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(&user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// IssueToken signs an HS256 token carrying the canonical identity claims.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    user.ID.String(),
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken verifies the signature and expiry, then normalizes the
// subject claim. Older tokens carried the id under "userId"; both spellings
// resolve here and nowhere else.
func (s *AuthService) ValidateToken(tokenString string) (*types.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	subject, _ := claims["id"].(string)
	if subject == "" {
		subject, _ = claims["userId"].(string)
	}
	if subject == "" {
		return nil, ErrInvalidPayload
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	identity := &types.Identity{ID: id}
	identity.Email, _ = claims["email"].(string)
	identity.Name, _ = claims["name"].(string)
	identity.Role, _ = claims["role"].(string)
	if identity.Role == "" {
		identity.Role = "user"
	}

	return identity, nil
}

// GetUserByEmail fetches a user record by email.
func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUser fetches a user record by id.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
