package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/validation"
)

// BcryptCost is the work factor used when hashing passwords.
const BcryptCost = 12

// AuthService handles account registration and session tokens.
// Tokens are fernet tokens whose payload is the user id; they expire after the
// configured TTL.
type AuthService struct {
	userRepo *repository.UserRepository
	key      *fernet.Key
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a new AuthService. secret is a base64 fernet key; when it
// is empty a random key is generated and tokens do not survive a restart.
func NewAuthService(userRepo *repository.UserRepository, secret string, ttl time.Duration) (*AuthService, error) {
	var key fernet.Key
	if secret == "" {
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		log.Println("AUTH_SECRET not set, using a generated session key")
	} else {
		decoded, err := fernet.DecodeKey(secret)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_SECRET: %w", err)
		}
		key = *decoded
	}

	return &AuthService{
		userRepo: userRepo,
		key:      &key,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Register creates an account. The email is stored lower-cased and the name trimmed.
// Returns a validation error for missing or malformed fields and
// apperrors.ErrEmailTaken when the email is already registered.
func (s *AuthService) Register(req request.RegisterRequest) (model.User, error) {
	if err := validation.ValidateRegister(req); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), BcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Login checks the credentials and issues a session token.
// Unknown emails and wrong passwords both return apperrors.ErrInvalidCredentials.
func (s *AuthService) Login(req request.LoginRequest) (model.Session, error) {
	if err := validation.ValidateLogin(req); err != nil {
		return model.Session{}, err
	}

	user, err := s.userRepo.GetUserByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return model.Session{}, apperrors.ErrInvalidCredentials
		}
		return model.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.Session{}, apperrors.ErrInvalidCredentials
	}

	return s.IssueToken(user)
}

// IssueToken creates a session for user.
func (s *AuthService) IssueToken(user model.User) (model.Session, error) {
	issued := s.now()
	token, err := fernet.EncryptAndSign([]byte(user.ID), s.key)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return model.Session{
		Token:     string(token),
		ExpiresAt: issued.Add(s.ttl).UTC(),
		User:      user,
	}, nil
}

// Authenticate verifies a session token and returns the user id it carries.
// Invalid, tampered and expired tokens return apperrors.ErrUnauthorized.
func (s *AuthService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", apperrors.ErrUnauthorized
	}
	payload := fernet.VerifyAndDecrypt([]byte(token), s.ttl, []*fernet.Key{s.key})
	if payload == nil {
		return "", apperrors.ErrUnauthorized
	}
	return string(payload), nil
}

// CurrentUser returns the account of userID.
func (s *AuthService) CurrentUser(userID string) (model.User, error) {
	return s.userRepo.GetUserByID(userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
