package service_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/testutil"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/validation"
)

func TestNewAuthService(t *testing.T) {
	db := testutil.SetupTestDB(t)

	t.Run("rejects a malformed secret", func(t *testing.T) {
		if _, err := service.NewAuthService(repository.NewUserRepository(db), "not-a-key", time.Hour); err == nil {
			t.Error("Expected an error for a malformed secret")
		}
	})

	t.Run("generates a key when the secret is empty", func(t *testing.T) {
		if _, err := service.NewAuthService(repository.NewUserRepository(db), "", time.Hour); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates a user with a normalised email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db)

		user, err := svc.Register(request.RegisterRequest{
			Name:            "  Alice  ",
			Email:           " Alice@Example.COM ",
			Password:        testutil.TestPassword,
			ConfirmPassword: testutil.TestPassword,
		})
		if err != nil {
			t.Fatalf("Register() returned unexpected error: %v", err)
		}

		if user.Email != "alice@example.com" || user.Name != "Alice" {
			t.Errorf("Unexpected user %+v", user)
		}
		if user.PasswordHash == "" || user.PasswordHash == testutil.TestPassword {
			t.Error("Expected a hashed password")
		}

		stored, err := repository.NewUserRepository(db).GetUserByEmail("alice@example.com")
		if err != nil || stored.ID != user.ID {
			t.Errorf("Expected the user to be stored, got %+v, %v", stored, err)
		}
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db)
		existing := testutil.CreateUser(t, db)

		_, err := svc.Register(request.RegisterRequest{
			Name:            "Bob",
			Email:           strings.ToUpper(existing.Email),
			Password:        testutil.TestPassword,
			ConfirmPassword: testutil.TestPassword,
		})

		if !errors.Is(err, apperrors.ErrEmailTaken) {
			t.Errorf("Expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("returns field errors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db)

		_, err := svc.Register(request.RegisterRequest{
			Name:            "",
			Email:           "nope",
			Password:        "short",
			ConfirmPassword: "other",
		})

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected a validation error, got %v", err)
		}
		for _, field := range []string{"name", "email", "password", "confirmPassword"} {
			if _, ok := vErr.Fields[field]; !ok {
				t.Errorf("Expected an error for %s, got %v", field, vErr.Fields)
			}
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues a token that authenticates the user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db)
		user := testutil.CreateUser(t, db)

		session, err := svc.Login(request.LoginRequest{Email: user.Email, Password: testutil.TestPassword})
		if err != nil {
			t.Fatalf("Login() returned unexpected error: %v", err)
		}

		if session.User.ID != user.ID {
			t.Errorf("Expected session for %s, got %s", user.ID, session.User.ID)
		}
		if !session.ExpiresAt.After(time.Now()) {
			t.Errorf("Expected a future expiry, got %v", session.ExpiresAt)
		}

		userID, err := svc.Authenticate(session.Token)
		if err != nil {
			t.Fatalf("Authenticate() returned unexpected error: %v", err)
		}
		if userID != user.ID {
			t.Errorf("Expected user %s, got %s", user.ID, userID)
		}
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db)
		user := testutil.CreateUser(t, db)

		_, errUnknown := svc.Login(request.LoginRequest{Email: "ghost@example.com", Password: testutil.TestPassword})
		_, errWrong := svc.Login(request.LoginRequest{Email: user.Email, Password: "wrong-password"})

		if !errors.Is(errUnknown, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for an unknown email, got %v", errUnknown)
		}
		if !errors.Is(errWrong, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for a wrong password, got %v", errWrong)
		}
	})
}

// TestAuthService_Authenticate tests token verification.
//
// WHY: the token is the only thing between a request and someone else's
// portfolio; forged, tampered and expired tokens must all be rejected.
func TestAuthService_Authenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db)
	svc := testutil.NewTestAuthService(t, db)

	session, err := svc.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() returned unexpected error: %v", err)
	}

	t.Run("empty token", func(t *testing.T) {
		if _, err := svc.Authenticate(""); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		tampered := []byte(session.Token)
		mid := len(tampered) / 2
		if tampered[mid] == 'A' {
			tampered[mid] = 'B'
		} else {
			tampered[mid] = 'A'
		}

		if _, err := svc.Authenticate(string(tampered)); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other, err := service.NewAuthService(repository.NewUserRepository(db), "", time.Hour)
		if err != nil {
			t.Fatalf("Failed to create auth service: %v", err)
		}
		foreign, err := other.IssueToken(user)
		if err != nil {
			t.Fatalf("IssueToken() returned unexpected error: %v", err)
		}

		if _, err := svc.Authenticate(foreign.Token); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived, err := service.NewAuthService(repository.NewUserRepository(db), testutil.TestAuthSecret, time.Nanosecond)
		if err != nil {
			t.Fatalf("Failed to create auth service: %v", err)
		}
		expiring, err := shortLived.IssueToken(user)
		if err != nil {
			t.Fatalf("IssueToken() returned unexpected error: %v", err)
		}
		time.Sleep(5 * time.Millisecond)

		if _, err := shortLived.Authenticate(expiring.Token); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestAuthService_CurrentUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestAuthService(t, db)
	user := testutil.CreateUser(t, db)

	got, err := svc.CurrentUser(user.ID)
	if err != nil {
		t.Fatalf("CurrentUser() returned unexpected error: %v", err)
	}
	if got.Email != user.Email {
		t.Errorf("Expected %s, got %s", user.Email, got.Email)
	}

	if _, err := svc.CurrentUser("missing"); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
