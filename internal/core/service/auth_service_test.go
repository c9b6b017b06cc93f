package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/callsheet/production-system/internal/core/domain"
)

type stubAuthRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	nextID  int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{byEmail: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	clone := *user
	clone.ID = fmt.Sprintf("user_%03d", r.nextID)
	r.byEmail[user.Email] = &clone
	result := clone
	return &result, nil
}

func (r *stubAuthRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, u := range r.byEmail {
		if u.ID == id {
			delete(r.byEmail, email)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

const testSecret = "test-secret"

func newAuthFixture() (*stubAuthRepo, *stubProfileRepo, *AuthService) {
	repo := newStubAuthRepo()
	profiles := newStubProfileRepo()
	svc := NewAuthService(repo, profiles, testSecret, time.Hour, discardLogger)
	return repo, profiles, svc
}

func TestAuthService_Register_CreatesCredentialAndProfile(t *testing.T) {
	_, profiles, svc := newAuthFixture()

	user, err := svc.Register(context.Background(), "ada@example.com", "s3cret", "Ada Lovelace")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected an assigned user id")
	}
	if user.PasswordHash == "s3cret" {
		t.Error("password stored in clear")
	}

	profile, err := profiles.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if profile.Email != "ada@example.com" || profile.FullName != "Ada Lovelace" {
		t.Errorf("profile fields wrong: %+v", profile)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	_, _, svc := newAuthFixture()

	if _, err := svc.Register(context.Background(), "ada@example.com", "s3cret", "Ada Lovelace"); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	_, err := svc.Register(context.Background(), "ada@example.com", "other", "Ada L.")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	_, _, svc := newAuthFixture()

	cases := [][3]string{
		{"", "s3cret", "Ada"},
		{"ada@example.com", "", "Ada"},
		{"ada@example.com", "s3cret", ""},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc[0], tc[1], tc[2])
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Register(%q, %q, %q): expected ErrInvalidCredentials, got %v", tc[0], tc[1], tc[2], err)
		}
	}
}

func TestAuthService_Register_RollsBackOnProfileFailure(t *testing.T) {
	repo, profiles, svc := newAuthFixture()
	profiles.setErr = errors.New("profile store down")

	_, err := svc.Register(context.Background(), "ada@example.com", "s3cret", "Ada Lovelace")
	if err == nil {
		t.Fatal("expected registration to fail")
	}

	// The credential must be gone so the user can retry.
	if _, err := repo.FindByEmail(context.Background(), "ada@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected credential rolled back, got %v", err)
	}
}

func TestAuthService_Login_IssuesToken(t *testing.T) {
	_, _, svc := newAuthFixture()

	registered, err := svc.Register(context.Background(), "ada@example.com", "s3cret", "Ada Lovelace")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("want user %s, got %s", registered.ID, user.ID)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("unexpected claims type")
	}
	if claims["user_id"] != registered.ID {
		t.Errorf("user_id claim: want %s, got %v", registered.ID, claims["user_id"])
	}
	if claims["email"] != "ada@example.com" {
		t.Errorf("email claim: want ada@example.com, got %v", claims["email"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	_, _, svc := newAuthFixture()

	if _, err := svc.Register(context.Background(), "ada@example.com", "s3cret", "Ada Lovelace"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "ada@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	_, _, svc := newAuthFixture()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
