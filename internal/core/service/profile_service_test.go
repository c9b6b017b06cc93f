package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/callsheet/production-system/internal/core/domain"
	"github.com/callsheet/production-system/internal/core/ports"
)

func TestProfileService_Set_New(t *testing.T) {
	repo := newStubProfileRepo()
	svc := NewProfileService(repo, discardLogger)

	avatar := "https://cdn.example.com/ada.png"
	profile, err := svc.Set(context.Background(), "user_1", ports.ProfileInput{
		Email:     "ada@example.com",
		FullName:  "Ada Lovelace",
		AvatarURL: &avatar,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.UserID != "user_1" || profile.FullName != "Ada Lovelace" {
		t.Errorf("profile fields wrong: %+v", profile)
	}
	if profile.CreatedAt.IsZero() {
		t.Error("created_at must be set on first write")
	}
	if profile.AvatarURL == nil || *profile.AvatarURL != avatar {
		t.Errorf("avatar url not stored: %v", profile.AvatarURL)
	}
}

func TestProfileService_Set_OverwriteKeepsCreatedAt(t *testing.T) {
	repo := newStubProfileRepo()
	svc := NewProfileService(repo, discardLogger)

	first, err := svc.Set(context.Background(), "user_1", ports.ProfileInput{Email: "ada@example.com", FullName: "Ada Lovelace"})
	if err != nil {
		t.Fatalf("first set: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	second, err := svc.Set(context.Background(), "user_1", ports.ProfileInput{Email: "ada@newmail.com", FullName: "Ada King"})
	if err != nil {
		t.Fatalf("second set: %v", err)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on overwrite: %v vs %v", second.CreatedAt, first.CreatedAt)
	}
	if second.FullName != "Ada King" || second.Email != "ada@newmail.com" {
		t.Errorf("overwrite did not replace fields: %+v", second)
	}
	// Full-replace semantics: a field omitted on overwrite is cleared.
	if second.AvatarURL != nil {
		t.Errorf("avatar url should be cleared by full replace, got %v", *second.AvatarURL)
	}
}

func TestProfileService_Get_Missing(t *testing.T) {
	repo := newStubProfileRepo()
	svc := NewProfileService(repo, discardLogger)

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}
