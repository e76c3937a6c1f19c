package services

import (
	"context"
	"testing"

	"mlb-streak-go/models"
)

func seedAuthUser(t *testing.T, repo *MemoryProfileRepository, userID, passphrase string) *models.UserProfile {
	t.Helper()
	profile := &models.UserProfile{UserID: userID, DisplayName: userID}
	if err := profile.HashPassphrase(passphrase); err != nil {
		t.Fatalf("failed to hash passphrase: %v", err)
	}
	if err := repo.Create(context.Background(), profile); err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
	return profile
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	repo := NewMemoryProfileRepository()
	seedAuthUser(t, repo, "alice", "hunter2")
	service := NewAuthService(repo, "test-secret")
	ctx := context.Background()

	resp, err := service.Login(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.Profile.PassphraseHash == "" {
		t.Error("profile should carry the stored hash internally")
	}

	profile, err := service.GetProfileFromToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("GetProfileFromToken failed: %v", err)
	}
	if profile.UserID != "alice" {
		t.Errorf("expected alice, got %s", profile.UserID)
	}
}

func TestLoginWrongPassphrase(t *testing.T) {
	repo := NewMemoryProfileRepository()
	seedAuthUser(t, repo, "alice", "hunter2")
	service := NewAuthService(repo, "test-secret")

	if _, err := service.Login(context.Background(), "alice", "wrong"); err == nil {
		t.Fatal("expected login to fail with wrong passphrase")
	}
	if _, err := service.Login(context.Background(), "ghost", "hunter2"); err == nil {
		t.Fatal("expected login to fail for unknown user")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	repo := NewMemoryProfileRepository()
	profile := seedAuthUser(t, repo, "alice", "hunter2")

	issuer := NewAuthService(repo, "secret-a")
	verifier := NewAuthService(repo, "secret-b")

	token, err := issuer.GenerateToken(profile)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	service := NewAuthService(NewMemoryProfileRepository(), "test-secret")
	if _, err := service.ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected validation to fail for malformed token")
	}
}
