package services_test

import (
	"testing"

	"chadder/internal/models"
	"chadder/internal/services"
)

func TestTokenRoundTrip(t *testing.T) {
	authentication, err := services.NewAuthentication("test-secret")
	if err != nil {
		t.Fatal(err)
	}

	user := &models.UserFromAuth{
		ID:          "user-123",
		Email:       "viewer@example.com",
		DisplayName: "Viewer",
	}

	token, err := authentication.CreateToken(user)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	got, err := authentication.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if got.ID != user.ID {
		t.Errorf("ID = %q, want %q", got.ID, user.ID)
	}
	if got.Email != user.Email {
		t.Errorf("Email = %q, want %q", got.Email, user.Email)
	}
	if got.DisplayName != user.DisplayName {
		t.Errorf("DisplayName = %q, want %q", got.DisplayName, user.DisplayName)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	signer, err := services.NewAuthentication("secret-a")
	if err != nil {
		t.Fatal(err)
	}
	verifier, err := services.NewAuthentication("secret-b")
	if err != nil {
		t.Fatal(err)
	}

	token, err := signer.CreateToken(&models.UserFromAuth{ID: "user-123"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := verifier.Validate(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	authentication, err := services.NewAuthentication("test-secret")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := authentication.Validate("not-a-token"); err == nil {
		t.Error("expected validation to fail for malformed input")
	}
}
