package services

import (
	"context"
	"testing"

	"devsprint/backend/internal/config"
	"devsprint/backend/internal/models"
	"devsprint/backend/internal/utils"
)

func init() {
	utils.SetJWTSecret("test-secret-for-service-testing")
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret-for-service-testing", ExpireHour: 1}
}

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testJWTConfig())

	t.Run("defaults to dev role and normalizes email", func(t *testing.T) {
		user, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "  Alice@Example.COM ",
			Password: "secret123",
			FullName: "Alice",
		})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("Email = %q, expected normalized lowercase", user.Email)
		}
		if user.Role != models.RoleDev {
			t.Errorf("Role = %q, expected %q", user.Role, models.RoleDev)
		}
		if user.Password == "secret123" {
			t.Error("password stored in plaintext")
		}
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		_, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "alice@example.com",
			Password: "another123",
		})
		wantKind(t, err, KindConflict)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "bob@example.com",
			Password: "secret123",
			Role:     "admin",
		})
		wantKind(t, err, KindValidation)
	})
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testJWTConfig())

	if _, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "carol@example.com",
		Password: "secret123",
		Role:     models.RoleLead,
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("valid credentials return a parseable token", func(t *testing.T) {
		result, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "Carol@Example.com",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		claims, err := utils.ParseToken(result.Token)
		if err != nil {
			t.Fatalf("ParseToken() error = %v", err)
		}
		if claims.Email != "carol@example.com" {
			t.Errorf("claims.Email = %q", claims.Email)
		}
		if claims.Role != models.RoleLead {
			t.Errorf("claims.Role = %q, expected %q", claims.Role, models.RoleLead)
		}
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, err1 := svc.Login(context.Background(), &LoginRequest{
			Email:    "carol@example.com",
			Password: "wrong",
		})
		wantKind(t, err1, KindUnauthorized)

		_, err2 := svc.Login(context.Background(), &LoginRequest{
			Email:    "nobody@example.com",
			Password: "secret123",
		})
		wantKind(t, err2, KindUnauthorized)

		if err1.Error() != err2.Error() {
			t.Errorf("error messages differ: %q vs %q", err1.Error(), err2.Error())
		}
	})
}

func TestCreateLeadIfNotExists(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testJWTConfig())

	if err := svc.CreateLeadIfNotExists(); err != nil {
		t.Fatalf("CreateLeadIfNotExists() error = %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleLead).Count(&count)
	if count != 1 {
		t.Fatalf("lead count = %d, expected 1", count)
	}

	// Idempotent: a second call does not create another lead.
	if err := svc.CreateLeadIfNotExists(); err != nil {
		t.Fatalf("CreateLeadIfNotExists() second call error = %v", err)
	}
	db.Model(&models.User{}).Where("role = ?", models.RoleLead).Count(&count)
	if count != 1 {
		t.Errorf("lead count after second call = %d, expected 1", count)
	}
}
