package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/studyloop/studyloop-backend/internal/config"
)

func newTestAuthService(t *testing.T) (*AuthService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
	return NewAuthService(cfg, rdb), mr
}

func TestPasswordHashRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService(t)

	hash, err := svc.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := svc.CheckPassword(hash, "s3cret"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword with wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestLearnerTokenSingleSession(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	learnerID := uuid.New()

	token, err := svc.GenerateLearnerToken(ctx, learnerID)
	if err != nil {
		t.Fatalf("GenerateLearnerToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != TokenTypeLearner {
		t.Errorf("token type = %q, want %q", claims.TokenType, TokenTypeLearner)
	}
	if claims.LearnerID != learnerID {
		t.Errorf("learner ID = %s, want %s", claims.LearnerID, learnerID)
	}

	if err := svc.ValidateLearnerSession(ctx, learnerID, claims.ID); err != nil {
		t.Errorf("ValidateLearnerSession: %v", err)
	}

	// A second login while the session is alive is rejected.
	if _, err := svc.GenerateLearnerToken(ctx, learnerID); !errors.Is(err, ErrSessionAlreadyActive) {
		t.Errorf("second login = %v, want ErrSessionAlreadyActive", err)
	}
}

func TestResetLearnerSession(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	learnerID := uuid.New()

	first, err := svc.GenerateLearnerToken(ctx, learnerID)
	if err != nil {
		t.Fatalf("GenerateLearnerToken: %v", err)
	}

	if err := svc.ResetLearnerSession(ctx, learnerID); err != nil {
		t.Fatalf("ResetLearnerSession: %v", err)
	}

	// A new login succeeds and the old JTI is no longer valid.
	second, err := svc.GenerateLearnerToken(ctx, learnerID)
	if err != nil {
		t.Fatalf("login after reset: %v", err)
	}

	oldClaims, err := svc.ValidateToken(first)
	if err != nil {
		t.Fatalf("ValidateToken(first): %v", err)
	}
	if err := svc.ValidateLearnerSession(ctx, learnerID, oldClaims.ID); err == nil {
		t.Error("stale JTI still validates after reset")
	}

	newClaims, err := svc.ValidateToken(second)
	if err != nil {
		t.Fatalf("ValidateToken(second): %v", err)
	}
	if err := svc.ValidateLearnerSession(ctx, learnerID, newClaims.ID); err != nil {
		t.Errorf("ValidateLearnerSession(new): %v", err)
	}
}

func TestSessionExpiresWithTTL(t *testing.T) {
	svc, mr := newTestAuthService(t)
	ctx := context.Background()
	learnerID := uuid.New()

	if _, err := svc.GenerateLearnerToken(ctx, learnerID); err != nil {
		t.Fatalf("GenerateLearnerToken: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	// Once the session key has expired a fresh login is allowed.
	if _, err := svc.GenerateLearnerToken(ctx, learnerID); err != nil {
		t.Errorf("login after session TTL = %v, want success", err)
	}
}

func TestAdminTokenCarriesPermissions(t *testing.T) {
	svc, _ := newTestAuthService(t)

	token, err := svc.GenerateAdminToken(7, 2, []string{"courses:read", "exams:write"})
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != TokenTypeAdmin {
		t.Errorf("token type = %q, want %q", claims.TokenType, TokenTypeAdmin)
	}
	if claims.AdminID != 7 || claims.RoleID != 2 {
		t.Errorf("admin/role = %d/%d, want 7/2", claims.AdminID, claims.RoleID)
	}
	if len(claims.Permissions) != 2 || claims.Permissions[0] != "courses:read" {
		t.Errorf("permissions = %v", claims.Permissions)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _ := newTestAuthService(t)

	token, err := svc.GenerateAdminToken(1, 1, nil)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	if _, err := svc.ValidateToken(token + "x"); err == nil {
		t.Error("tampered token accepted")
	}

	other := NewAuthService(&config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour}, nil)
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}
