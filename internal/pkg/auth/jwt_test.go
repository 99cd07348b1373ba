package auth

import (
	"errors"
	"testing"
	"time"
)

func testJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:  "test-secret-key",
		SessionExp: exp,
		Issuer:     "feeclearance-test",
	})
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := testJWTService(time.Hour)

	t.Run("student principal", func(t *testing.T) {
		token, err := svc.GenerateSessionToken(StudentPrincipal{
			ID:            2,
			Email:         "ada@example.com",
			EmailVerified: true,
		})
		if err != nil {
			t.Fatalf("GenerateSessionToken returned error: %v", err)
		}

		claims, err := svc.ValidateToken(token)
		if err != nil {
			t.Fatalf("ValidateToken returned error: %v", err)
		}

		principal, err := PrincipalFromClaims(claims)
		if err != nil {
			t.Fatalf("PrincipalFromClaims returned error: %v", err)
		}
		student, ok := principal.(StudentPrincipal)
		if !ok {
			t.Fatalf("principal is %T, want StudentPrincipal", principal)
		}
		if student.ID != 2 || student.Email != "ada@example.com" || !student.EmailVerified {
			t.Errorf("principal did not survive the round trip: %+v", student)
		}
	})

	t.Run("admin principal", func(t *testing.T) {
		token, err := svc.GenerateSessionToken(AdminPrincipal{ID: 1, Email: "admin@nacosng.org"})
		if err != nil {
			t.Fatalf("GenerateSessionToken returned error: %v", err)
		}

		claims, err := svc.ValidateToken(token)
		if err != nil {
			t.Fatalf("ValidateToken returned error: %v", err)
		}
		if claims.Role != string(RoleAdmin) {
			t.Errorf("role claim %q, want admin", claims.Role)
		}

		principal, err := PrincipalFromClaims(claims)
		if err != nil {
			t.Fatalf("PrincipalFromClaims returned error: %v", err)
		}
		if _, ok := principal.(AdminPrincipal); !ok {
			t.Errorf("principal is %T, want AdminPrincipal", principal)
		}
	})
}

func TestValidateTokenRejections(t *testing.T) {
	svc := testJWTService(time.Hour)

	t.Run("expired token", func(t *testing.T) {
		expired := testJWTService(-time.Minute)
		token, err := expired.GenerateSessionToken(StudentPrincipal{ID: 2, Email: "ada@example.com"})
		if err != nil {
			t.Fatalf("GenerateSessionToken returned error: %v", err)
		}

		_, err = svc.ValidateToken(token)
		if !errors.Is(err, ErrExpiredToken) {
			t.Errorf("got %v, want ErrExpiredToken", err)
		}
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(JWTConfig{SecretKey: "other-secret", SessionExp: time.Hour, Issuer: "feeclearance-test"})
		token, err := other.GenerateSessionToken(StudentPrincipal{ID: 2, Email: "ada@example.com"})
		if err != nil {
			t.Fatalf("GenerateSessionToken returned error: %v", err)
		}

		if _, err := svc.ValidateToken(token); err == nil {
			t.Error("token with a wrong signature was accepted")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := svc.ValidateToken("not.a.token"); err == nil {
			t.Error("malformed token was accepted")
		}
	})
}

func TestPrincipalFromClaimsUnknownRole(t *testing.T) {
	_, err := PrincipalFromClaims(&SessionClaims{UserID: 1, Email: "x@example.com", Role: "superuser"})
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, err := ExtractBearerToken(""); err == nil {
		t.Error("empty header was accepted")
	}

	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("got (%q, %v)", token, err)
	}

	// Raw tokens without the Bearer prefix are tolerated.
	token, err = ExtractBearerToken("abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("got (%q, %v)", token, err)
	}
}
