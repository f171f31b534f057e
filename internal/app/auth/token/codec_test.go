package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	customErrors "github.com/oleksiikond/contactdeck/internal/domain/auth/errors"
)

func testCodec(t *testing.T) *Codec {
	c, err := NewCodec("secret", "HS256", time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCodec_IssueDecodeAccess(t *testing.T) {
	c := testCodec(t)

	raw, exp, err := c.IssueAccess("agent007")
	if err != nil || raw == "" || exp.IsZero() {
		t.Fatalf("bad issue: %v", err)
	}

	claims, err := c.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "agent007" {
		t.Fatalf("want agent007 got %s", claims.Subject)
	}
	if claims.TokenType != PurposeAccess {
		t.Fatalf("want access purpose got %q", claims.TokenType)
	}
}

func TestCodec_RefreshPurpose(t *testing.T) {
	c := testCodec(t)

	raw, _, err := c.IssueRefresh("agent007")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := c.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if claims.TokenType != PurposeRefresh {
		t.Fatalf("want refresh purpose got %q", claims.TokenType)
	}
}

func TestCodec_EmailTokenOmitsPurpose(t *testing.T) {
	c := testCodec(t)

	raw, exp, err := c.IssueEmail("agent007@gmail.com")
	if err != nil {
		t.Fatal(err)
	}
	if until := time.Until(exp); until < 6*24*time.Hour || until > 8*24*time.Hour {
		t.Fatalf("email token must live ~7 days, got %v", until)
	}

	claims, err := c.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if claims.TokenType != "" {
		t.Fatalf("email token must omit token_type, got %q", claims.TokenType)
	}
	if claims.Subject != "agent007@gmail.com" {
		t.Fatalf("want email subject got %s", claims.Subject)
	}
}

func TestCodec_DecodeErrors(t *testing.T) {
	c := testCodec(t)

	if _, err := c.Decode("garbage"); !customErrors.IsInvalidToken(err) {
		t.Fatalf("expected invalid token, got %v", err)
	}

	// signed with another secret
	other, _ := NewCodec("other", "HS256", time.Minute, time.Hour)
	raw, _, _ := other.IssueAccess("u")
	if _, err := c.Decode(raw); !customErrors.IsInvalidToken(err) {
		t.Fatalf("expected signature mismatch, got %v", err)
	}
}

func TestCodec_Expired(t *testing.T) {
	c, _ := NewCodec("secret", "HS256", -time.Minute, time.Hour)
	raw, _, err := c.IssueAccess("u")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decode(raw); !customErrors.IsInvalidToken(err) {
		t.Fatalf("expected expiry failure, got %v", err)
	}
}

func TestCodec_RejectsForeignAlg(t *testing.T) {
	c := testCodec(t)
	raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "u",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if _, err := c.Decode(raw); !customErrors.IsInvalidToken(err) {
		t.Fatal("expected alg mismatch rejection")
	}
}

func TestNewCodec_RejectsNonHMAC(t *testing.T) {
	if _, err := NewCodec("secret", "RS256", time.Minute, time.Hour); err == nil {
		t.Fatal("expected error for non-HMAC algorithm")
	}
	if _, err := NewCodec("", "HS256", time.Minute, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
