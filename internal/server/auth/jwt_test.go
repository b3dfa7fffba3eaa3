package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Lg0ma/MessagesVS/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	subject := "alice@example.com"

	tok, err := GenerateToken(subject, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := GetSubjectFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetSubjectFromToken error: %v", err)
	}
	if got != subject {
		t.Fatalf("subject mismatch: got %q want %q", got, subject)
	}
}

func TestGenerateToken_PayloadContract(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("bob@example.com", []byte("k"), 24*time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 dot-separated segments, got %d", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("payload decode error: %v", err)
	}

	var claims struct {
		Sub string `json:"sub"`
		Iat int64  `json:"iat"`
		Exp int64  `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		t.Fatalf("payload unmarshal error: %v", err)
	}

	if claims.Sub != "bob@example.com" {
		t.Fatalf("sub mismatch: got %q", claims.Sub)
	}
	if claims.Exp-claims.Iat != 86400 {
		t.Fatalf("expected exp - iat == 86400, got %d", claims.Exp-claims.Iat)
	}
}

func TestGetSubjectFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1@example.com", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetSubjectFromToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestGetSubjectFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2@example.com", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetSubjectFromToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestGetSubjectFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetSubjectFromToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}
