package outreach

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type outreachConfig struct {
	secret string
	ttl    time.Duration
}

func (c outreachConfig) GetAppBaseURL() string              { return "https://app.example.com" }
func (c outreachConfig) GetOperatorEmail() string           { return "ops@example.com" }
func (c outreachConfig) GetApprovalTokenSecret() string     { return c.secret }
func (c outreachConfig) GetApprovalTokenTTL() time.Duration { return c.ttl }

func TestTokenRoundTrip(t *testing.T) {
	signer := NewTokenSigner(outreachConfig{secret: "test-secret", ttl: time.Hour})
	leadID := uuid.New()

	for _, action := range []string{ActionApprove, ActionReject} {
		token, err := signer.Sign(leadID, action)
		if err != nil {
			t.Fatalf("Sign(%s): %v", action, err)
		}
		gotID, gotAction, err := signer.Verify(token)
		if err != nil {
			t.Fatalf("Verify(%s): %v", action, err)
		}
		if gotID != leadID || gotAction != action {
			t.Errorf("Verify = (%v, %v), want (%v, %v)", gotID, gotAction, leadID, action)
		}
	}
}

func TestTokenRejectsUnknownAction(t *testing.T) {
	signer := NewTokenSigner(outreachConfig{secret: "test-secret", ttl: time.Hour})
	if _, err := signer.Sign(uuid.New(), "delete"); err == nil {
		t.Error("expected Sign to refuse an unknown action")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	signer := NewTokenSigner(outreachConfig{secret: "test-secret", ttl: time.Hour})
	other := NewTokenSigner(outreachConfig{secret: "different", ttl: time.Hour})

	token, err := signer.Sign(uuid.New(), ActionApprove)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, _, err := other.Verify(token); err == nil {
		t.Error("expected verification with the wrong secret to fail")
	}
}

func TestTokenExpired(t *testing.T) {
	signer := NewTokenSigner(outreachConfig{secret: "test-secret", ttl: -time.Minute})

	token, err := signer.Sign(uuid.New(), ActionApprove)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, _, err := signer.Verify(token); err == nil {
		t.Error("expected verification of an expired token to fail")
	}
}

func TestTokenGarbage(t *testing.T) {
	signer := NewTokenSigner(outreachConfig{secret: "test-secret", ttl: time.Hour})
	if _, _, err := signer.Verify("not-a-token"); err == nil {
		t.Error("expected garbage token to fail verification")
	}
}
