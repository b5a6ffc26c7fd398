package outreach

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"devscout_backend/platform/apperr"
	"devscout_backend/platform/config"
)

// Token actions embedded in approval links.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type approvalClaims struct {
	LeadID string `json:"lead_id"`
	Action string `json:"action"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies the signed tokens behind the approve and
// reject links in operator emails. The links work without a login, so the
// token is the entire authorization.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenSigner builds a signer from config.
func NewTokenSigner(cfg config.OutreachConfig) *TokenSigner {
	return &TokenSigner{
		secret: []byte(cfg.GetApprovalTokenSecret()),
		ttl:    cfg.GetApprovalTokenTTL(),
	}
}

// Sign issues a token authorizing one action on one lead.
func (s *TokenSigner) Sign(leadID uuid.UUID, action string) (string, error) {
	if action != ActionApprove && action != ActionReject {
		return "", fmt.Errorf("unknown approval action %q", action)
	}
	now := time.Now()
	claims := approvalClaims{
		LeadID: leadID.String(),
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks a token and returns the lead it authorizes and the action.
func (s *TokenSigner) Verify(tokenString string) (uuid.UUID, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &approvalClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, "", apperr.Wrap(apperr.KindForbidden, "invalid approval token", err)
	}

	claims, ok := token.Claims.(*approvalClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", apperr.Forbidden("invalid approval token")
	}
	if claims.Action != ActionApprove && claims.Action != ActionReject {
		return uuid.Nil, "", apperr.Forbidden("invalid approval token")
	}

	leadID, err := uuid.Parse(claims.LeadID)
	if err != nil {
		return uuid.Nil, "", apperr.Forbidden("invalid approval token")
	}
	return leadID, claims.Action, nil
}
