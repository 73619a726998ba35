package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// RoleViewer is the view-only participant role embedded in every token.
const RoleViewer = 0

const (
	// ClockSkew backdates the issued-at claim so tokens remain valid on
	// hosts whose clock runs slightly ahead of the signing machine.
	ClockSkew = 30 * time.Second
	// TokenLifetime is the validity window measured from issued-at.
	TokenLifetime = 2 * time.Hour
)

var ErrInvalidSessionID = errors.New("session id contains no digits")

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

type claims struct {
	AppKey string `json:"appKey"`
	MN     int64  `json:"mn"`
	Role   int    `json:"role"`
	Iat    int64  `json:"iat"`
	Exp    int64  `json:"exp"`
}

// Signer builds time-bounded session tokens. The zero clock is wall time;
// tests inject a fixed clock for deterministic output.
type Signer struct {
	clock func() time.Time
}

func New() *Signer {
	return &Signer{clock: time.Now}
}

func NewWithClock(clock func() time.Time) *Signer {
	return &Signer{clock: clock}
}

// NormalizeSessionID reduces a human-entered session id to its digits and
// parses it as an integer, tolerating separators such as spaces or dashes.
func NormalizeSessionID(sessionID string) (int64, error) {
	var b strings.Builder
	for _, r := range sessionID {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, ErrInvalidSessionID
	}
	return strconv.ParseInt(b.String(), 10, 64)
}

// Sign produces a three-segment base64url token over the session parameters,
// HMAC-SHA256 signed with the untrimmed secret.
func (s *Signer) Sign(sessionID, secret, clientKey string) (string, error) {
	mn, err := NormalizeSessionID(sessionID)
	if err != nil {
		return "", err
	}

	iat := s.clock().Add(-ClockSkew).Unix()
	pl := claims{
		AppKey: strings.TrimSpace(clientKey),
		MN:     mn,
		Role:   RoleViewer,
		Iat:    iat,
		Exp:    iat + int64(TokenLifetime/time.Second),
	}

	headerJSON, err := json.Marshal(header{Alg: "HS256", Typ: "JWT"})
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(pl)
	if err != nil {
		return "", err
	}

	enc := base64.RawURLEncoding
	signingInput := enc.EncodeToString(headerJSON) + "." + enc.EncodeToString(claimsJSON)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signingInput))

	return signingInput + "." + enc.EncodeToString(mac.Sum(nil)), nil
}
