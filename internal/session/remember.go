package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTokenInvalid = errors.New("remember-me token is invalid")
	ErrTokenExpired = errors.New("remember-me token is expired")
)

// RememberMeService issues and redeems signed persistent-login tokens.
// A token carries only the user ID and an expiry; the user's current
// role and account state are re-resolved on redemption, so a token can
// never grant more than the account holds at that moment.
type RememberMeService struct {
	secret   []byte
	validity time.Duration
}

func NewRememberMeService(secret string, validity time.Duration) *RememberMeService {
	return &RememberMeService{
		secret:   []byte(secret),
		validity: validity,
	}
}

// Issue produces a token of the form base64(userID:expiryUnix:signature).
func (s *RememberMeService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	expires := time.Now().Add(s.validity).Unix()
	payload := fmt.Sprintf("%s:%d", userID, expires)
	token := fmt.Sprintf("%s:%s", payload, s.sign(payload))

	return base64.RawURLEncoding.EncodeToString([]byte(token)), nil
}

// Redeem verifies a token's signature and expiry and returns the user ID
// it was issued for.
func (s *RememberMeService) Redeem(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrTokenInvalid
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return "", ErrTokenInvalid
	}
	userID, expiresStr, sig := parts[0], parts[1], parts[2]

	payload := userID + ":" + expiresStr
	expected := s.sign(payload)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrTokenInvalid
	}

	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return "", ErrTokenInvalid
	}
	if time.Now().Unix() > expires {
		return "", ErrTokenExpired
	}

	return userID, nil
}

// Validity returns the configured token lifetime.
func (s *RememberMeService) Validity() time.Duration {
	return s.validity
}

func (s *RememberMeService) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
