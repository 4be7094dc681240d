package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

const defaultTokenTTL = 24 * time.Hour

// HMACStrategy signs "<customer>.<expires>" payloads with HMAC-SHA256.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl, now: now}
}

// IssueToken generates a signed token for the customer.
func (s *HMACStrategy) IssueToken(customerID int64) (string, error) {
	if customerID <= 0 {
		return "", fmt.Errorf("issue token: invalid customer id %d", customerID)
	}
	expires := s.now().Add(s.ttl).Unix()
	payload := strconv.FormatInt(customerID, 10) + "." + strconv.FormatInt(expires, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(payload + "." + s.sign(payload))), nil
}

// ParseToken validates token and returns the encoded customer ID.
func (s *HMACStrategy) ParseToken(token string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, ErrInvalidToken
	}

	payload, sig, ok := cutLast(string(raw), ".")
	if !ok || !hmac.Equal([]byte(s.sign(payload)), []byte(sig)) {
		return 0, ErrInvalidToken
	}

	idPart, expPart, ok := strings.Cut(payload, ".")
	if !ok {
		return 0, ErrInvalidToken
	}

	customerID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || customerID <= 0 {
		return 0, ErrInvalidToken
	}

	expires, err := strconv.ParseInt(expPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	if !s.now().Before(time.Unix(expires, 0)) {
		return 0, ErrInvalidToken
	}

	return customerID, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac-sha256"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func cutLast(s, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+len(sep):], true
}
