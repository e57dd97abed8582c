package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// ConsoleCapability is the "caps" entry a token needs to act as the server console.
const ConsoleCapability = "console"

var (
	ErrConsoleNotConfigured = errors.New("console secret is not configured")
	ErrConsoleTokenInvalid  = errors.New("console token is invalid")
)

// ConsoleAuth issues and verifies the HS256 tokens that server tooling and the
// game host present to the warden RPCs.
type ConsoleAuth struct {
	secret string
	issuer string
}

func NewConsoleAuth(secret, issuer string) *ConsoleAuth {
	return &ConsoleAuth{secret: secret, issuer: issuer}
}

// IssueToken signs a console token for subject valid for ttl.
func (a *ConsoleAuth) IssueToken(subject string, ttl time.Duration) (string, error) {
	if a == nil || a.secret == "" {
		return "", ErrConsoleNotConfigured
	}
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}

	claims := jwt.MapClaims{
		"iss":  a.issuer,
		"sub":  subject,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
		"caps": []string{ConsoleCapability},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secret))
}

// Verify checks signature, expiry, issuer and the console capability, and
// returns the token subject.
func (a *ConsoleAuth) Verify(tokenString string) (string, error) {
	if a == nil || a.secret == "" {
		return "", ErrConsoleNotConfigured
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConsoleTokenInvalid, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrConsoleTokenInvalid
	}
	if !claims.VerifyIssuer(a.issuer, true) {
		return "", fmt.Errorf("%w: unexpected issuer", ErrConsoleTokenInvalid)
	}
	if !hasCapability(claims["caps"], ConsoleCapability) {
		return "", fmt.Errorf("%w: missing %s capability", ErrConsoleTokenInvalid, ConsoleCapability)
	}

	subject, _ := claims["sub"].(string)
	return subject, nil
}

func hasCapability(raw interface{}, capability string) bool {
	caps, ok := raw.([]interface{})
	if !ok {
		return false
	}
	for _, c := range caps {
		if s, ok := c.(string); ok && s == capability {
			return true
		}
	}
	return false
}
