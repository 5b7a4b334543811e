// Package attendancecode issues and verifies the rotating code shown as a QR
// at the office. Codes are TOTP values over a shared server secret.
package attendancecode

import (
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var ErrInvalidCode = errors.New("invalid or expired attendance code")

const issuer = "HR Admin"

type Code struct {
	Value     string    `json:"code"`
	Payload   string    `json:"qr_payload"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int       `json:"expires_in"`
}

type Generator struct {
	secret string
	period uint
}

// New builds a Generator. An empty secret yields a random one that only lives
// as long as the process.
func New(secret string, periodSeconds uint) (*Generator, error) {
	if periodSeconds == 0 {
		periodSeconds = 30
	}
	if secret == "" {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      issuer,
			AccountName: "office",
			Period:      periodSeconds,
		})
		if err != nil {
			return nil, fmt.Errorf("generate attendance secret: %w", err)
		}
		return &Generator{secret: key.Secret(), period: periodSeconds}, nil
	}
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(secret))
	return &Generator{secret: encoded, period: periodSeconds}, nil
}

func (g *Generator) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    g.period,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Current returns the code valid at now.
func (g *Generator) Current(now time.Time) (Code, error) {
	value, err := totp.GenerateCodeCustom(g.secret, now, g.opts())
	if err != nil {
		return Code{}, fmt.Errorf("generate attendance code: %w", err)
	}
	step := int64(g.period)
	expiresAt := time.Unix((now.Unix()/step+1)*step, 0).UTC()
	return Code{
		Value:     value,
		Payload:   "HRATT:" + value,
		ExpiresAt: expiresAt,
		ExpiresIn: int(expiresAt.Sub(now).Round(time.Second).Seconds()),
	}, nil
}

// Verify accepts either the bare code or the QR payload. One period of skew
// either side is tolerated.
func (g *Generator) Verify(code string, now time.Time) error {
	code = strings.TrimPrefix(strings.TrimSpace(code), "HRATT:")
	if code == "" {
		return ErrInvalidCode
	}
	ok, err := totp.ValidateCustom(code, g.secret, now, g.opts())
	if err != nil || !ok {
		return ErrInvalidCode
	}
	return nil
}
