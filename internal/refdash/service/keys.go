package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/toshilabs/toshiref/pkg/cryptox"
)

var (
	// ErrInvalidKey is returned for a wrong shared key or a wrong/missing
	// one-time code. The caller has to re-enter credentials.
	ErrInvalidKey = errors.New("invalid authentication key")

	errNoKeyConfigured = errors.New("either AUTH_SHARED_KEY or AUTH_SHARED_KEY_HASH must be set")
)

// KeyValidatorConfig configures which pre-shared key is accepted.
type KeyValidatorConfig struct {
	// SharedKey is compared in constant time. Ignored if SharedKeyHash is set.
	SharedKey string
	// SharedKeyHash is an Argon2id hash produced by refdash-admin hash-key.
	SharedKeyHash string
	// TOTPSecret, when set, makes a valid one-time code mandatory.
	TOTPSecret string

	Hasher *cryptox.SecretHasher
	Now    func() time.Time
}

// KeyValidator decides whether a presented key may start a login attempt.
type KeyValidator struct {
	cfg KeyValidatorConfig
}

func NewKeyValidator(cfg KeyValidatorConfig) (*KeyValidator, error) {
	if cfg.SharedKey == "" && cfg.SharedKeyHash == "" {
		return nil, errNoKeyConfigured
	}
	if cfg.SharedKeyHash != "" && cfg.Hasher == nil {
		return nil, errors.New("key validator: hasher required for SharedKeyHash")
	}
	if cfg.TOTPSecret != "" {
		cfg.TOTPSecret = strings.ToUpper(strings.ReplaceAll(cfg.TOTPSecret, " ", ""))
	}
	return &KeyValidator{cfg: cfg}, nil
}

// RequiresOTP reports whether Validate expects a one-time code.
func (v *KeyValidator) RequiresOTP() bool { return v.cfg.TOTPSecret != "" }

// Validate returns nil if presented (and otpCode, when required) are valid.
// Mismatches are ErrInvalidKey; anything else is a configuration problem.
func (v *KeyValidator) Validate(presented, otpCode string) error {
	if presented == "" {
		return ErrInvalidKey
	}

	switch {
	case v.cfg.SharedKeyHash != "":
		err := v.cfg.Hasher.Verify(presented, v.cfg.SharedKeyHash)
		if errors.Is(err, cryptox.ErrSecretMismatch) {
			return ErrInvalidKey
		}
		if err != nil {
			return fmt.Errorf("verify shared key: %w", err)
		}
	default:
		// Hash both sides so the comparison does not leak the key length.
		got := sha256.Sum256([]byte(presented))
		want := sha256.Sum256([]byte(v.cfg.SharedKey))
		if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
			return ErrInvalidKey
		}
	}

	if v.RequiresOTP() {
		ok, err := totp.ValidateCustom(strings.TrimSpace(otpCode), v.cfg.TOTPSecret, v.now(), totp.ValidateOpts{
			Period:    30,
			Skew:      1,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		if err != nil || !ok {
			return ErrInvalidKey
		}
	}
	return nil
}

func (v *KeyValidator) now() time.Time {
	if v.cfg.Now != nil {
		return v.cfg.Now()
	}
	return time.Now()
}
