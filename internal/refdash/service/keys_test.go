package service

import (
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/toshilabs/toshiref/pkg/cryptox"
)

func TestNewKeyValidator_RequiresKey(t *testing.T) {
	_, err := NewKeyValidator(KeyValidatorConfig{})
	require.Error(t, err)

	_, err = NewKeyValidator(KeyValidatorConfig{SharedKeyHash: "argon2id$..."})
	require.Error(t, err, "hash without hasher")
}

func TestKeyValidator_Plain(t *testing.T) {
	v, err := NewKeyValidator(KeyValidatorConfig{SharedKey: "shared-secret"})
	require.NoError(t, err)
	require.False(t, v.RequiresOTP())

	require.NoError(t, v.Validate("shared-secret", ""))
	require.ErrorIs(t, v.Validate("shared-secre", ""), ErrInvalidKey)
	require.ErrorIs(t, v.Validate("", ""), ErrInvalidKey)
}

func TestKeyValidator_Hashed(t *testing.T) {
	hasher := cryptox.NewSecretHasher("pepper")
	hash, err := hasher.Hash("shared-secret")
	require.NoError(t, err)

	v, err := NewKeyValidator(KeyValidatorConfig{SharedKeyHash: hash, Hasher: hasher})
	require.NoError(t, err)

	require.NoError(t, v.Validate("shared-secret", ""))
	require.ErrorIs(t, v.Validate("wrong", ""), ErrInvalidKey)

	broken, err := NewKeyValidator(KeyValidatorConfig{SharedKeyHash: "not-a-hash", Hasher: hasher})
	require.NoError(t, err)
	err = broken.Validate("shared-secret", "")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidKey)
}

func TestKeyValidator_TOTP(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"
	clock := newFakeClock()

	v, err := NewKeyValidator(KeyValidatorConfig{
		SharedKey:  "shared-secret",
		TOTPSecret: "jbsw y3dp ehpk 3pxp",
		Now:        clock.Now,
	})
	require.NoError(t, err)
	require.True(t, v.RequiresOTP())

	code, err := totp.GenerateCodeCustom(secret, clock.Now(), totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)

	require.NoError(t, v.Validate("shared-secret", code))
	require.ErrorIs(t, v.Validate("shared-secret", ""), ErrInvalidKey)
	require.ErrorIs(t, v.Validate("wrong", code), ErrInvalidKey)

	clock.Advance(5 * time.Minute)
	require.ErrorIs(t, v.Validate("shared-secret", code), ErrInvalidKey)
}
