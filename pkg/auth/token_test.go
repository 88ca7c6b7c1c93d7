package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/karaoke-backend/pkg/config"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "karaoke-backend",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseStaffToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	token, err := MintStaffToken(cfg, now, StaffTokenPayload{StaffID: 7, Role: enums.StaffRoleReceptionist})
	require.NoError(t, err)

	claims, err := ParseStaffToken(cfg, token)
	require.NoError(t, err)
	require.EqualValues(t, 7, claims.StaffID)
	require.Equal(t, enums.StaffRoleReceptionist, claims.Role)
	require.Equal(t, "7", claims.Subject)
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, now.Add(30*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestMintStaffTokenValidatesInput(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	_, err := MintStaffToken(cfg, now, StaffTokenPayload{Role: enums.StaffRoleManager})
	require.Error(t, err)

	_, err = MintStaffToken(cfg, now, StaffTokenPayload{StaffID: 1, Role: "owner"})
	require.Error(t, err)

	_, err = MintStaffToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, now, StaffTokenPayload{StaffID: 1, Role: enums.StaffRoleManager})
	require.Error(t, err)
}

func TestParseStaffTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintStaffToken(cfg, time.Now().Add(-2*time.Hour), StaffTokenPayload{StaffID: 1, Role: enums.StaffRoleManager})
	require.NoError(t, err)

	_, err = ParseStaffToken(cfg, token)
	require.Error(t, err)
}

func TestParseStaffTokenRejectsWrongSecretOrIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintStaffToken(cfg, time.Now(), StaffTokenPayload{StaffID: 1, Role: enums.StaffRoleManager})
	require.NoError(t, err)

	other := cfg
	other.Secret = "other"
	_, err = ParseStaffToken(other, token)
	require.Error(t, err)

	other = cfg
	other.Issuer = "someone-else"
	_, err = ParseStaffToken(other, token)
	require.Error(t, err)
}
