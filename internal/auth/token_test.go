package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syndic-console/reclamation-service/internal/domain"
)

func TestTokenRoundTripCarriesActor(t *testing.T) {
	apt := "apt-atlas-1a"
	tm := NewTokenManager("secret", 30)
	actor := domain.Actor{ID: "res-1", Name: "Salma", Role: domain.RoleResident, ApartmentID: &apt}

	token, expires, err := tm.GenerateToken(actor)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expires, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, claims.Actor())
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", 5).GenerateToken(domain.Actor{ID: "syn-1", Role: domain.RoleSyndic})
	require.NoError(t, err)

	_, err = NewTokenManager("two", 5).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	token, _, err := tm.GenerateToken(domain.Actor{ID: "syn-1", Role: domain.RoleSyndic})
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenNeedsRole(t *testing.T) {
	_, _, err := NewTokenManager("secret", 5).GenerateToken(domain.Actor{ID: "x", Role: "ADMIN"})
	assert.Error(t, err)
}
