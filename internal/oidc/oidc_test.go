package oidc

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	issuer   = "https://id.example.test"
	clientID = "users-console"
)

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestStaticVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	v := NewStaticVerifier(issuer, clientID, &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}})
	ctx := context.Background()
	now := time.Now()
	claims := func() jwt.MapClaims {
		return jwt.MapClaims{"iss": issuer, "aud": clientID, "sub": "operator-7", "iat": now.Unix(), "exp": now.Add(time.Minute).Unix()}
	}

	tok, err := v.Verify(ctx, sign(t, key, claims()))
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, tok.Claims(&got))
	require.Equal(t, "operator-7", got["sub"])

	_, err = v.Verify(ctx, sign(t, other, claims()))
	require.Error(t, err, "wrong key")

	c := claims()
	c["aud"] = "someone-else"
	_, err = v.Verify(ctx, sign(t, key, c))
	require.Error(t, err, "wrong audience")

	c = claims()
	c["exp"] = now.Add(-time.Minute).Unix()
	_, err = v.Verify(ctx, sign(t, key, c))
	require.Error(t, err, "expired")

	_, err = v.Verify(ctx, "not-a-token")
	require.Error(t, err)
}
