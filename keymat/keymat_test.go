package keymat

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	for _, name := range []string{"RS256", "ES256", "HS256"} {
		alg, err := ParseAlgorithm(name)
		require.NoError(t, err)
		assert.Equal(t, name, alg.String())
	}

	_, err := ParseAlgorithm("XX000")
	require.Error(t, err)
	assert.IsType(t, UnsupportedAlgorithmError(""), err)

	_, err = ParseAlgorithm("")
	require.Error(t, err)
	assert.IsType(t, UnsupportedAlgorithmError(""), err)
}

func TestGenerateAsymmetric(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmRS256, AlgorithmES256} {
		m, err := Generate(alg)
		require.NoError(t, err, "generation for %s failed", alg)

		assert.Equal(t, alg, m.Algorithm)
		assert.NotEmpty(t, m.KID)
		assert.Empty(t, m.Secret)
		require.NotEmpty(t, m.PublicKeyPEM)
		require.NotEmpty(t, m.PrivateKeyPEM)

		pubBlock, _ := pem.Decode(m.PublicKeyPEM)
		require.NotNil(t, pubBlock, "public pem for %s does not decode", alg)
		privBlock, _ := pem.Decode(m.PrivateKeyPEM)
		require.NotNil(t, privBlock, "private pem for %s does not decode", alg)

		kid, ok := m.Key.KeyID()
		require.True(t, ok)
		assert.Equal(t, m.KID, kid)
	}
}

func TestGenerateSymmetric(t *testing.T) {
	m, err := Generate(AlgorithmHS256)
	require.NoError(t, err)

	assert.Empty(t, m.PublicKeyPEM)
	assert.Empty(t, m.PrivateKeyPEM)
	require.NotEmpty(t, m.Secret)

	raw, err := base64.RawURLEncoding.DecodeString(m.Secret)
	require.NoError(t, err)
	assert.Len(t, raw, octKeyBytes)
}

func TestGenerateUnsupported(t *testing.T) {
	_, err := Generate(Algorithm(42))
	require.Error(t, err)
	assert.IsType(t, UnsupportedAlgorithmError(""), err)
}

// The kid must be derivable deterministically from the key material: the same
// key imported twice yields the same thumbprint.
func TestKIDDeterministic(t *testing.T) {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	_, kid1, err := importKey(raw, jwa.ES256())
	require.NoError(t, err)
	_, kid2, err := importKey(raw, jwa.ES256())
	require.NoError(t, err)
	assert.Equal(t, kid1, kid2)
}

func TestGeneratedKeysDiffer(t *testing.T) {
	a, err := Generate(AlgorithmES256)
	require.NoError(t, err)
	b, err := Generate(AlgorithmES256)
	require.NoError(t, err)
	assert.NotEqual(t, a.KID, b.KID)
}

func TestKeyTypeMapping(t *testing.T) {
	assert.Equal(t, "RSA", AlgorithmRS256.KeyType())
	assert.Equal(t, "EC", AlgorithmES256.KeyType())
	assert.Equal(t, "oct", AlgorithmHS256.KeyType())

	assert.False(t, AlgorithmRS256.Symmetric())
	assert.False(t, AlgorithmES256.Symmetric())
	assert.True(t, AlgorithmHS256.Symmetric())
}

func TestGeneratedJWKRoundtrip(t *testing.T) {
	m, err := Generate(AlgorithmRS256)
	require.NoError(t, err)

	pub, err := jwk.PublicKeyOf(m.Key)
	require.NoError(t, err)
	kid, ok := pub.KeyID()
	require.True(t, ok)
	assert.Equal(t, m.KID, kid)
}
