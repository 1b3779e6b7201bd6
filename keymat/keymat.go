// Package keymat generates signing key material and renders it in both a
// JWK-style form and the traditional PEM encoding. It is purely
// computational: no state, safe for unbounded concurrent use.
package keymat

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/pkg/errors"
)

// Algorithm is the closed set of supported signing algorithms. Requested
// algorithm strings are resolved once at the boundary via ParseAlgorithm;
// everything downstream switches on the variant.
type Algorithm int

const (
	// AlgorithmRS256 generates a 2048-bit RSA key pair
	AlgorithmRS256 Algorithm = iota
	// AlgorithmES256 generates an EC key pair on curve P-256
	AlgorithmES256
	// AlgorithmHS256 generates a 256-bit symmetric key
	AlgorithmHS256
)

const (
	rsaKeyBits   = 2048
	octKeyBytes  = 32
	keyUsageSign = "sig"
)

// String returns the JOSE name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmRS256:
		return "RS256"
	case AlgorithmES256:
		return "ES256"
	case AlgorithmHS256:
		return "HS256"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// KeyType returns the JWK key family for the algorithm: RSA, EC or oct.
func (a Algorithm) KeyType() string {
	switch a {
	case AlgorithmRS256:
		return "RSA"
	case AlgorithmES256:
		return "EC"
	case AlgorithmHS256:
		return "oct"
	default:
		return ""
	}
}

// Symmetric reports whether the algorithm uses a shared secret instead of a
// key pair.
func (a Algorithm) Symmetric() bool {
	return a == AlgorithmHS256
}

// UnsupportedAlgorithmError is the error returned when key generation is
// requested for an algorithm outside the supported set
type UnsupportedAlgorithmError string

// Error implements the error interface
func (e UnsupportedAlgorithmError) Error() string {
	return string(e)
}

// ParseAlgorithm resolves an algorithm name into its Algorithm variant. Any
// name outside the supported set fails with UnsupportedAlgorithmError.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "RS256":
		return AlgorithmRS256, nil
	case "ES256":
		return AlgorithmES256, nil
	case "HS256":
		return AlgorithmHS256, nil
	default:
		return 0, UnsupportedAlgorithmError(fmt.Sprintf("unsupported algorithm '%s'", s))
	}
}

// Material is freshly generated key material in both representations. For
// asymmetric algorithms the PEM fields are set and Secret is empty; for the
// symmetric algorithm only Secret is set.
type Material struct {
	Algorithm Algorithm
	// KID is the RFC 7638 thumbprint of the key, so the same key material
	// always yields the same identifier.
	KID string
	// Key is the private JWK with kid, alg and use populated.
	Key jwk.Key

	PublicKeyPEM  []byte
	PrivateKeyPEM []byte
	// Secret is the raw symmetric key, base64url-encoded without padding.
	Secret string
}

// Generate produces cryptographically fresh key material for the algorithm.
func Generate(alg Algorithm) (*Material, error) {
	switch alg {
	case AlgorithmRS256:
		return generateRSA()
	case AlgorithmES256:
		return generateEC()
	case AlgorithmHS256:
		return generateOct()
	default:
		return nil, UnsupportedAlgorithmError(fmt.Sprintf("unsupported algorithm '%s'", alg))
	}
}

func generateRSA() (*Material, error) {
	raw, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, errors.Wrap(err, "keymat: rsa key generation failed")
	}
	key, kid, err := importKey(raw, jwa.RS256())
	if err != nil {
		return nil, err
	}
	pub, priv, err := encodePEMPair(&raw.PublicKey, raw)
	if err != nil {
		return nil, err
	}
	return &Material{
		Algorithm:     AlgorithmRS256,
		KID:           kid,
		Key:           key,
		PublicKeyPEM:  pub,
		PrivateKeyPEM: priv,
	}, nil
}

func generateEC() (*Material, error) {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "keymat: ec key generation failed")
	}
	key, kid, err := importKey(raw, jwa.ES256())
	if err != nil {
		return nil, err
	}
	pub, priv, err := encodePEMPair(&raw.PublicKey, raw)
	if err != nil {
		return nil, err
	}
	return &Material{
		Algorithm:     AlgorithmES256,
		KID:           kid,
		Key:           key,
		PublicKeyPEM:  pub,
		PrivateKeyPEM: priv,
	}, nil
}

func generateOct() (*Material, error) {
	raw := make([]byte, octKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, errors.Wrap(err, "keymat: could not read random source")
	}
	key, kid, err := importKey(raw, jwa.HS256())
	if err != nil {
		return nil, err
	}
	return &Material{
		Algorithm: AlgorithmHS256,
		KID:       kid,
		Key:       key,
		Secret:    base64.RawURLEncoding.EncodeToString(raw),
	}, nil
}

// importKey converts raw key material into a JWK and assigns kid, alg and use.
func importKey(raw any, alg jwa.SignatureAlgorithm) (jwk.Key, string, error) {
	key, err := jwk.Import(raw)
	if err != nil {
		return nil, "", errors.Wrap(err, "keymat: could not import key material")
	}
	if err = jwk.AssignKeyID(key); err != nil {
		return nil, "", errors.Wrap(err, "keymat: could not compute key thumbprint")
	}
	if err = key.Set(jwk.AlgorithmKey, alg); err != nil {
		return nil, "", errors.Wrap(err, "keymat: could not set key algorithm")
	}
	if err = key.Set(jwk.KeyUsageKey, keyUsageSign); err != nil {
		return nil, "", errors.Wrap(err, "keymat: could not set key usage")
	}
	kid, ok := key.KeyID()
	if !ok {
		return nil, "", errors.New("keymat: key has no kid after assignment")
	}
	return key, kid, nil
}

func encodePEMPair(pub, priv any) (pubPEM, privPEM []byte, err error) {
	if pubPEM, err = jwk.EncodePEM(pub); err != nil {
		return nil, nil, errors.Wrap(err, "keymat: could not encode public key pem")
	}
	if privPEM, err = jwk.EncodePEM(priv); err != nil {
		return nil, nil, errors.Wrap(err, "keymat: could not encode private key pem")
	}
	return pubPEM, privPEM, nil
}
