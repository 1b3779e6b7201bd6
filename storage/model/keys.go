package model

import (
	"time"
)

// SigningKey is a persisted signing key record. The cryptographic material is
// stored in exactly one of two representations depending on the key family:
// asymmetric keys (RSA, EC) carry a PEM-encoded key pair, the symmetric oct
// key carries a base64url-encoded secret.
type SigningKey struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Algorithm is the signature algorithm the key was generated for
	// (RS256, ES256 or HS256); immutable after creation.
	Algorithm string `json:"algorithm"`
	// Type is the JWK key family derived from Algorithm: RSA, EC or oct.
	Type string `json:"type"`
	// Name is a free-text label; the only mutable field.
	Name string `json:"name"`
	// Issuer is the issuer claim downstream token signing embeds.
	Issuer string `json:"issuer"`
	// KID is derived from the key material (RFC 7638 thumbprint), so the
	// same key always yields the same value.
	KID string `gorm:"uniqueIndex" json:"kid"`

	// PublicKeyPEM and PrivateKeyPEM are set for RSA and EC keys only.
	PublicKeyPEM  string `json:"public_key_pem,omitempty"`
	PrivateKeyPEM string `json:"-"`
	// Secret is set for oct keys only, base64url without padding.
	Secret string `json:"-"`
}
