package storage

import (
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/go-idp/keybridge/keymat"
	"github.com/go-idp/keybridge/storage/model"
)

// SigningKeyStorage implements model.SigningKeyStore using GORM. All
// cryptographic work is delegated to the keymat package; this type only owns
// the persisted records.
type SigningKeyStorage struct {
	db *gorm.DB
}

// Generate creates key material for the requested algorithm and persists the
// resulting record in a single transaction: either the full record is
// written or nothing is. On success the private JWK form is also returned
// so the caller can hand it out once.
func (s *SigningKeyStorage) Generate(id, algorithm, name, issuer string) (*model.SigningKey, jwk.Key, error) {
	if id == "" {
		return nil, nil, model.InvalidArgumentError("key id must not be empty")
	}
	alg, err := keymat.ParseAlgorithm(algorithm)
	if err != nil {
		return nil, nil, err
	}
	material, err := keymat.Generate(alg)
	if err != nil {
		return nil, nil, err
	}

	key := model.SigningKey{
		ID:        id,
		Algorithm: alg.String(),
		Type:      alg.KeyType(),
		Name:      name,
		Issuer:    issuer,
		KID:       material.KID,
	}
	if alg.Symmetric() {
		key.Secret = material.Secret
	} else {
		key.PublicKeyPEM = string(material.PublicKeyPEM)
		key.PrivateKeyPEM = string(material.PrivateKeyPEM)
	}

	err = s.db.Transaction(
		func(tx *gorm.DB) error {
			return tx.Create(&key).Error
		},
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, nil, model.AlreadyExistsErrorFmt("signing key already exists: %s", id)
		}
		return nil, nil, errors.Wrap(err, "signing_keys: create failed")
	}
	return &key, material.Key, nil
}

// List returns all stored keys. No keys is an empty result, not an error.
func (s *SigningKeyStorage) List() ([]model.SigningKey, error) {
	var keys []model.SigningKey
	if err := s.db.Find(&keys).Error; err != nil {
		return nil, errors.Wrap(err, "signing_keys: list failed")
	}
	return keys, nil
}

// Get returns a key by id
func (s *SigningKeyStorage) Get(id string) (*model.SigningKey, error) {
	if id == "" {
		return nil, model.InvalidArgumentError("key id must not be empty")
	}
	var key model.SigningKey
	if err := s.db.First(&key, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("signing key not found: %s", id)
		}
		return nil, errors.Wrap(err, "signing_keys: get failed")
	}
	return &key, nil
}

// UpdateName applies a partial update: a nil name leaves the stored value
// unchanged. Algorithm, kid and key material are immutable once generated.
func (s *SigningKeyStorage) UpdateName(id string, name *string) (*model.SigningKey, error) {
	key, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if name == nil {
		return key, nil
	}
	key.Name = *name
	if err = s.db.Save(key).Error; err != nil {
		return nil, errors.Wrap(err, "signing_keys: update failed")
	}
	return key, nil
}

// Delete irreversibly removes a key by id
func (s *SigningKeyStorage) Delete(id string) error {
	if id == "" {
		return model.InvalidArgumentError("key id must not be empty")
	}
	res := s.db.Delete(&model.SigningKey{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "signing_keys: delete failed")
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("signing key not found: %s", id)
	}
	return nil
}
