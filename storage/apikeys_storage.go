package storage

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/go-idp/keybridge/storage/model"
)

// APIKeyStorage implements model.APIKeyStore using GORM
type APIKeyStorage struct {
	db *gorm.DB
}

// Create stores a new api key. If no id is given a random uuid is assigned.
// The permission set is validated before anything touches the database.
func (s *APIKeyStorage) Create(req model.CreateAPIKey) (*model.APIKey, error) {
	var permissions model.Permissions
	if req.Permissions != nil {
		if err := req.Permissions.Validate(); err != nil {
			return nil, err
		}
		permissions = *req.Permissions
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	key := model.APIKey{
		ID:          id,
		KeyManager:  req.KeyManager,
		Permissions: permissions,
		MetaData:    req.MetaData,
		TenantID:    req.TenantID,
	}
	if err := s.db.Create(&key).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, model.AlreadyExistsErrorFmt("api key already exists: %s", id)
		}
		return nil, errors.Wrap(err, "api_keys: create failed")
	}
	return &key, nil
}

// List returns all api keys
func (s *APIKeyStorage) List() ([]model.APIKey, error) {
	var keys []model.APIKey
	if err := s.db.Find(&keys).Error; err != nil {
		return nil, errors.Wrap(err, "api_keys: list failed")
	}
	return keys, nil
}

// Get returns an api key by id
func (s *APIKeyStorage) Get(id string) (*model.APIKey, error) {
	if id == "" {
		return nil, model.InvalidArgumentError("api key id must not be empty")
	}
	var key model.APIKey
	if err := s.db.First(&key, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("api key not found: %s", id)
		}
		return nil, errors.Wrap(err, "api_keys: get failed")
	}
	return &key, nil
}

// Update applies a partial update. A nil Permissions leaves the stored
// permission set untouched; a non-nil one replaces it wholesale after
// validation. MetaData behaves the same way.
func (s *APIKeyStorage) Update(id string, req model.UpdateAPIKey) (*model.APIKey, error) {
	key, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req.Permissions != nil {
		if err = req.Permissions.Validate(); err != nil {
			return nil, err
		}
		key.Permissions = *req.Permissions
	}
	if req.MetaData != nil {
		key.MetaData = req.MetaData
	}
	if err = s.db.Save(key).Error; err != nil {
		return nil, errors.Wrap(err, "api_keys: update failed")
	}
	return key, nil
}

// Delete removes an api key by id
func (s *APIKeyStorage) Delete(id string) error {
	if id == "" {
		return model.InvalidArgumentError("api key id must not be empty")
	}
	res := s.db.Delete(&model.APIKey{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "api_keys: delete failed")
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("api key not found: %s", id)
	}
	return nil
}
