package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	KeyValueScopeGlobal = ""
	KeyValueScopeOTP    = "otp"

	KeyValueKeyOTPTTL           = "ttl"
	KeyValueKeyOTPCodeLength    = "code_length"
	KeyValueKeyOTPSweepInterval = "sweep_interval"
)

// KeyValue stores arbitrary runtime settings as scoped key-value data.
//
// Values are serialized with GORM's json serializer, which uses the database
// JSON type where available (PostgreSQL, MySQL) and falls back to TEXT
// elsewhere (SQLite). The Scope field namespaces keys so different features
// cannot collide.
type KeyValue struct {
	CreatedAt int            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int            `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Scope groups keys by namespace; empty string is the global scope.
	Scope string `gorm:"primaryKey" json:"scope"`

	// Key is the identifier within a scope.
	Key string `gorm:"primaryKey" json:"key"`

	// Value is stored as native JSON/JSONB (where supported) using datatypes.JSON.
	Value datatypes.JSON `json:"value"`
}
