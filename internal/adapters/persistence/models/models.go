package models

import (
	"time"

	"desaku-api/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the server-managed fields shared by every record
type Base struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate always assigns a fresh identifier; client-supplied ids are ignored
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	b.ID = uuid.NewString()
	return nil
}

// GetBase exposes the embedded server fields
func (b *Base) GetBase() *Base {
	return b
}

// Entity is implemented by every persisted record
type Entity interface {
	GetBase() *Base
	TableName() string
}

// AssetOwner is implemented by records that reference uploaded assets
type AssetOwner interface {
	AssetURLs() []string
}

// ============================================================
// Accounts
// ============================================================

// User represents users table
type User struct {
	Base
	Username    string      `gorm:"uniqueIndex;size:50;not null" json:"username" validate:"required,min=3,max=50"`
	Password    string      `gorm:"size:255;not null" json:"-"`
	Nama        string      `gorm:"size:100;not null" json:"nama" validate:"required,max=100"`
	Role        domain.Role `gorm:"size:20;not null;index" json:"role" validate:"required,oneof=admin resident"`
	Telepon     string      `gorm:"size:20" json:"telepon,omitempty" validate:"omitempty,max=20"`
	NIK         string      `gorm:"size:16;index" json:"nik,omitempty" validate:"omitempty,len=16,number"`
	AutoCreated bool        `gorm:"not null" json:"autoCreated"`
}

func (User) TableName() string {
	return "users"
}

// Identity returns the minimal session principal for the user
func (u *User) Identity() *domain.Identity {
	return &domain.Identity{
		ID:       u.ID,
		Nama:     u.Nama,
		Username: u.Username,
		Role:     u.Role,
	}
}

// AutoMigrate creates or updates every table. Each schema is registered exactly once here.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		// Public content
		&Berita{},
		&Agenda{},
		&Fasilitas{},
		&Kontak{},
		&Lokasi{},
		&ProfilDesa{},
		&Prestasi{},
		&PerangkatDesa{},
		&Pengumuman{},
		&Sejarah{},
		// Letters
		&JenisSurat{},
		&PengajuanSurat{},
	)
}
