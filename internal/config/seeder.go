package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/core/domain"
	"desaku-api/internal/pkg/password"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seeds/jenis_surat.yaml
var letterCatalog []byte

// ErrMissingAdminPassword is returned when no admin exists and none can be seeded
var ErrMissingAdminPassword = errors.New("ADMIN_PASSWORD is required to seed the admin account")

type letterCatalogFile struct {
	JenisSurat []letterCatalogEntry `yaml:"jenis_surat"`
}

type letterCatalogEntry struct {
	Nama        string `yaml:"nama"`
	Kode        string `yaml:"kode"`
	JenisForm   string `yaml:"jenis_form"`
	Urutan      int    `yaml:"urutan"`
	Deskripsi   string `yaml:"deskripsi"`
	Persyaratan string `yaml:"persyaratan"`
}

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg SeedConfig) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders. Each step is skipped when its data already exists.
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(ctx); err != nil {
		if errors.Is(err, ErrMissingAdminPassword) {
			log.Printf("⚠️ Admin seeder skipped: %v", err)
		} else {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	if err := s.seedLetterTypes(ctx); err != nil {
		return fmt.Errorf("seed letter types: %w", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

func (s *Seeder) seedAdminUser(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if s.cfg.AdminPassword == "" {
		return ErrMissingAdminPassword
	}

	hashedPassword, err := password.Hash(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: s.cfg.AdminUsername,
		Password: hashedPassword,
		Nama:     s.cfg.AdminName,
		Role:     domain.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

func (s *Seeder) seedLetterTypes(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.JenisSurat{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var catalog letterCatalogFile
	if err := yaml.Unmarshal(letterCatalog, &catalog); err != nil {
		return fmt.Errorf("parse letter catalog: %w", err)
	}

	letterTypes := make([]*models.JenisSurat, 0, len(catalog.JenisSurat))
	for _, e := range catalog.JenisSurat {
		letterTypes = append(letterTypes, &models.JenisSurat{
			Nama:        e.Nama,
			Kode:        e.Kode,
			JenisForm:   domain.FormKind(e.JenisForm),
			Aktif:       true,
			Urutan:      e.Urutan,
			Deskripsi:   e.Deskripsi,
			Persyaratan: e.Persyaratan,
		})
	}
	if len(letterTypes) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Create(&letterTypes).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d letter types", len(letterTypes))
	return nil
}
