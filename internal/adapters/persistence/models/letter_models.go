package models

import (
	"time"

	"desaku-api/internal/core/domain"
)

// JenisSurat is a catalog entry for a kind of administrative letter
type JenisSurat struct {
	Base
	Nama        string          `gorm:"size:100;not null;uniqueIndex" json:"nama" validate:"required,max=100"`
	Kode        string          `gorm:"size:20;not null;uniqueIndex" json:"kode" validate:"required,max=20"`
	Deskripsi   string          `gorm:"type:text" json:"deskripsi"`
	JenisForm   domain.FormKind `gorm:"size:20;not null" json:"jenisForm" validate:"required,oneof=general domicile relocation"`
	Aktif       bool            `gorm:"not null;index" json:"aktif"`
	Urutan      int             `gorm:"index" json:"urutan"`
	Persyaratan string          `gorm:"type:text" json:"persyaratan"`
}

func (JenisSurat) TableName() string { return "jenis_surat" }

// PengajuanSurat is a citizen's request for a letter
type PengajuanSurat struct {
	Base
	Nama             string                   `gorm:"size:100;not null" json:"nama" validate:"required,max=100"`
	NIK              string                   `gorm:"size:16;not null;index" json:"nik" validate:"required,len=16,number"`
	TeleponWA        string                   `gorm:"size:20;not null" json:"teleponWA" validate:"required,min=9,max=16"`
	JenisSurat       string                   `gorm:"type:char(36);not null;index" json:"jenisSurat" validate:"required"`
	FotoKTP          string                   `gorm:"size:500" json:"fotoKTP"`
	FotoKK           string                   `gorm:"size:500" json:"fotoKK"`
	SuratPengantarRT string                   `gorm:"size:500" json:"suratPengantarRT"`
	Keperluan        string                   `gorm:"type:text" json:"keperluan"`
	CatatanAdmin     string                   `gorm:"type:text" json:"catatanAdmin"`
	Status           domain.ApplicationStatus `gorm:"size:20;not null;index" json:"status" validate:"required,oneof=pending processing approved rejected"`
	TanggalPengajuan time.Time                `gorm:"not null;index" json:"tanggalPengajuan"`
}

func (PengajuanSurat) TableName() string { return "pengajuan_surat" }

func (p *PengajuanSurat) AssetURLs() []string {
	return []string{p.FotoKTP, p.FotoKK, p.SuratPengantarRT}
}
