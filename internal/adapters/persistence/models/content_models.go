package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Berita is a news article
type Berita struct {
	Base
	Judul    string `gorm:"size:255;not null" json:"judul" validate:"required,max=255"`
	Isi      string `gorm:"type:text;not null" json:"isi" validate:"required"`
	Tanggal  string `gorm:"size:40;not null;index" json:"tanggal" validate:"required,tanggal"`
	Gambar   string `gorm:"size:500" json:"gambar"`
	Kategori string `gorm:"size:50;index" json:"kategori"`
	Penulis  string `gorm:"size:100" json:"penulis"`
}

func (Berita) TableName() string { return "berita" }

func (b *Berita) AssetURLs() []string { return []string{b.Gambar} }

// Agenda is a scheduled village event
type Agenda struct {
	Base
	Judul     string `gorm:"size:255;not null" json:"judul" validate:"required,max=255"`
	Deskripsi string `gorm:"type:text" json:"deskripsi"`
	Tanggal   string `gorm:"size:40;not null;index" json:"tanggal" validate:"required,tanggal"`
	Waktu     string `gorm:"size:50" json:"waktu"`
	Lokasi    string `gorm:"size:255" json:"lokasi"`
	Kategori  string `gorm:"size:50;index" json:"kategori"`
}

func (Agenda) TableName() string { return "agenda" }

// Fasilitas is a public facility
type Fasilitas struct {
	Base
	Nama      string `gorm:"size:255;not null" json:"nama" validate:"required,max=255"`
	Deskripsi string `gorm:"type:text" json:"deskripsi"`
	Gambar    string `gorm:"size:500" json:"gambar"`
	Kategori  string `gorm:"size:50;index" json:"kategori"`
	Alamat    string `gorm:"size:255" json:"alamat"`
}

func (Fasilitas) TableName() string { return "fasilitas" }

func (f *Fasilitas) AssetURLs() []string { return []string{f.Gambar} }

// Kontak is a public contact channel of the village office
type Kontak struct {
	Base
	Jenis string `gorm:"size:50;not null;index" json:"jenis" validate:"required,max=50"`
	Nilai string `gorm:"size:255;not null" json:"nilai" validate:"required,max=255"`
	Label string `gorm:"size:100" json:"label"`
	Ikon  string `gorm:"size:100" json:"ikon"`
}

func (Kontak) TableName() string { return "kontak" }

// Koordinat is a lat/lng pair; both halves are required
type Koordinat struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

// Lokasi is a mapped place
type Lokasi struct {
	Base
	Nama      string    `gorm:"size:255;not null" json:"nama" validate:"required,max=255"`
	Alamat    string    `gorm:"size:500;not null" json:"alamat" validate:"required"`
	Koordinat Koordinat `gorm:"embedded;embeddedPrefix:koordinat_" json:"koordinat"`
	Deskripsi string    `gorm:"type:text" json:"deskripsi"`
	LinkMaps  string    `gorm:"size:500" json:"linkMaps"`
	EmbedMaps string    `gorm:"type:text" json:"embedMaps"`
}

func (Lokasi) TableName() string { return "lokasi" }

// ProfilDesa is the village profile
type ProfilDesa struct {
	Base
	NamaDesa       string `gorm:"size:150;not null" json:"namaDesa" validate:"required,max=150"`
	Visi           string `gorm:"type:text" json:"visi"`
	Misi           string `gorm:"type:text" json:"misi"`
	Deskripsi      string `gorm:"type:text" json:"deskripsi"`
	LuasWilayah    string `gorm:"size:50" json:"luasWilayah"`
	JumlahPenduduk int    `json:"jumlahPenduduk" validate:"gte=0"`
	Gambar         string `gorm:"size:500" json:"gambar"`
	Logo           string `gorm:"size:500" json:"logo"`
}

func (ProfilDesa) TableName() string { return "profil_desa" }

func (p *ProfilDesa) AssetURLs() []string { return []string{p.Gambar, p.Logo} }

// Prestasi is a village achievement
type Prestasi struct {
	Base
	Judul     string `gorm:"size:255;not null" json:"judul" validate:"required,max=255"`
	Deskripsi string `gorm:"type:text" json:"deskripsi"`
	Tanggal   string `gorm:"size:40;not null;index" json:"tanggal" validate:"required,tanggal"`
	Tingkat   string `gorm:"size:50;index" json:"tingkat"`
	Gambar    string `gorm:"size:500" json:"gambar"`
}

func (Prestasi) TableName() string { return "prestasi" }

func (p *Prestasi) AssetURLs() []string { return []string{p.Gambar} }

// KontakPerangkat is one contact entry of a staff member
type KontakPerangkat struct {
	Tipe  string `json:"tipe" validate:"required,oneof=phone email"`
	Nilai string `json:"nilai" validate:"required"`
}

// PerangkatDesa is a village staff member
type PerangkatDesa struct {
	Base
	Nama        string                               `gorm:"size:150;not null" json:"nama" validate:"required,max=150"`
	Jabatan     string                               `gorm:"size:150;not null" json:"jabatan" validate:"required,max=150"`
	Foto        string                               `gorm:"size:500" json:"foto"`
	TandaTangan string                               `gorm:"size:500" json:"tandaTangan"`
	Kontak      datatypes.JSONSlice[KontakPerangkat] `gorm:"type:json" json:"kontak" validate:"dive"`
	Urutan      int                                  `gorm:"index" json:"urutan"`
}

func (PerangkatDesa) TableName() string { return "perangkat_desa" }

func (p *PerangkatDesa) AssetURLs() []string { return []string{p.Foto, p.TandaTangan} }

// BeforeSave keeps kontak an empty list instead of null
func (p *PerangkatDesa) BeforeSave(tx *gorm.DB) error {
	p.normalize()
	return nil
}

// AfterFind keeps kontak an empty list instead of null
func (p *PerangkatDesa) AfterFind(tx *gorm.DB) error {
	p.normalize()
	return nil
}

func (p *PerangkatDesa) normalize() {
	if p.Kontak == nil {
		p.Kontak = datatypes.JSONSlice[KontakPerangkat]{}
	}
}

// Pengumuman is a public announcement
type Pengumuman struct {
	Base
	Judul   string `gorm:"size:255;not null" json:"judul" validate:"required,max=255"`
	Isi     string `gorm:"type:text;not null" json:"isi" validate:"required"`
	Tanggal string `gorm:"size:40;not null;index" json:"tanggal" validate:"required,tanggal"`
	Penting bool   `gorm:"not null" json:"penting"`
}

func (Pengumuman) TableName() string { return "pengumuman" }

// Sejarah is a chapter of the village history
type Sejarah struct {
	Base
	Judul  string `gorm:"size:255;not null" json:"judul" validate:"required,max=255"`
	Isi    string `gorm:"type:text;not null" json:"isi" validate:"required"`
	Tahun  string `gorm:"size:20" json:"tahun"`
	Gambar string `gorm:"size:500" json:"gambar"`
	Urutan int    `gorm:"index" json:"urutan"`
}

func (Sejarah) TableName() string { return "sejarah" }

func (s *Sejarah) AssetURLs() []string { return []string{s.Gambar} }
