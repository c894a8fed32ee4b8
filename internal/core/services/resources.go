package services

import (
	"context"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/adapters/persistence/repositories"
	"desaku-api/internal/core/domain"

	"gorm.io/datatypes"
)

const (
	byTanggalDesc = "tanggal DESC, created_at DESC"
	byUrutanAsc   = "urutan ASC, created_at ASC"
)

// BeritaResource describes news articles
func BeritaResource() Resource[models.Berita] {
	return Resource[models.Berita]{
		Name:          "berita",
		SearchColumns: []string{"judul", "isi", "penulis"},
		Filters:       map[string]Filter{"kategori": {Column: "kategori"}},
		Order:         byTanggalDesc,
	}
}

// AgendaResource describes agenda events
func AgendaResource() Resource[models.Agenda] {
	return Resource[models.Agenda]{
		Name:          "agenda",
		SearchColumns: []string{"judul", "deskripsi", "lokasi"},
		Filters:       map[string]Filter{"kategori": {Column: "kategori"}},
		Order:         byTanggalDesc,
	}
}

// FasilitasResource describes facilities
func FasilitasResource() Resource[models.Fasilitas] {
	return Resource[models.Fasilitas]{
		Name:          "fasilitas",
		SearchColumns: []string{"nama", "deskripsi", "alamat"},
		Filters:       map[string]Filter{"kategori": {Column: "kategori"}},
	}
}

// KontakResource describes office contacts
func KontakResource() Resource[models.Kontak] {
	return Resource[models.Kontak]{
		Name:          "kontak",
		SearchColumns: []string{"jenis", "nilai", "label"},
		Filters:       map[string]Filter{"jenis": {Column: "jenis"}},
	}
}

// LokasiResource describes mapped places
func LokasiResource() Resource[models.Lokasi] {
	return Resource[models.Lokasi]{
		Name:          "lokasi",
		SearchColumns: []string{"nama", "alamat"},
	}
}

// ProfilResource describes the village profile
func ProfilResource() Resource[models.ProfilDesa] {
	return Resource[models.ProfilDesa]{
		Name:          "profil",
		SearchColumns: []string{"nama_desa"},
	}
}

// PrestasiResource describes achievements
func PrestasiResource() Resource[models.Prestasi] {
	return Resource[models.Prestasi]{
		Name:          "prestasi",
		SearchColumns: []string{"judul", "deskripsi"},
		Filters:       map[string]Filter{"tingkat": {Column: "tingkat"}},
		Order:         byTanggalDesc,
	}
}

// PerangkatDesaResource describes village staff
func PerangkatDesaResource() Resource[models.PerangkatDesa] {
	return Resource[models.PerangkatDesa]{
		Name:          "perangkat-desa",
		SearchColumns: []string{"nama", "jabatan"},
		Order:         byUrutanAsc,
		New: func() *models.PerangkatDesa {
			return &models.PerangkatDesa{Kontak: datatypes.JSONSlice[models.KontakPerangkat]{}}
		},
	}
}

// PengumumanResource describes announcements
func PengumumanResource() Resource[models.Pengumuman] {
	return Resource[models.Pengumuman]{
		Name:          "pengumuman",
		SearchColumns: []string{"judul", "isi"},
		Filters:       map[string]Filter{"penting": {Column: "penting", Bool: true}},
		Order:         byTanggalDesc,
	}
}

// SejarahResource describes history chapters
func SejarahResource() Resource[models.Sejarah] {
	return Resource[models.Sejarah]{
		Name:          "sejarah",
		SearchColumns: []string{"judul", "isi"},
		Order:         byUrutanAsc,
	}
}

// JenisSuratResource describes the letter-type catalog; nama and kode stay unique
func JenisSuratResource(repo repositories.Repository[models.JenisSurat]) Resource[models.JenisSurat] {
	return Resource[models.JenisSurat]{
		Name:          "jenis-surat",
		SearchColumns: []string{"nama", "kode"},
		Filters: map[string]Filter{
			"aktif":     {Column: "aktif", Bool: true},
			"jenisForm": {Column: "jenis_form"},
		},
		Order: byUrutanAsc,
		New: func() *models.JenisSurat {
			return &models.JenisSurat{Aktif: true}
		},
		BeforeSave: func(ctx context.Context, record *models.JenisSurat) error {
			for column, value := range map[string]string{"nama": record.Nama, "kode": record.Kode} {
				exists, err := repo.Exists(ctx, column, value, record.ID)
				if err != nil {
					return err
				}
				if exists {
					return domain.ErrDuplicateEntry
				}
			}
			return nil
		},
	}
}

// PengajuanSuratResource describes letter applications
func PengajuanSuratResource() Resource[models.PengajuanSurat] {
	return Resource[models.PengajuanSurat]{
		Name:          "pengajuan-surat",
		SearchColumns: []string{"nama", "nik", "telepon_wa"},
		Filters: map[string]Filter{
			"status":     {Column: "status"},
			"jenisSurat": {Column: "jenis_surat"},
		},
		Order: "tanggal_pengajuan DESC",
		Preserve: func(stored, incoming *models.PengajuanSurat) {
			incoming.TanggalPengajuan = stored.TanggalPengajuan
		},
	}
}
