package services

import (
	"context"
	"time"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// Record counts keyed by resource name
	Records map[string]int64 `json:"records"`

	// Accounts
	TotalUsers     int64 `json:"totalUsers"`
	TotalAdmins    int64 `json:"totalAdmins"`
	TotalResidents int64 `json:"totalResidents"`

	// Letter applications
	Applications          map[domain.ApplicationStatus]int64 `json:"applications"`
	ApplicationsThisMonth int64                              `json:"applicationsThisMonth"`

	// Recent Activity
	RecentApplications []ApplicationSummary `json:"recentApplications"`
}

// ApplicationSummary represents an application row on the dashboard
type ApplicationSummary struct {
	ID               string                   `json:"id"`
	Nama             string                   `json:"nama"`
	JenisSurat       string                   `json:"jenisSurat"`
	Status           domain.ApplicationStatus `json:"status"`
	TanggalPengajuan time.Time                `json:"tanggalPengajuan"`
}

// dashboardTables lists the record kinds counted on the dashboard
var dashboardTables = []struct {
	name  string
	model any
}{
	{"berita", &models.Berita{}},
	{"agenda", &models.Agenda{}},
	{"fasilitas", &models.Fasilitas{}},
	{"kontak", &models.Kontak{}},
	{"lokasi", &models.Lokasi{}},
	{"profil", &models.ProfilDesa{}},
	{"prestasi", &models.Prestasi{}},
	{"perangkat-desa", &models.PerangkatDesa{}},
	{"pengumuman", &models.Pengumuman{}},
	{"sejarah", &models.Sejarah{}},
	{"jenis-surat", &models.JenisSurat{}},
	{"pengajuan-surat", &models.PengajuanSurat{}},
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	db := s.db.WithContext(ctx)
	data := &AdminDashboardData{
		Records:            make(map[string]int64, len(dashboardTables)),
		Applications:       make(map[domain.ApplicationStatus]int64, len(domain.ApplicationStatuses)),
		RecentApplications: []ApplicationSummary{},
	}

	for _, t := range dashboardTables {
		var count int64
		if err := db.Model(t.model).Count(&count).Error; err != nil {
			return nil, err
		}
		data.Records[t.name] = count
	}

	// User counts by role
	if err := db.Model(&models.User{}).Count(&data.TotalUsers).Error; err != nil {
		return nil, err
	}
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&data.TotalAdmins)
	db.Model(&models.User{}).Where("role = ?", domain.RoleResident).Count(&data.TotalResidents)

	// Application counts by status
	for _, status := range domain.ApplicationStatuses {
		var count int64
		if err := db.Model(&models.PengajuanSurat{}).Where("status = ?", status).Count(&count).Error; err != nil {
			return nil, err
		}
		data.Applications[status] = count
	}

	// This month statistics
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	db.Model(&models.PengajuanSurat{}).
		Where("tanggal_pengajuan >= ?", startOfMonth).
		Count(&data.ApplicationsThisMonth)

	// Recent applications
	var recent []*models.PengajuanSurat
	if err := db.Order("tanggal_pengajuan DESC").Limit(10).Find(&recent).Error; err != nil {
		return nil, err
	}
	for _, app := range recent {
		data.RecentApplications = append(data.RecentApplications, ApplicationSummary{
			ID:               app.ID,
			Nama:             app.Nama,
			JenisSurat:       app.JenisSurat,
			Status:           app.Status,
			TanggalPengajuan: app.TanggalPengajuan,
		})
	}

	return data, nil
}
