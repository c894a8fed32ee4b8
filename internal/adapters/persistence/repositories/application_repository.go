package repositories

import (
	"context"
	"time"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/core/domain"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	*CRUDRepository[models.PengajuanSurat]
	db *gorm.DB
}

// NewApplicationRepository creates a new letter application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{
		CRUDRepository: NewCRUDRepository[models.PengajuanSurat](db),
		db:             db,
	}
}

// ListByNIK lists applications filed under a NIK, newest first
func (r *applicationRepository) ListByNIK(ctx context.Context, nik string) ([]*models.PengajuanSurat, error) {
	var items []*models.PengajuanSurat
	err := r.db.WithContext(ctx).
		Where("nik = ?", nik).
		Order("tanggal_pengajuan DESC").
		Find(&items).Error
	return items, err
}

// CountByStatus groups application counts per status. Every known status is present.
func (r *applicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	var rows []struct {
		Status domain.ApplicationStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.PengajuanSurat{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.ApplicationStatus]int64, len(domain.ApplicationStatuses))
	for _, status := range domain.ApplicationStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountPendingBefore counts pending applications submitted before a cutoff
func (r *applicationRepository) CountPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PengajuanSurat{}).
		Where("status = ? AND tanggal_pengajuan < ?", domain.StatusPending, cutoff).
		Count(&count).Error
	return count, err
}
