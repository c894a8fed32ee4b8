package repositories

import (
	"context"
	"errors"
	"strings"

	"desaku-api/internal/core/domain"
	"desaku-api/internal/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListOptions narrows a list query. Column names come from resource
// definitions, never from the request.
type ListOptions struct {
	Filters       map[string]any
	Search        string
	SearchColumns []string
	Order         string
	Params        *pagination.Params
}

// CRUDRepository implements Repository for any GORM model keyed by a string id
type CRUDRepository[T any] struct {
	db *gorm.DB
}

// NewCRUDRepository creates a new repository for T
func NewCRUDRepository[T any](db *gorm.DB) *CRUDRepository[T] {
	return &CRUDRepository[T]{db: db}
}

// List returns matching rows and the total match count
func (r *CRUDRepository[T]) List(ctx context.Context, opts ListOptions) ([]*T, int64, error) {
	var items []*T
	var total int64

	query := r.scoped(ctx, opts)

	if opts.Params != nil {
		if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return nil, 0, err
		}
		query = query.Offset(opts.Params.Offset).Limit(opts.Params.Limit)
	}

	if opts.Order != "" {
		query = query.Order(opts.Order)
	} else {
		query = query.Order("created_at ASC")
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}

	if opts.Params == nil {
		total = int64(len(items))
	}

	return items, total, nil
}

// GetByID gets a record by ID
func (r *CRUDRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	return r.FindOne(ctx, "id", id)
}

// FindOne gets the first record whose column equals value
func (r *CRUDRepository[T]) FindOne(ctx context.Context, column string, value any) (*T, error) {
	var record T
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Create inserts a new record
func (r *CRUDRepository[T]) Create(ctx context.Context, record *T) error {
	return translateError(r.db.WithContext(ctx).Create(record).Error)
}

// Save writes every column of an existing record. Unlike gorm's Save it never
// falls back to an insert when no row changed.
func (r *CRUDRepository[T]) Save(ctx context.Context, record *T) error {
	return translateError(r.db.WithContext(ctx).Model(record).Select("*").Updates(record).Error)
}

// Delete hard deletes a record; a missing id yields ErrNotFound
func (r *CRUDRepository[T]) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Exists checks whether another record already holds value in column.
// excludeID skips the record being updated.
func (r *CRUDRepository[T]) Exists(ctx context.Context, column string, value any, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(new(T)).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Count counts records matching exact filters
func (r *CRUDRepository[T]) Count(ctx context.Context, filters map[string]any) (int64, error) {
	var count int64
	err := r.scoped(ctx, ListOptions{Filters: filters}).Count(&count).Error
	return count, err
}

// likeEscaper escapes LIKE wildcards for use with ESCAPE '!'
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *CRUDRepository[T]) scoped(ctx context.Context, opts ListOptions) *gorm.DB {
	query := r.db.WithContext(ctx).Model(new(T))

	for column, value := range opts.Filters {
		query = query.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}

	if search := strings.TrimSpace(opts.Search); search != "" && len(opts.SearchColumns) > 0 {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		conds := make([]string, 0, len(opts.SearchColumns))
		args := make([]any, 0, len(opts.SearchColumns))
		for _, column := range opts.SearchColumns {
			conds = append(conds, "LOWER("+column+") LIKE ? ESCAPE '!'")
			args = append(args, pattern)
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	return query
}

// translateError maps unique-constraint violations from MySQL and SQLite to ErrDuplicateEntry
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateEntry
	}
	msg := err.Error()
	if strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed") {
		return domain.ErrDuplicateEntry
	}
	return err
}
