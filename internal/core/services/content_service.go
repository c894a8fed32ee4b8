package services

import (
	"context"
	"errors"
	"log"
	"strconv"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/adapters/persistence/repositories"
	"desaku-api/internal/core/domain"
	"desaku-api/internal/pkg/pagination"
	"desaku-api/internal/pkg/validation"

	"github.com/bytedance/sonic"
)

// Record is satisfied by pointers to persisted models
type Record[T any] interface {
	*T
	models.Entity
}

// AssetRemover deletes a stored asset by its public URL
type AssetRemover interface {
	DeleteByURL(ctx context.Context, url string) error
}

// Filter maps a query parameter onto an exact-match column
type Filter struct {
	Column string
	Bool   bool
}

// Resource describes how one record kind is listed, defaulted and checked
type Resource[T any] struct {
	Name          string
	SearchColumns []string
	Filters       map[string]Filter
	Order         string

	// New returns a record carrying create-time defaults
	New func() *T
	// Preserve copies fields clients may not change from stored onto incoming
	Preserve func(stored, incoming *T)
	// BeforeSave runs after validation on create and update
	BeforeSave func(ctx context.Context, record *T) error
}

// ListQuery represents list input taken from the query string
type ListQuery struct {
	Search  string
	Filters map[string]string
	Params  *pagination.Params
}

// ContentService implements list/get/create/update/delete for one record kind
type ContentService[T any, P Record[T]] struct {
	repo   repositories.Repository[T]
	res    Resource[T]
	assets AssetRemover
}

// NewContentService creates a new content service. assets may be nil.
func NewContentService[T any, P Record[T]](repo repositories.Repository[T], res Resource[T], assets AssetRemover) *ContentService[T, P] {
	return &ContentService[T, P]{repo: repo, res: res, assets: assets}
}

// Name returns the resource name
func (s *ContentService[T, P]) Name() string {
	return s.res.Name
}

// List lists records matching the query; unknown filter keys are ignored
func (s *ContentService[T, P]) List(ctx context.Context, q *ListQuery) ([]*T, int64, error) {
	opts := repositories.ListOptions{
		Search:        q.Search,
		SearchColumns: s.res.SearchColumns,
		Order:         s.res.Order,
		Params:        q.Params,
	}

	for key, raw := range q.Filters {
		filter, ok := s.res.Filters[key]
		if !ok || raw == "" {
			continue
		}
		if opts.Filters == nil {
			opts.Filters = make(map[string]any)
		}
		if filter.Bool {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, 0, domain.NewValidationError(key, key+" must be true or false")
			}
			opts.Filters[filter.Column] = b
			continue
		}
		opts.Filters[filter.Column] = raw
	}

	return s.repo.List(ctx, opts)
}

// Get gets a record by ID
func (s *ContentService[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

// Create decodes body into a new record, validates and stores it
func (s *ContentService[T, P]) Create(ctx context.Context, body []byte) (*T, error) {
	record := s.newRecord()
	if err := decode(body, record); err != nil {
		return nil, err
	}
	*P(record).GetBase() = models.Base{}

	if err := s.CreateRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// CreateRecord validates and stores a record built by the caller
func (s *ContentService[T, P]) CreateRecord(ctx context.Context, record *T) error {
	if err := s.check(ctx, record); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return err
	}
	log.Printf("✅ %s created: %s", s.res.Name, P(record).GetBase().ID)
	return nil
}

// Update applies a partial JSON body over the stored record
func (s *ContentService[T, P]) Update(ctx context.Context, id string, body []byte) (*T, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	incoming := new(T)
	*incoming = *stored
	if err := decode(body, incoming); err != nil {
		return nil, err
	}

	*P(incoming).GetBase() = *P(stored).GetBase()
	if s.res.Preserve != nil {
		s.res.Preserve(stored, incoming)
	}

	if err := s.check(ctx, incoming); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, incoming); err != nil {
		return nil, err
	}
	return incoming, nil
}

// Delete hard deletes a record and then removes the assets it referenced.
// Asset failures are logged and never fail the delete.
func (s *ContentService[T, P]) Delete(ctx context.Context, id string) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("🗑️ %s deleted: %s", s.res.Name, id)

	s.removeAssets(ctx, record)
	return nil
}

// Count counts records matching exact column filters
func (s *ContentService[T, P]) Count(ctx context.Context, filters map[string]any) (int64, error) {
	return s.repo.Count(ctx, filters)
}

func (s *ContentService[T, P]) newRecord() *T {
	if s.res.New != nil {
		return s.res.New()
	}
	return new(T)
}

func (s *ContentService[T, P]) check(ctx context.Context, record *T) error {
	if err := validation.Struct(record); err != nil {
		return err
	}
	if s.res.BeforeSave != nil {
		return s.res.BeforeSave(ctx, record)
	}
	return nil
}

func (s *ContentService[T, P]) removeAssets(ctx context.Context, record *T) {
	owner, ok := any(record).(models.AssetOwner)
	if !ok || s.assets == nil {
		return
	}
	for _, url := range owner.AssetURLs() {
		if url == "" {
			continue
		}
		if err := s.assets.DeleteByURL(ctx, url); err != nil && !errors.Is(err, domain.ErrAssetNotFound) {
			log.Printf("⚠️ %s: failed to delete asset %s: %v", s.res.Name, url, err)
		}
	}
}

func decode(body []byte, v any) error {
	if len(body) == 0 {
		return domain.NewValidationError("body", "request body is required")
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		return domain.NewValidationError("body", "invalid JSON body")
	}
	return nil
}
