package handlers

import (
	"context"

	"desaku-api/internal/core/services"
	"desaku-api/internal/pkg/pagination"
	"desaku-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ResourceService is the CRUD surface shared by every record kind
type ResourceService[T any] interface {
	Name() string
	List(ctx context.Context, q *services.ListQuery) ([]*T, int64, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, body []byte) (*T, error)
	Update(ctx context.Context, id string, body []byte) (*T, error)
	Delete(ctx context.Context, id string) error
}

// ResourceHandler serves list/get/create/update/delete for one record kind
type ResourceHandler[T any] struct {
	svc ResourceService[T]
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler[T any](svc ResourceService[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{svc: svc}
}

// List handles listing records
// @Summary List records
// @Description Lists records of a resource. search matches text columns case-insensitively; other query keys are exact filters. page/limit add a meta block.
// @Tags Resources
// @Produce json
// @Param resource path string true "Resource name" Enums(berita, agenda, fasilitas, kontak, lokasi, profil, prestasi, perangkat-desa, pengumuman, sejarah, jenis-surat, pengajuan-surat)
// @Param search query string false "Search text"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/{resource} [get]
func (h *ResourceHandler[T]) List(c *fiber.Ctx) error {
	query := ListQueryFrom(c)

	items, total, err := h.svc.List(c.Context(), query)
	if err != nil {
		return respondError(c, err, "list "+h.svc.Name())
	}

	if query.Params != nil {
		return response.List(c, items, pagination.GetMeta(query.Params, total))
	}
	return response.List(c, items, nil)
}

// Get handles getting a record by ID
// @Summary Get record
// @Tags Resources
// @Produce json
// @Param resource path string true "Resource name"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/{resource}/{id} [get]
func (h *ResourceHandler[T]) Get(c *fiber.Ctx) error {
	item, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "get "+h.svc.Name())
	}
	return response.Success(c, "", item)
}

// Create handles creating a record (Admin only)
// @Summary Create record
// @Tags Resources
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param resource path string true "Resource name"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/{resource} [post]
func (h *ResourceHandler[T]) Create(c *fiber.Ctx) error {
	item, err := h.svc.Create(c.Context(), c.Body())
	if err != nil {
		return respondError(c, err, "create "+h.svc.Name())
	}
	return response.Created(c, "Created", item)
}

// Update handles updating a record (Admin only)
// @Summary Update record
// @Description Applies the JSON body over the stored record; id and timestamps are kept.
// @Tags Resources
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param resource path string true "Resource name"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/{resource}/{id} [put]
func (h *ResourceHandler[T]) Update(c *fiber.Ctx) error {
	item, err := h.svc.Update(c.Context(), c.Params("id"), c.Body())
	if err != nil {
		return respondError(c, err, "update "+h.svc.Name())
	}
	return response.Success(c, "Updated", item)
}

// Delete handles deleting a record (Admin only)
// @Summary Delete record
// @Tags Resources
// @Produce json
// @Security CookieAuth
// @Param resource path string true "Resource name"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/{resource}/{id} [delete]
func (h *ResourceHandler[T]) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return respondError(c, err, "delete "+h.svc.Name())
	}
	return response.Success(c, "Deleted", fiber.Map{"id": id})
}

// ListQueryFrom reads search, filters and pagination from the query string
func ListQueryFrom(c *fiber.Ctx) *services.ListQuery {
	query := &services.ListQuery{
		Search:  c.Query("search"),
		Filters: make(map[string]string),
		Params:  pagination.GetParams(c),
	}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		switch key := string(k); key {
		case "search", "page", "limit":
		default:
			query.Filters[key] = string(v)
		}
	})
	return query
}
