package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 20

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// MaxPage keeps (page-1)*limit well inside int range
const MaxPage = 1_000_000

// GetParams extracts pagination parameters from request.
// Returns nil when neither page nor limit is present, meaning "all rows".
func GetParams(c *fiber.Ctx) *Params {
	if c.Query("page") == "" && c.Query("limit") == "" {
		return nil
	}
	return NewParams(c.Query("page", "1"), c.Query("limit", strconv.Itoa(DefaultLimit)))
}

// NewParams parses raw page/limit values and clamps them
func NewParams(rawPage, rawLimit string) *Params {
	page, _ := strconv.Atoi(rawPage)
	limit, _ := strconv.Atoi(rawLimit)

	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}

	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64) *Meta {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
