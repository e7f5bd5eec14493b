package entity

// PaginationParams represents pagination request parameters
type PaginationParams struct {
	Page  int `json:"page" query:"page"`
	Limit int `json:"limit" query:"limit"`
}

// PaginationMeta is the pagination envelope returned with list responses.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

const (
	DefaultPageSize    = 20
	DefaultProductPage = 12
	MaxPageSize        = 100
	MinPageSize        = 1
	DefaultPage        = 1
)

// Validate normalizes the params using DefaultPageSize.
func (p *PaginationParams) Validate() {
	p.ValidateWithDefault(DefaultPageSize)
}

// ValidateWithDefault normalizes the params, falling back to def when no limit is given.
func (p *PaginationParams) ValidateWithDefault(def int) {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < MinPageSize {
		p.Limit = def
	} else if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

// CalculateOffset calculates the database offset from page and limit
func (p *PaginationParams) CalculateOffset() int {
	return (p.Page - 1) * p.Limit
}

// NewPaginationMeta creates pagination metadata from parameters and total count
func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(total) / limit
		if int(total)%limit > 0 {
			totalPages++
		}
	}
	return PaginationMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
