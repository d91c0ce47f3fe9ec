package catalog

import (
	"strings"

	"shopmobile/internal/model"

	"gorm.io/gorm"
)

// PageSize is fixed for the storefront listing and its JSON twin.
const PageSize = 10

// SortAsc and SortDesc order by price; anything else falls back to
// newest-first then featured-first.
const (
	SortAsc     = "asc"
	SortDesc    = "desc"
	SortDefault = "default"
)

// priceBuckets are the six fixed, non-overlapping ranges, keyed exactly as
// clients send them. Max 0 means unbounded above.
var priceBuckets = map[string]struct{ Min, Max int64 }{
	"0-2000000":          {0, 2000000},
	"2000000-4000000":    {2000000, 4000000},
	"4000000-7000000":    {4000000, 7000000},
	"7000000-13000000":   {7000000, 13000000},
	"13000000-20000000":  {13000000, 20000000},
	"20000000-999999999": {20000000, 0},
}

// QueryParams carries the storefront listing filters.
type QueryParams struct {
	Search      string
	Brand       string
	PriceBucket string
	Sort        string
	Page        int
}

// Page is one page of active products plus pagination metadata. Indexes
// are 1-based; StartIndex and EndIndex are 0 when nothing matched.
type Page struct {
	Items       []model.Product
	CurrentPage int
	TotalPages  int
	Total       int64
	HasPrevious bool
	HasNext     bool
	StartIndex  int
	EndIndex    int
}

type Query struct {
	db *gorm.DB
}

func NewQuery(db *gorm.DB) *Query {
	return &Query{db: db}
}

// List runs the filtered, sorted, paginated catalog query. Out-of-range
// pages clamp to the nearest valid page rather than erroring.
func (q *Query) List(p QueryParams) (*Page, error) {
	base := q.db.Model(&model.Product{}).
		Where("products.is_active = ?", true)

	if s := strings.TrimSpace(p.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		base = base.
			Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("LOWER(products.name) LIKE ? OR LOWER(products.brand) LIKE ? OR LOWER(categories.name) LIKE ?",
				pattern, pattern, pattern)
	}

	if p.Brand != "" {
		base = base.Where("LOWER(products.brand) = ?", strings.ToLower(p.Brand))
	}

	if bucket, ok := priceBuckets[p.PriceBucket]; ok {
		base = base.Where("products.price >= ?", bucket.Min)
		if bucket.Max > 0 {
			base = base.Where("products.price < ?", bucket.Max)
		}
	}

	switch p.Sort {
	case SortAsc:
		base = base.Order("products.price")
	case SortDesc:
		base = base.Order("products.price DESC")
	default:
		base = base.Order("products.created_at DESC, products.is_featured DESC")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	var items []model.Product
	if err := base.Preload("Category").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	start, end := 0, 0
	if total > 0 {
		start = (page-1)*PageSize + 1
		end = start + len(items) - 1
	}

	return &Page{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
		StartIndex:  start,
		EndIndex:    end,
	}, nil
}
