package handler

import (
	"net/url"
	"strconv"
	"time"

	"shopmobile/internal/catalog"
	"shopmobile/internal/model"
	"shopmobile/pkg/response"

	"github.com/gin-gonic/gin"
)

// productJSON is the listing-card serialization shared by the catalog
// endpoints.
type productJSON struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Brand           string `json:"brand"`
	Price           int64  `json:"price"`
	OriginalPrice   *int64 `json:"original_price"`
	DiscountPercent uint   `json:"discount_percent"`
	IsOnSale        bool   `json:"is_on_sale"`
	Image           string `json:"image"`
	Stock           uint   `json:"stock"`
	CategoryName    string `json:"category_name"`
}

func toProductJSON(p *model.Product) productJSON {
	out := productJSON{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Brand:           p.Brand,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		DiscountPercent: p.DiscountPercent,
		IsOnSale:        p.IsOnSale(),
		Image:           p.Image,
		Stock:           p.Stock,
	}
	if p.Category != nil {
		out.CategoryName = p.Category.Name
	}
	return out
}

func queryParams(c *gin.Context) catalog.QueryParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	return catalog.QueryParams{
		Search:      c.Query("q"),
		Brand:       c.Query("brand"),
		PriceBucket: c.Query("price"),
		Sort:        c.DefaultQuery("sort", catalog.SortDefault),
		Page:        page,
	}
}

// buildQuery reproduces the filter state as a query string for the
// client's previous/next links.
func buildQuery(p catalog.QueryParams, page int) string {
	v := url.Values{}
	if p.Search != "" {
		v.Set("q", p.Search)
	}
	if p.Brand != "" {
		v.Set("brand", p.Brand)
	}
	if p.PriceBucket != "" {
		v.Set("price", p.PriceBucket)
	}
	if p.Sort != catalog.SortDefault && p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	v.Set("page", strconv.Itoa(page))
	return "?" + v.Encode()
}

// ListProducts is the JSON catalog endpoint backing incremental
// pagination; it echoes the filters for client bookkeeping.
func (h *Handler) ListProducts(c *gin.Context) {
	params := queryParams(c)
	page, err := h.query.List(params)
	if err != nil {
		fail(c, err)
		return
	}

	products := make([]productJSON, 0, len(page.Items))
	for i := range page.Items {
		products = append(products, toProductJSON(&page.Items[i]))
	}

	var prev, next *string
	if page.HasPrevious {
		s := buildQuery(params, page.CurrentPage-1)
		prev = &s
	}
	if page.HasNext {
		s := buildQuery(params, page.CurrentPage+1)
		next = &s
	}

	c.JSON(200, gin.H{
		"success":        true,
		"products":       products,
		"current_page":   page.CurrentPage,
		"total_pages":    page.TotalPages,
		"has_previous":   page.HasPrevious,
		"has_next":       page.HasNext,
		"previous_page":  prev,
		"next_page":      next,
		"start_index":    page.StartIndex,
		"end_index":      page.EndIndex,
		"total_products": page.Total,
		"filters": gin.H{
			"q":     params.Search,
			"brand": params.Brand,
			"price": params.PriceBucket,
			"sort":  params.Sort,
		},
	})
}

// Home bundles what the landing page needs: categories in display order,
// the active special promotions and the first product page.
func (h *Handler) Home(c *gin.Context) {
	categories, err := h.store.ListCategories()
	if err != nil {
		fail(c, err)
		return
	}
	promos, err := h.promotions.ActiveForHome(5)
	if err != nil {
		fail(c, err)
		return
	}
	params := queryParams(c)
	page, err := h.query.List(params)
	if err != nil {
		fail(c, err)
		return
	}

	products := make([]productJSON, 0, len(page.Items))
	for i := range page.Items {
		products = append(products, toProductJSON(&page.Items[i]))
	}

	response.Success(c, gin.H{
		"categories":         categories,
		"special_promotions": promos,
		"products":           products,
		"current_page":       page.CurrentPage,
		"total_pages":        page.TotalPages,
		"total_products":     page.Total,
	})
}

// ProductDetail returns one product by id or slug, with any active
// promotion's computed price and up to five related products.
func (h *Handler) ProductDetail(c *gin.Context) {
	d, err := h.store.GetDetail(c.Param("idOrSlug"))
	if err != nil {
		fail(c, err)
		return
	}

	related := make([]productJSON, 0, len(d.Related))
	for i := range d.Related {
		related = append(related, toProductJSON(&d.Related[i]))
	}

	p := d.Product
	response.Success(c, gin.H{
		"product": gin.H{
			"id":               p.ID,
			"name":             p.Name,
			"slug":             p.Slug,
			"brand":            p.Brand,
			"description":      p.Description,
			"price":            p.Price,
			"original_price":   p.OriginalPrice,
			"discount_percent": p.DiscountPercent,
			"is_on_sale":       p.IsOnSale(),
			"image":            p.Image,
			"stock":            p.Stock,
			"is_out_of_stock":  p.IsOutOfStock,
			"storage_options":  p.StorageOptions,
			"color_options":    p.ColorOptions,
			"warranty_options": p.WarrantyOptions,
			"specifications":   p.Specifications,
			"free_shipping":    p.FreeShipping,
			"allow_open_box":   p.AllowOpenBox,
			"return_policy":    p.ReturnPolicy30Days,
			"category_name":    categoryName(p),
		},
		"promotion": gin.H{
			"id":               d.PromotionID,
			"discount_percent": d.PromoPercent,
			"discounted_price": d.DiscountedPrice,
		},
		"related_products": related,
	})
}

func categoryName(p *model.Product) string {
	if p.Category != nil {
		return p.Category.Name
	}
	return ""
}

// ValidCoupons lists coupons usable right now, soonest expiry first.
func (h *Handler) ValidCoupons(c *gin.Context) {
	coupons, err := h.coupons.ListValid(time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, coupons)
}
