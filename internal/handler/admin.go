package handler

import (
	"net/http"
	"time"

	"shopmobile/internal/model"
	"shopmobile/pkg/response"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard(time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}

// AdminProducts lists every product grouped by brand, the unbranded group
// last.
func (h *Handler) AdminProducts(c *gin.Context) {
	groups, total, err := h.admin.ProductsByBrand()
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"brands":         groups,
		"total_products": total,
	})
}

type adminProductReq struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         int64    `json:"price" binding:"required"`
	OriginalPrice *int64   `json:"original_price"`
	Image         string   `json:"image"`
	CategoryID    *uint    `json:"category_id"`
	Brand         string   `json:"brand"`
	Stock         uint     `json:"stock"`
	IsFeatured    bool     `json:"is_featured"`
	StorageOpts   []string `json:"storage_options"`
	ColorOpts     []string `json:"color_options"`
	WarrantyOpts  []string `json:"warranty_options"`
}

func (h *Handler) AdminAddProduct(c *gin.Context) {
	var req adminProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p := &model.Product{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		Image:           req.Image,
		CategoryID:      req.CategoryID,
		Brand:           req.Brand,
		Stock:           req.Stock,
		IsActive:        true,
		IsFeatured:      req.IsFeatured,
		StorageOptions:  req.StorageOpts,
		ColorOptions:    req.ColorOpts,
		WarrantyOptions: req.WarrantyOpts,
	}
	if err := h.store.CreateProduct(p); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, toProductJSON(p))
}

func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMsg(c, "Product deleted", nil)
}

func (h *Handler) AdminPromotions(c *gin.Context) {
	promos, err := h.promotions.List()
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, promos)
}

func (h *Handler) AdminAddPromotion(c *gin.Context) {
	var req struct {
		ProductID       uint `json:"product_id" binding:"required"`
		DiscountPercent uint `json:"discount_percent" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := h.promotions.Add(req.ProductID, req.DiscountPercent)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, v)
}

func (h *Handler) AdminDeletePromotion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.promotions.Delete(id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMsg(c, "Promotion deleted", nil)
}

func (h *Handler) AdminCoupons(c *gin.Context) {
	coupons, active, err := h.coupons.ListAll(time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"coupons":      coupons,
		"active_count": active,
	})
}

type adminCouponReq struct {
	Code           string    `json:"code" binding:"required"`
	Name           string    `json:"name" binding:"required"`
	Description    string    `json:"description"`
	DiscountType   string    `json:"discount_type" binding:"required"`
	DiscountValue  int64     `json:"discount_value" binding:"required"`
	MinOrderAmount int64     `json:"min_order_amount"`
	MaxDiscount    *int64    `json:"max_discount"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
	UsageLimit     int       `json:"usage_limit"`
}

func (h *Handler) AdminAddCoupon(c *gin.Context) {
	var req adminCouponReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	cp := &model.Coupon{
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		IsActive:       true,
		UsageLimit:     req.UsageLimit,
	}
	if cp.UsageLimit <= 0 {
		cp.UsageLimit = 100
	}
	if err := h.coupons.Create(cp); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, cp)
}

func (h *Handler) AdminDeleteCoupon(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.coupons.Delete(id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMsg(c, "Coupon deleted", nil)
}

func (h *Handler) AdminSetOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.orders.SetStatus(id, req.Status); err != nil {
		fail(c, err)
		return
	}
	o, err := h.orders.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, orderJSON(o))
}
