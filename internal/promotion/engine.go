// Package promotion manages the bounded set of special promotions: at most
// five rows, one per product, each overriding the product's display
// discount on the home page.
package promotion

import (
	"errors"
	"fmt"
	"time"

	"shopmobile/internal/model"
	"shopmobile/pkg/errs"

	"gorm.io/gorm"
)

// MaxPromotions is the hard cap on promotion rows.
const MaxPromotions = 5

type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// View is a promotion joined with its product and the computed price.
type View struct {
	ID              uint   `json:"id"`
	ProductID       uint   `json:"product_id"`
	ProductName     string `json:"product_name"`
	ProductPrice    int64  `json:"product_price"`
	DiscountPercent uint   `json:"discount_percent"`
	DiscountedPrice int64  `json:"discounted_price"`
	IsActive        bool   `json:"is_active"`
}

// Add creates a promotion for the product. The five-row cap is enforced by
// a single conditional INSERT so two concurrent creates cannot both pass a
// read-then-write check; the unique index on product_id rejects a second
// promotion for the same product.
func (e *Engine) Add(productID uint, discountPercent uint) (*View, error) {
	if discountPercent > 100 {
		return nil, fmt.Errorf("%w: discount percent must be 0-100", errs.ErrValidation)
	}

	var p model.Product
	if err := e.db.First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", errs.ErrNotFound, productID)
		}
		return nil, err
	}

	// Friendly pre-check; the unique index is the real guard.
	var cnt int64
	e.db.Model(&model.SpecialPromotion{}).Where("product_id = ?", productID).Count(&cnt)
	if cnt > 0 {
		return nil, fmt.Errorf("%w: product %d already has a promotion", errs.ErrConflict, productID)
	}

	now := time.Now()
	result := e.db.Exec(
		`INSERT INTO special_promotions (product_id, discount_percent, is_active, created_at, updated_at)
		 SELECT ?, ?, ?, ?, ? FROM (SELECT 1) AS seed
		 WHERE (SELECT COUNT(*) FROM special_promotions) < ?`,
		productID, discountPercent, true, now, now, MaxPromotions,
	)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: product %d already has a promotion", errs.ErrConflict, productID)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: at most %d special promotions are allowed", errs.ErrLimitExceeded, MaxPromotions)
	}

	var sp model.SpecialPromotion
	if err := e.db.Where("product_id = ?", productID).First(&sp).Error; err != nil {
		return nil, err
	}
	return &View{
		ID:              sp.ID,
		ProductID:       p.ID,
		ProductName:     p.Name,
		ProductPrice:    p.Price,
		DiscountPercent: sp.DiscountPercent,
		DiscountedPrice: sp.DiscountedPrice(p.Price),
		IsActive:        sp.IsActive,
	}, nil
}

// Delete removes a promotion. The product is untouched.
func (e *Engine) Delete(id uint) error {
	result := e.db.Delete(&model.SpecialPromotion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: promotion %d", errs.ErrNotFound, id)
	}
	return nil
}

// List returns every promotion with its product joined, newest first.
func (e *Engine) List() ([]View, error) {
	var promos []model.SpecialPromotion
	if err := e.db.Preload("Product").Order("created_at DESC").Find(&promos).Error; err != nil {
		return nil, err
	}
	return views(promos), nil
}

// ActiveForHome returns up to n active promotions for the home payload.
func (e *Engine) ActiveForHome(n int) ([]View, error) {
	var promos []model.SpecialPromotion
	if err := e.db.Preload("Product").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(n).
		Find(&promos).Error; err != nil {
		return nil, err
	}
	return views(promos), nil
}

func views(promos []model.SpecialPromotion) []View {
	out := make([]View, 0, len(promos))
	for _, sp := range promos {
		v := View{
			ID:              sp.ID,
			ProductID:       sp.ProductID,
			DiscountPercent: sp.DiscountPercent,
			IsActive:        sp.IsActive,
		}
		if sp.Product != nil {
			v.ProductName = sp.Product.Name
			v.ProductPrice = sp.Product.Price
			v.DiscountedPrice = sp.DiscountedPrice(sp.Product.Price)
		}
		out = append(out, v)
	}
	return out
}
