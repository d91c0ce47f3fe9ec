// Package catalog owns categories and products: the write-side store with
// its two slug policies, and the search/filter/sort read model.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shopmobile/internal/model"
	"shopmobile/pkg/errs"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateCategory inserts a category. Duplicate names or slugs fail with a
// conflict instead of auto-suffixing; that policy belongs to imports only.
func (s *Store) CreateCategory(c *model.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", errs.ErrValidation)
	}
	slug := c.Slug
	if slug == "" {
		slug = model.CategorySlug(c.Name)
	}
	var cnt int64
	s.db.Model(&model.Category{}).Where("name = ? OR slug = ?", c.Name, slug).Count(&cnt)
	if cnt > 0 {
		return fmt.Errorf("%w: category name or slug already exists", errs.ErrConflict)
	}
	return s.db.Create(c).Error
}

func (s *Store) UpdateCategory(c *model.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", errs.ErrValidation)
	}
	var cnt int64
	s.db.Model(&model.Category{}).
		Where("(name = ? OR slug = ?) AND id <> ?", c.Name, c.Slug, c.ID).
		Count(&cnt)
	if cnt > 0 {
		return fmt.Errorf("%w: category name or slug already exists", errs.ErrConflict)
	}
	return s.db.Save(c).Error
}

// DeleteCategory detaches the category's products before deleting the row,
// so products outlive their category.
func (s *Store) DeleteCategory(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: category %d", errs.ErrNotFound, id)
		}
		return nil
	})
}

// ListCategories returns active categories in their display order.
func (s *Store) ListCategories() ([]model.Category, error) {
	var cats []model.Category
	err := s.db.Where("is_active = ?", true).
		Order("sort_order, name").
		Find(&cats).Error
	return cats, err
}

// CreateProduct is the single-record admin entry point: a derived slug that
// is already taken fails validation rather than being suffixed.
func (s *Store) CreateProduct(p *model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", errs.ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", errs.ErrValidation)
	}
	slug := p.Slug
	if slug == "" {
		slug = model.ProductSlug(p.Name)
	}
	var cnt int64
	s.db.Model(&model.Product{}).Where("slug = ?", slug).Count(&cnt)
	if cnt > 0 {
		return fmt.Errorf("%w: a product with slug %q already exists", errs.ErrConflict, slug)
	}
	return s.db.Create(p).Error
}

// ImportProduct is the seed/bulk entry point: on slug collision it appends
// -1, -2, ... until the slug is unique.
func (s *Store) ImportProduct(p *model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", errs.ErrValidation)
	}
	base := p.Slug
	if base == "" {
		base = model.ProductSlug(p.Name)
	}
	slug := base
	for counter := 1; ; counter++ {
		var cnt int64
		if err := s.db.Model(&model.Product{}).Where("slug = ?", slug).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
	p.Slug = slug
	return s.db.Create(p).Error
}

func (s *Store) UpdateProduct(p *model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", errs.ErrValidation)
	}
	var cnt int64
	s.db.Model(&model.Product{}).Where("slug = ? AND id <> ?", p.Slug, p.ID).Count(&cnt)
	if cnt > 0 {
		return fmt.Errorf("%w: a product with slug %q already exists", errs.ErrConflict, p.Slug)
	}
	return s.db.Save(p).Error
}

// Deactivate soft-hides a product from the storefront.
func (s *Store) Deactivate(id uint) error {
	result := s.db.Model(&model.Product{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", errs.ErrNotFound, id)
	}
	return nil
}

// DeleteProduct hard-deletes a product. Its promotions go with it; order
// items keep their snapshots and only lose the product reference.
func (s *Store) DeleteProduct(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.SpecialPromotion{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.OrderItem{}).Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Product{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: product %d", errs.ErrNotFound, id)
		}
		return nil
	})
}

func (s *Store) GetByID(id uint) (*model.Product, error) {
	var p model.Product
	err := s.db.Preload("Category").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", errs.ErrNotFound, id)
	}
	return &p, err
}

// GetBySlug returns an active product by slug.
func (s *Store) GetBySlug(slug string) (*model.Product, error) {
	var p model.Product
	err := s.db.Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %q", errs.ErrNotFound, slug)
	}
	return &p, err
}

// Detail is the single-product read model: the product plus any active
// special promotion's computed price.
type Detail struct {
	Product         *model.Product
	PromotionID     *uint
	PromoPercent    *uint
	DiscountedPrice *int64
	Related         []model.Product
}

// GetDetail resolves idOrSlug (numeric ID first, then slug) and joins the
// active promotion and up to five related products from the same category.
func (s *Store) GetDetail(idOrSlug string) (*Detail, error) {
	var p model.Product
	q := s.db.Preload("Category").Where("is_active = ?", true)
	if id, convErr := strconv.ParseUint(idOrSlug, 10, 32); convErr == nil {
		q = q.Where("id = ?", uint(id))
	} else {
		q = q.Where("slug = ?", idOrSlug)
	}
	err := q.First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %q", errs.ErrNotFound, idOrSlug)
	}
	if err != nil {
		return nil, err
	}

	d := &Detail{Product: &p}

	var promo model.SpecialPromotion
	err = s.db.Where("product_id = ? AND is_active = ?", p.ID, true).First(&promo).Error
	if err == nil {
		price := promo.DiscountedPrice(p.Price)
		d.PromotionID = &promo.ID
		d.PromoPercent = &promo.DiscountPercent
		d.DiscountedPrice = &price
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if p.CategoryID != nil {
		if err := s.db.Where("category_id = ? AND is_active = ? AND id <> ?", *p.CategoryID, true, p.ID).
			Limit(5).Find(&d.Related).Error; err != nil {
			return nil, err
		}
	}
	return d, nil
}
