// Package coupon implements time-windowed, usage-capped discount codes.
package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shopmobile/internal/model"
	"shopmobile/pkg/errs"

	"gorm.io/gorm"
)

// Validation failures for a specific code. All wrap the boundary taxonomy
// so handlers can map them without knowing each reason.
var (
	ErrNotStarted   = fmt.Errorf("%w: coupon is not active yet", errs.ErrValidation)
	ErrExpired      = fmt.Errorf("%w: coupon has expired", errs.ErrValidation)
	ErrInactive     = fmt.Errorf("%w: coupon is deactivated", errs.ErrValidation)
	ErrLimitReached = fmt.Errorf("%w: coupon usage limit reached", errs.ErrValidation)
	ErrBelowMinimum = fmt.Errorf("%w: order amount below coupon minimum", errs.ErrValidation)
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create inserts a coupon. Codes are trimmed and upper-cased before the
// uniqueness check.
func (s *Service) Create(c *model.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: coupon code and name are required", errs.ErrValidation)
	}
	if c.DiscountType != model.DiscountPercent && c.DiscountType != model.DiscountAmount {
		return fmt.Errorf("%w: unknown discount type %q", errs.ErrValidation, c.DiscountType)
	}
	var cnt int64
	s.db.Model(&model.Coupon{}).Where("code = ?", c.Code).Count(&cnt)
	if cnt > 0 {
		return fmt.Errorf("%w: coupon code %q already exists", errs.ErrConflict, c.Code)
	}
	return s.db.Create(c).Error
}

func (s *Service) Delete(id uint) error {
	result := s.db.Delete(&model.Coupon{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: coupon %d", errs.ErrNotFound, id)
	}
	return nil
}

// ListValid returns coupons usable at the given time, soonest expiry first.
func (s *Service) ListValid(at time.Time) ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := s.db.
		Where("is_active = ? AND start_date <= ? AND end_date >= ? AND used_count < usage_limit",
			true, at, at).
		Order("end_date").
		Find(&coupons).Error
	return coupons, err
}

// ListAll returns every coupon for the admin page, newest first, along
// with how many are currently valid.
func (s *Service) ListAll(at time.Time) ([]model.Coupon, int, error) {
	var coupons []model.Coupon
	if err := s.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	active := 0
	for i := range coupons {
		if coupons[i].Valid(at) {
			active++
		}
	}
	return coupons, active, nil
}

// Validate checks a code against an order amount and returns the discount
// it would grant. Each failure reason is a distinct error.
func (s *Service) Validate(code string, orderAmount int64, at time.Time) (int64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var c model.Coupon
	if err := s.db.Where("code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: coupon %q", errs.ErrNotFound, code)
		}
		return 0, err
	}
	switch {
	case !c.IsActive:
		return 0, ErrInactive
	case at.Before(c.StartDate):
		return 0, ErrNotStarted
	case at.After(c.EndDate):
		return 0, ErrExpired
	case c.UsedCount >= c.UsageLimit:
		return 0, ErrLimitReached
	case orderAmount < c.MinOrderAmount:
		return 0, ErrBelowMinimum
	}

	var discount int64
	switch c.DiscountType {
	case model.DiscountAmount:
		discount = c.DiscountValue
	default:
		discount = orderAmount * c.DiscountValue / 100
	}
	if c.MaxDiscount != nil && discount > *c.MaxDiscount {
		discount = *c.MaxDiscount
	}
	return discount, nil
}

// Redeem atomically counts one use against the coupon. The guarded update
// makes the usage cap safe under concurrent redemption; nothing in this
// codebase calls it yet, it is the integration point for a checkout flow.
func (s *Service) Redeem(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	result := s.db.Model(&model.Coupon{}).
		Where("code = ? AND used_count < usage_limit", code).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var cnt int64
		s.db.Model(&model.Coupon{}).Where("code = ?", code).Count(&cnt)
		if cnt == 0 {
			return fmt.Errorf("%w: coupon %q", errs.ErrNotFound, code)
		}
		return ErrLimitReached
	}
	return nil
}
