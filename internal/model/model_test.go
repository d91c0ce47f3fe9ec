package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategorySlug(t *testing.T) {
	assert.Equal(t, "iphone", CategorySlug("iPhone"))
	assert.Equal(t, "man-hinh-gap", CategorySlug("Man Hinh Gap"))
	assert.Equal(t, "redmagic", CategorySlug("RedMagic"))
}

func TestProductSlug(t *testing.T) {
	assert.Equal(t, "iphone-16-pro-max-256gb", ProductSlug("iPhone 16 Pro Max 256GB"))
	assert.Equal(t, "redmagic-9-pro-", ProductSlug("RedMagic 9 Pro+"))
	assert.Equal(t, "realme-12-pro--5g", ProductSlug("realme 12 Pro+ 5G"))
}

func TestNormalizeDerivesSlug(t *testing.T) {
	p := Product{Name: "Benco S1", Price: 2990000}
	p.Normalize()
	assert.Equal(t, "benco-s1", p.Slug)

	// An explicit slug is never overwritten.
	p2 := Product{Name: "Benco S1", Slug: "custom-slug"}
	p2.Normalize()
	assert.Equal(t, "custom-slug", p2.Slug)
}

func TestNormalizeDiscountPercent(t *testing.T) {
	orig := int64(10990000)
	p := Product{Name: "Redmi Note 13 Pro", Price: 8990000, OriginalPrice: &orig}
	p.Normalize()
	// floor((1 - 8990000/10990000) * 100) = 18
	assert.Equal(t, uint(18), p.DiscountPercent)
	assert.True(t, p.IsOnSale())
}

func TestNormalizeKeepsManualDiscount(t *testing.T) {
	// No original price: a manually entered percent survives.
	p := Product{Name: "Clearance", Price: 1000000, DiscountPercent: 30}
	p.Normalize()
	assert.Equal(t, uint(30), p.DiscountPercent)
	assert.False(t, p.IsOnSale())

	// Original price equal to price grants no discount either.
	same := int64(1000000)
	p2 := Product{Name: "Even", Price: 1000000, OriginalPrice: &same, DiscountPercent: 7}
	p2.Normalize()
	assert.Equal(t, uint(7), p2.DiscountPercent)
}

func TestNormalizeOutOfStock(t *testing.T) {
	p := Product{Name: "X", Stock: 0, IsOutOfStock: false}
	p.Normalize()
	assert.True(t, p.IsOutOfStock)

	p.Stock = 3
	p.IsOutOfStock = true
	p.Normalize()
	assert.False(t, p.IsOutOfStock)
}

func TestCouponValid(t *testing.T) {
	now := time.Now()
	c := Coupon{
		IsActive:   true,
		StartDate:  now.Add(-time.Hour),
		EndDate:    now.Add(time.Hour),
		UsageLimit: 10,
		UsedCount:  9,
	}
	assert.True(t, c.Valid(now))

	// Window edges are inclusive.
	assert.True(t, c.Valid(c.StartDate))
	assert.True(t, c.Valid(c.EndDate))

	c.UsedCount = 10
	assert.False(t, c.Valid(now))

	c.UsedCount = 0
	c.IsActive = false
	assert.False(t, c.Valid(now))
}

func TestPromotionDiscountedPrice(t *testing.T) {
	sp := SpecialPromotion{DiscountPercent: 20}
	assert.Equal(t, int64(8000000), sp.DiscountedPrice(10000000))

	sp.DiscountPercent = 0
	assert.Equal(t, int64(10000000), sp.DiscountedPrice(10000000))

	sp.DiscountPercent = 100
	assert.Equal(t, int64(0), sp.DiscountedPrice(10000000))

	// Integer division truncates toward zero.
	sp.DiscountPercent = 33
	assert.Equal(t, int64(669), sp.DiscountedPrice(999))
}

func TestOrderItemSubtotal(t *testing.T) {
	i := OrderItem{ProductPrice: 22990000, Quantity: 2}
	assert.Equal(t, int64(45980000), i.Subtotal())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusApproved, StatusRejected, StatusShipping, StatusDelivered} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("cancelled"))
	assert.False(t, ValidStatus(""))
}

func TestFullAddress(t *testing.T) {
	a := Address{
		AddressDetail: "12 Nguyen Trai",
		Ward:          "Ben Thanh",
		District:      "Quan 1",
		Province:      "TP HCM",
	}
	assert.Equal(t, "12 Nguyen Trai, Ben Thanh, Quan 1, TP HCM", a.FullAddress())
}
