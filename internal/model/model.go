// Package model holds the gorm models and the save-time normalization
// rules for derived fields. Prices are whole currency units (VND), so
// every money field is an int64 with no minor units.
package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName    string    `gorm:"type:varchar(100)" json:"full_name"`
	IsStaff     bool      `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool      `gorm:"default:false" json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// CanAdmin reports whether the user may reach the admin surface.
func (u *User) CanAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"type:varchar(255)" json:"image"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// BeforeSave derives the slug from the name when none was provided.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = CategorySlug(c.Name)
	}
	return nil
}

type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug          string    `gorm:"type:varchar(255);uniqueIndex" json:"slug"`
	Description   string    `gorm:"type:text" json:"description"`
	Price         int64     `gorm:"not null;default:0" json:"price"`
	OriginalPrice *int64    `json:"original_price"`
	Image         string    `gorm:"type:varchar(255)" json:"image"`
	CategoryID    *uint     `gorm:"index" json:"category_id"`
	Category      *Category `json:"category,omitempty"`
	Brand         string    `gorm:"type:varchar(100)" json:"brand"`
	Stock         uint      `gorm:"default:0" json:"stock"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	IsFeatured    bool      `gorm:"default:false" json:"is_featured"`
	// DiscountPercent is derived on save when OriginalPrice > Price and
	// otherwise left as explicitly set (manually entered clearance
	// discounts survive an original-price removal).
	DiscountPercent uint `gorm:"default:0" json:"discount_percent"`

	// Free-form option lists entered on the admin surface; order matters.
	StorageOptions  datatypes.JSONSlice[string] `gorm:"type:json" json:"storage_options"`
	ColorOptions    datatypes.JSONSlice[string] `gorm:"type:json" json:"color_options"`
	WarrantyOptions datatypes.JSONSlice[string] `gorm:"type:json" json:"warranty_options"`
	Specifications  datatypes.JSONMap           `gorm:"type:json" json:"specifications"`

	FreeShipping       bool `gorm:"default:false" json:"free_shipping"`
	AllowOpenBox       bool `gorm:"default:false" json:"allow_open_box"`
	ReturnPolicy30Days bool `gorm:"default:false" json:"return_policy_30_days"`

	// IsOutOfStock is recomputed from Stock on every save, overriding any
	// manually set value.
	IsOutOfStock bool `gorm:"default:false" json:"is_out_of_stock"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// Normalize applies the derived-field rules. It runs from the BeforeSave
// hook so every persistence path gets the same treatment.
func (p *Product) Normalize() {
	if p.Slug == "" {
		p.Slug = ProductSlug(p.Name)
	}
	if p.OriginalPrice != nil && *p.OriginalPrice > p.Price {
		// floor((1 - price/original) * 100) in integer math.
		p.DiscountPercent = uint((*p.OriginalPrice - p.Price) * 100 / *p.OriginalPrice)
	}
	p.IsOutOfStock = p.Stock == 0
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Normalize()
	return nil
}

// IsOnSale reports whether the product carries its own markdown.
func (p *Product) IsOnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

type Address struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"-"`
	FullName      string    `gorm:"type:varchar(100)" json:"full_name"`
	Phone         string    `gorm:"type:varchar(20)" json:"phone"`
	Province      string    `gorm:"type:varchar(100)" json:"province"`
	District      string    `gorm:"type:varchar(100)" json:"district"`
	Ward          string    `gorm:"type:varchar(100)" json:"ward"`
	AddressDetail string    `gorm:"type:varchar(255)" json:"address_detail"`
	IsDefault     bool      `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}

// FullAddress joins the four location parts for display.
func (a *Address) FullAddress() string {
	return strings.Join([]string{a.AddressDetail, a.Ward, a.District, a.Province}, ", ")
}

// Order statuses. No transition rules exist; any status may replace any
// other.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusShipping  = "shipping"
	StatusDelivered = "delivered"
)

const (
	PaymentCOD  = "cod"
	PaymentBank = "bank"
)

// ValidStatus reports whether s is one of the five order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusShipping, StatusDelivered:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCOD || m == PaymentBank
}

type Order struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	UserID            uint   `gorm:"index;not null" json:"user_id"`
	Status            string `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentMethod     string `gorm:"type:varchar(20);default:'cod'" json:"payment_method"`
	ShippingAddressID *uint  `gorm:"index" json:"shipping_address_id"`
	// TotalAmount is a derived convenience value; callers must recompute
	// it after mutating items.
	TotalAmount int64       `gorm:"default:0" json:"total_amount"`
	Note        string      `gorm:"type:text" json:"note"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index;not null" json:"-"`
	// ProductID survives product deletion; the snapshot fields keep
	// historical orders immutable to later catalog changes.
	ProductID    *uint     `gorm:"index" json:"product_id"`
	ProductName  string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductPrice int64     `gorm:"not null" json:"product_price"`
	Quantity     uint      `gorm:"default:1" json:"quantity"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal is the snapshot price times quantity.
func (i *OrderItem) Subtotal() int64 {
	return i.ProductPrice * int64(i.Quantity)
}

const (
	DiscountPercent = "percent"
	DiscountAmount  = "amount"
)

type Coupon struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Code           string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name           string `gorm:"type:varchar(200);not null" json:"name"`
	Description    string `gorm:"type:text" json:"description"`
	DiscountType   string `gorm:"type:varchar(20);default:'percent'" json:"discount_type"`
	DiscountValue  int64  `gorm:"not null;default:0" json:"discount_value"`
	MinOrderAmount int64  `gorm:"default:0" json:"min_order_amount"`
	// MaxDiscount nil means uncapped.
	MaxDiscount *int64    `json:"max_discount"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	UsageLimit  int       `gorm:"default:100" json:"usage_limit"`
	UsedCount   int       `gorm:"default:0" json:"used_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// Valid reports whether the coupon may be applied at the given time. The
// window is inclusive at both ends.
func (c *Coupon) Valid(at time.Time) bool {
	return c.IsActive &&
		!at.Before(c.StartDate) &&
		!at.After(c.EndDate) &&
		c.UsedCount < c.UsageLimit
}

type SpecialPromotion struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProductID       uint      `gorm:"uniqueIndex;not null" json:"product_id"`
	Product         *Product  `json:"product,omitempty"`
	DiscountPercent uint      `gorm:"default:0" json:"discount_percent"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"-"`
}

func (SpecialPromotion) TableName() string {
	return "special_promotions"
}

// DiscountedPrice is computed on read, never stored.
func (sp *SpecialPromotion) DiscountedPrice(price int64) int64 {
	return price * int64(100-sp.DiscountPercent) / 100
}

// CategorySlug lowercases the name and replaces spaces with hyphens.
func CategorySlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// ProductSlug lowercases the name and replaces spaces and '+' with hyphens.
func ProductSlug(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "+", "-")
	return s
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Product{},
		&Address{},
		&Order{},
		&OrderItem{},
		&Coupon{},
		&SpecialPromotion{},
	}
}
