// Package admin provides the staff-only read models: products grouped by
// brand and the dashboard statistics.
package admin

import (
	"sort"
	"strings"
	"time"

	"shopmobile/internal/model"

	"gorm.io/gorm"
)

// UnbrandedLabel names the bucket for products without a brand; it always
// sorts last.
const UnbrandedLabel = "Unbranded"

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// BrandGroup is one accordion section on the admin product page.
type BrandGroup struct {
	Brand    string          `json:"brand"`
	Products []model.Product `json:"products"`
}

// ProductsByBrand groups every product (active or not) by trimmed,
// case-preserving brand. Groups are alphabetical; the blank-brand bucket
// comes last.
func (s *Service) ProductsByBrand() ([]BrandGroup, int64, error) {
	var products []model.Product
	if err := s.db.Preload("Category").Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	byBrand := make(map[string][]model.Product)
	var unbranded []model.Product
	for _, p := range products {
		brand := strings.TrimSpace(p.Brand)
		if brand == "" {
			unbranded = append(unbranded, p)
			continue
		}
		byBrand[brand] = append(byBrand[brand], p)
	}

	brands := make([]string, 0, len(byBrand))
	for b := range byBrand {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	groups := make([]BrandGroup, 0, len(brands)+1)
	for _, b := range brands {
		groups = append(groups, BrandGroup{Brand: b, Products: byBrand[b]})
	}
	if len(unbranded) > 0 {
		groups = append(groups, BrandGroup{Brand: UnbrandedLabel, Products: unbranded})
	}
	return groups, int64(len(products)), nil
}

// DashboardStats aggregates the numbers shown on the admin landing page.
type DashboardStats struct {
	TotalOrders     int64         `json:"total_orders"`
	TotalRevenue    int64         `json:"total_revenue"`
	MonthlyRevenue  int64         `json:"monthly_revenue"`
	NewUsers        int64         `json:"new_users"`
	PendingOrders   int64         `json:"pending_orders"`
	ApprovedOrders  int64         `json:"approved_orders"`
	DeliveredOrders int64         `json:"delivered_orders"`
	RejectedOrders  int64         `json:"rejected_orders"`
	RecentOrders    []model.Order `json:"recent_orders"`
}

// Dashboard computes the stats as of now; month boundaries follow now's
// location.
func (s *Service) Dashboard(now time.Time) (*DashboardStats, error) {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var st DashboardStats
	if err := s.db.Model(&model.Order{}).Count(&st.TotalOrders).Error; err != nil {
		return nil, err
	}

	var total, monthly *int64
	s.db.Model(&model.Order{}).Select("SUM(total_amount)").Scan(&total)
	s.db.Model(&model.Order{}).Where("created_at >= ?", startOfMonth).
		Select("SUM(total_amount)").Scan(&monthly)
	if total != nil {
		st.TotalRevenue = *total
	}
	if monthly != nil {
		st.MonthlyRevenue = *monthly
	}

	s.db.Model(&model.User{}).Where("created_at >= ?", startOfMonth).Count(&st.NewUsers)
	s.db.Model(&model.Order{}).Where("status = ?", model.StatusPending).Count(&st.PendingOrders)
	s.db.Model(&model.Order{}).Where("status = ?", model.StatusApproved).Count(&st.ApprovedOrders)
	s.db.Model(&model.Order{}).Where("status = ?", model.StatusDelivered).Count(&st.DeliveredOrders)
	s.db.Model(&model.Order{}).Where("status = ?", model.StatusRejected).Count(&st.RejectedOrders)

	if err := s.db.Preload("Items").Order("created_at DESC").Limit(10).
		Find(&st.RecentOrders).Error; err != nil {
		return nil, err
	}
	return &st, nil
}
