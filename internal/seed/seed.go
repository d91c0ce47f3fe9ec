// Package seed loads the sample catalog. Running it twice is safe; every
// record is keyed by its natural identifier and skipped when present.
package seed

import (
	"errors"
	"fmt"
	"log"
	"time"

	"shopmobile/internal/catalog"
	"shopmobile/internal/model"

	"gorm.io/gorm"
)

type categorySeed struct {
	Name      string
	SortOrder int
}

type productSeed struct {
	Name          string
	Description   string
	Price         int64
	OriginalPrice int64
	Brand         string
	Category      string
	Image         string
	Stock         uint
	IsFeatured    bool
}

type couponSeed struct {
	Code           string
	Name           string
	Description    string
	DiscountType   string
	DiscountValue  int64
	MinOrderAmount int64
	MaxDiscount    int64
	StartOffset    time.Duration
	EndOffset      time.Duration
	UsageLimit     int
}

func day(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

var categories = []categorySeed{
	{"iPhone", 1},
	{"Samsung", 2},
	{"Xiaomi", 3},
	{"OPPO", 4},
	{"vivo", 5},
	{"realme", 6},
	{"Honor", 7},
	{"RedMagic", 8},
	{"Tecno", 9},
	{"Benco", 10},
}

var products = []productSeed{
	{"iPhone 16 Pro Max 256GB", "iPhone 16 Pro Max với màn hình Super Retina XDR 6.9 inch, chip A18 Pro, camera 48MP, pin suốt ngày.", 34990000, 0, "Apple", "iPhone", "images/products/iphone/iphone-16-pro-max.jpg", 50, true},
	{"iPhone 16 Pro 128GB", "iPhone 16 Pro với camera tetraprism 5x, chip A18 Pro, thiết kế sang trọng.", 28990000, 32990000, "Apple", "iPhone", "images/products/iphone/iphone-16-pro.jpg", 30, true},
	{"iPhone 16 128GB", "iPhone 16 với Action Button, chip A18, camera 48MP, 5 màu sắc mới.", 22990000, 0, "Apple", "iPhone", "images/products/iphone/iphone-16.jpg", 100, false},
	{"iPhone 15 Pro Max 256GB", "iPhone 15 Pro Max với khung titanium, chip A17 Pro, camera 5x quang học.", 32990000, 39990000, "Apple", "iPhone", "images/products/iphone/iphone-15-pro-max.jpg", 25, true},
	{"iPhone 15 128GB", "iPhone 15 với Dynamic Island, camera 48MP, cổng USB-C.", 19990000, 0, "Apple", "iPhone", "images/products/iphone/iphone-15.jpg", 80, false},

	{"Samsung Galaxy S24 Ultra 256GB", "Samsung Galaxy S24 Ultra với S Pen, camera 200MP, AI features.", 28990000, 34990000, "Samsung", "Samsung", "images/products/samsung/s24-ultra.jpg", 40, true},
	{"Samsung Galaxy S24+ 256GB", "Samsung Galaxy S24+ với màn hình 6.7 inch, chip Snapdragon 8 Gen 3.", 24990000, 0, "Samsung", "Samsung", "images/products/samsung/s24-plus.jpg", 35, false},
	{"Samsung Galaxy Z Fold 5 256GB", "Điện thoại gập ngang, màn hình 7.8 inch, chip Snapdragon 8 Gen 2.", 35990000, 42990000, "Samsung", "Samsung", "images/products/samsung/z-fold-5.jpg", 15, true},
	{"Samsung Galaxy A55 5G", "Samsung Galaxy A55 với màn hình Super AMOLED 6.6 inch, camera 50MP.", 10990000, 0, "Samsung", "Samsung", "images/products/samsung/a55.jpg", 120, false},

	{"Xiaomi 14 Ultra 512GB", "Xiaomi 14 Ultra với camera Leica, chip Snapdragon 8 Gen 3, pin 5000mAh.", 24990000, 32990000, "Xiaomi", "Xiaomi", "images/products/xiaomi/14-ultra.jpg", 20, true},
	{"Xiaomi 14 Pro 512GB", "Xiaomi 14 Pro với màn hình cong, chip Snapdragon 8 Gen 3.", 21990000, 0, "Xiaomi", "Xiaomi", "images/products/xiaomi/14-pro.jpg", 25, false},
	{"Xiaomi Redmi Note 13 Pro 5G", "Xiaomi Redmi Note 13 Pro với camera 200MP, màn hình 1.5K.", 8990000, 10990000, "Xiaomi", "Xiaomi", "images/products/xiaomi/note-13-pro.jpg", 150, false},

	{"OPPO Find X8 Pro", "OPPO Find X8 Pro với Hasselblad camera, chip Dimensity 9400.", 29990000, 0, "OPPO", "OPPO", "images/products/oppo/find-x8-pro.jpg", 30, true},
	{"OPPO Find X8", "OPPO Find X8 với camera telephoto periscope, AI features.", 24990000, 29990000, "OPPO", "OPPO", "images/products/oppo/find-x8.jpg", 40, false},
	{"OPPO Reno12 Pro 5G", "OPPO Reno12 Pro với AI portrait, màn hình cong 120Hz.", 16990000, 0, "OPPO", "OPPO", "images/products/oppo/reno12-pro.jpg", 60, false},

	{"vivo X200 Pro", "vivo X200 Pro với camera ZEISS, chip Dimensity 9400.", 32990000, 0, "vivo", "vivo", "images/products/vivo/x200-pro.jpg", 25, true},
	{"vivo X100 Pro", "vivo X100 Pro với ZEISS camera, chip Dimensity 9300.", 26990000, 32990000, "vivo", "vivo", "images/products/vivo/x100-pro.jpg", 35, true},
	{"vivo V30e 5G", "vivo V30e với camera 50MP, pin 5000mAh, sạc nhanh 44W.", 9990000, 0, "vivo", "vivo", "images/products/vivo/v30e.jpg", 80, false},

	{"realme GT 6", "realme GT 6 với chip Snapdragon 8s Gen 3, sạc 120W.", 14990000, 17990000, "realme", "realme", "images/products/realme/gt-6.jpg", 45, true},
	{"realme 12 Pro+ 5G", "realme 12 Pro+ với camera periscope 64MP, design sang trọng.", 10990000, 0, "realme", "realme", "images/products/realme/12-pro-plus.jpg", 70, false},
	{"realme C67 5G", "realme C67 với camera 108MP, pin 5000mAh.", 4990000, 0, "realme", "realme", "images/products/realme/c67.jpg", 100, false},

	{"Honor Magic 7 Pro", "Honor Magic 7 Pro với AI-powered camera, chip Snapdragon 8 Elite.", 29990000, 0, "Honor", "Honor", "images/products/honor/magic-7-pro.jpg", 20, true},
	{"Honor 200 Pro", "Honor 200 Pro với camera Harcourt Portrait.", 15990000, 19990000, "Honor", "Honor", "images/products/honor/200-pro.jpg", 40, false},

	{"RedMagic 9 Pro+", "Điện thoại gaming với quạt lấy gió, chip Snapdragon 8 Gen 3.", 24990000, 28990000, "RedMagic", "RedMagic", "images/products/redmagic/9-pro-plus.jpg", 25, true},
	{"RedMagic 9 Pro", "RedMagic 9 Pro với hệ thống làm mát thế hệ 10.", 21990000, 0, "RedMagic", "RedMagic", "images/products/redmagic/9-pro.jpg", 30, false},

	{"Tecno Phantom V Fold2", "Điện thoại gập ngang, màn hình 7.85 inch, thiết kế sang trọng.", 24990000, 0, "Tecno", "Tecno", "images/products/tecno/phantom-v-fold2.jpg", 15, true},
	{"Tecno Camon 30 Premier", "Tecno Camon 30 Premier với camera 50MP, AI features.", 11990000, 14990000, "Tecno", "Tecno", "images/products/tecno/camon-30-premier.jpg", 50, false},
	{"Tecno Spark 20 Pro+", "Tecno Spark 20 Pro+ với camera 108MP, pin 5000mAh.", 5990000, 0, "Tecno", "Tecno", "images/products/tecno/spark-20-pro-plus.jpg", 100, false},

	{"Benco V80", "Benco V80 với pin 5000mAh, màn hình 6.5 inch HD+.", 1990000, 0, "Benco", "Benco", "images/products/benco/v80.jpg", 200, false},
	{"Benco V80s", "Benco V80s với camera 50MP, pin 5000mAh.", 2490000, 2990000, "Benco", "Benco", "images/products/benco/v80s.jpg", 180, false},
	{"Benco S1", "Benco S1 với màn hình 6.8 inch, pin 5000mAh.", 2990000, 0, "Benco", "Benco", "images/products/benco/s1.jpg", 150, false},
}

var coupons = []couponSeed{
	{"WELCOME500", "Chao mung thanh vien moi", "Giam 500k cho don hang tu 5 trieu", model.DiscountAmount, 500000, 5000000, 500000, -day(1), day(90), 1000},
	{"SALE10", "Giam 10% toan bo", "Giam 10% cho tat ca san pham, toi da 200k", model.DiscountPercent, 10, 0, 200000, -day(1), day(30), 500},
	{"FREESHIP", "Mien phi van chuyen", "Mien phi van chuyen cho don hang tu 2 trieu", model.DiscountAmount, 30000, 2000000, 30000, -day(1), day(60), 2000},
	{"IPHONE15", "Giam 1 trieu iPhone 15", "Giam 1 trieu khi mua iPhone 15 series", model.DiscountAmount, 1000000, 20000000, 1000000, -day(1), day(45), 200},
	{"NEWYEAR2026", "Tet 2026 Sale", "Giam 15% cho don hang tu 10 trieu", model.DiscountPercent, 15, 10000000, 3000000, -day(1), day(30), 300},
}

// Run loads categories, products and coupons into db.
func Run(db *gorm.DB) error {
	store := catalog.NewStore(db)

	catsByName := make(map[string]uint, len(categories))
	for _, cs := range categories {
		var existing model.Category
		err := db.Where("name = ?", cs.Name).First(&existing).Error
		if err == nil {
			catsByName[cs.Name] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup category %q: %w", cs.Name, err)
		}
		c := model.Category{Name: cs.Name, SortOrder: cs.SortOrder, IsActive: true}
		if err := store.CreateCategory(&c); err != nil {
			return fmt.Errorf("create category %q: %w", cs.Name, err)
		}
		catsByName[cs.Name] = c.ID
		log.Printf("seed: created category %s", c.Name)
	}

	created := 0
	for _, ps := range products {
		var count int64
		if err := db.Model(&model.Product{}).Where("name = ?", ps.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("lookup product %q: %w", ps.Name, err)
		}
		if count > 0 {
			continue
		}
		catID := catsByName[ps.Category]
		p := model.Product{
			Name:        ps.Name,
			Description: ps.Description,
			Price:       ps.Price,
			Image:       ps.Image,
			CategoryID:  &catID,
			Brand:       ps.Brand,
			Stock:       ps.Stock,
			IsActive:    true,
			IsFeatured:  ps.IsFeatured,
		}
		if ps.OriginalPrice > 0 {
			op := ps.OriginalPrice
			p.OriginalPrice = &op
		}
		if err := store.ImportProduct(&p); err != nil {
			return fmt.Errorf("import product %q: %w", ps.Name, err)
		}
		created++
	}
	log.Printf("seed: created %d products", created)

	now := time.Now()
	for _, cs := range coupons {
		var count int64
		if err := db.Model(&model.Coupon{}).Where("code = ?", cs.Code).Count(&count).Error; err != nil {
			return fmt.Errorf("lookup coupon %q: %w", cs.Code, err)
		}
		if count > 0 {
			continue
		}
		maxDiscount := cs.MaxDiscount
		c := model.Coupon{
			Code:           cs.Code,
			Name:           cs.Name,
			Description:    cs.Description,
			DiscountType:   cs.DiscountType,
			DiscountValue:  cs.DiscountValue,
			MinOrderAmount: cs.MinOrderAmount,
			MaxDiscount:    &maxDiscount,
			StartDate:      now.Add(cs.StartOffset),
			EndDate:        now.Add(cs.EndOffset),
			IsActive:       true,
			UsageLimit:     cs.UsageLimit,
		}
		if err := db.Create(&c).Error; err != nil {
			return fmt.Errorf("create coupon %q: %w", cs.Code, err)
		}
		log.Printf("seed: created coupon %s", c.Code)
	}
	return nil
}
