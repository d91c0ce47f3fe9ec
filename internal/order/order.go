// Package order keeps the order ledger. Totals are derived from item
// snapshots and recomputed on demand, never automatically.
package order

import (
	"errors"
	"fmt"

	"shopmobile/internal/model"
	"shopmobile/pkg/errs"

	"gorm.io/gorm"
)

type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ItemInput references a catalog product to snapshot into a new order.
type ItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

// Create writes an order with its items. Each item snapshots the product's
// current name and price so later catalog changes leave the order intact.
func (l *Ledger) Create(userID uint, addressID *uint, paymentMethod, note string, items []ItemInput) (*model.Order, error) {
	if !model.ValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", errs.ErrValidation, paymentMethod)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", errs.ErrValidation)
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be positive", errs.ErrValidation)
		}
	}

	var o model.Order
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if addressID != nil {
			var cnt int64
			tx.Model(&model.Address{}).Where("id = ? AND user_id = ?", *addressID, userID).Count(&cnt)
			if cnt == 0 {
				return fmt.Errorf("%w: address %d", errs.ErrNotFound, *addressID)
			}
		}

		o = model.Order{
			UserID:            userID,
			Status:            model.StatusPending,
			PaymentMethod:     paymentMethod,
			ShippingAddressID: addressID,
			Note:              note,
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}

		var total int64
		for _, it := range items {
			var p model.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", errs.ErrNotFound, it.ProductID)
				}
				return err
			}
			productID := p.ID
			item := model.OrderItem{
				OrderID:      o.ID,
				ProductID:    &productID,
				ProductName:  p.Name,
				ProductPrice: p.Price,
				Quantity:     it.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total += item.Subtotal()
			o.Items = append(o.Items, item)
		}

		o.TotalAmount = total
		return tx.Model(&model.Order{}).Where("id = ?", o.ID).
			Update("total_amount", total).Error
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (l *Ledger) Get(orderID uint) (*model.Order, error) {
	var o model.Order
	err := l.db.Preload("Items").First(&o, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", errs.ErrNotFound, orderID)
	}
	return &o, err
}

// ListByUser returns the user's orders with items, newest first.
func (l *Ledger) ListByUser(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := l.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// SetStatus replaces the order status. Any status may follow any other.
func (l *Ledger) SetStatus(orderID uint, status string) error {
	if !model.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", errs.ErrValidation, status)
	}
	result := l.db.Model(&model.Order{}).Where("id = ?", orderID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order %d", errs.ErrNotFound, orderID)
	}
	return nil
}

// AddItem appends an item snapshotting the product's current name and
// price. The stored total goes stale until CalculateTotal runs.
func (l *Ledger) AddItem(orderID uint, productID uint, quantity uint) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be positive", errs.ErrValidation)
	}
	var o model.Order
	if err := l.db.First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", errs.ErrNotFound, orderID)
		}
		return err
	}
	var p model.Product
	if err := l.db.First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", errs.ErrNotFound, productID)
		}
		return err
	}
	pid := p.ID
	return l.db.Create(&model.OrderItem{
		OrderID:      orderID,
		ProductID:    &pid,
		ProductName:  p.Name,
		ProductPrice: p.Price,
		Quantity:     quantity,
	}).Error
}

// RemoveItem deletes an item from the order; the stored total goes stale
// until CalculateTotal runs.
func (l *Ledger) RemoveItem(orderID, itemID uint) error {
	result := l.db.Where("id = ? AND order_id = ?", itemID, orderID).Delete(&model.OrderItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order item %d", errs.ErrNotFound, itemID)
	}
	return nil
}

// CalculateTotal sums the item subtotals, writes the result back to the
// order and returns it. Callers must invoke it after mutating items.
func (l *Ledger) CalculateTotal(orderID uint) (int64, error) {
	var o model.Order
	if err := l.db.First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: order %d", errs.ErrNotFound, orderID)
		}
		return 0, err
	}

	var items []model.OrderItem
	if err := l.db.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return 0, err
	}
	var total int64
	for i := range items {
		total += items[i].Subtotal()
	}

	if err := l.db.Model(&model.Order{}).Where("id = ?", orderID).
		Update("total_amount", total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// DeleteOrder removes an order together with its items.
func (l *Ledger) DeleteOrder(orderID uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Order{}, orderID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d", errs.ErrNotFound, orderID)
		}
		return nil
	})
}
