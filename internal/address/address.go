// Package address manages a user's saved addresses and the one-default-
// per-user invariant.
package address

import (
	"fmt"
	"strings"

	"shopmobile/internal/model"
	"shopmobile/pkg/errs"

	"gorm.io/gorm"
)

type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// List returns the user's addresses, default first, newest next.
func (m *Manager) List(userID uint) ([]model.Address, error) {
	var addrs []model.Address
	err := m.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addrs).Error
	return addrs, err
}

// Add saves a new address for the user. The default invariant is applied
// inside one transaction: a default-marked address clears the user's other
// defaults before it is persisted (never a transient two-default state),
// and a non-default address is promoted when the user has no default yet.
func (m *Manager) Add(userID uint, a *model.Address) error {
	if strings.TrimSpace(a.FullName) == "" || strings.TrimSpace(a.Phone) == "" {
		return fmt.Errorf("%w: full name and phone are required", errs.ErrValidation)
	}
	a.UserID = userID
	return m.db.Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := tx.Model(&model.Address{}).
				Where("user_id = ? AND is_default = ?", userID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		} else {
			var cnt int64
			if err := tx.Model(&model.Address{}).
				Where("user_id = ? AND is_default = ?", userID, true).
				Count(&cnt).Error; err != nil {
				return err
			}
			if cnt == 0 {
				a.IsDefault = true
			}
		}
		return tx.Create(a).Error
	})
}

// SetDefault makes the address the user's default, clearing every other
// address of that user first.
func (m *Manager) SetDefault(userID, addressID uint) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Address{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		result := tx.Model(&model.Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Ownership failures read the same as absence; existence of
			// other users' addresses must not leak.
			return fmt.Errorf("%w: address %d", errs.ErrNotFound, addressID)
		}
		return nil
	})
}

// Delete removes the user's address. Orders pointing at it keep their rows
// with the reference nulled. Deleting the default leaves the user with no
// default; no other address is promoted.
func (m *Manager) Delete(userID, addressID uint) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", addressID, userID).
			Delete(&model.Address{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: address %d", errs.ErrNotFound, addressID)
		}
		return tx.Model(&model.Order{}).
			Where("shipping_address_id = ?", addressID).
			Update("shipping_address_id", nil).Error
	})
}
