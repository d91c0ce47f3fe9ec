package address

import (
	"testing"

	"shopmobile/internal/model"
	"shopmobile/internal/testutil"
	"shopmobile/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAddr(name string, isDefault bool) *model.Address {
	return &model.Address{
		FullName:      name,
		Phone:         "0900000000",
		Province:      "TP HCM",
		District:      "Quan 1",
		AddressDetail: "12 Nguyen Trai",
		IsDefault:     isDefault,
	}
}

func countDefaults(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var cnt int64
	require.NoError(t, db.Model(&model.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&cnt).Error)
	return cnt
}

func TestAddFirstAddressBecomesDefault(t *testing.T) {
	db := testutil.OpenDB(t)
	m := NewManager(db)

	a := newAddr("Alice", false)
	require.NoError(t, m.Add(1, a))
	assert.True(t, a.IsDefault)
	assert.Equal(t, int64(1), countDefaults(t, db, 1))
}

func TestAddDefaultDisplacesPrevious(t *testing.T) {
	db := testutil.OpenDB(t)
	m := NewManager(db)

	first := newAddr("Home", true)
	require.NoError(t, m.Add(1, first))
	second := newAddr("Office", true)
	require.NoError(t, m.Add(1, second))

	assert.Equal(t, int64(1), countDefaults(t, db, 1))
	var got model.Address
	require.NoError(t, db.First(&got, first.ID).Error)
	assert.False(t, got.IsDefault)
}

func TestAddNonDefaultKeepsExistingDefault(t *testing.T) {
	db := testutil.OpenDB(t)
	m := NewManager(db)

	first := newAddr("Home", true)
	require.NoError(t, m.Add(1, first))
	second := newAddr("Office", false)
	require.NoError(t, m.Add(1, second))

	assert.False(t, second.IsDefault)
	var got model.Address
	require.NoError(t, db.First(&got, first.ID).Error)
	assert.True(t, got.IsDefault)
}

func TestAddValidation(t *testing.T) {
	db := testutil.OpenDB(t)
	m := NewManager(db)

	a := newAddr("", false)
	assert.ErrorIs(t, m.Add(1, a), errs.ErrValidation)
}

func TestDefaultsAreScopedPerUser(t *testing.T) {
	db := testutil.OpenDB(t)
	m := NewManager(db)

	require.NoError(t, m.Add(1, newAddr("Alice", true)))
	require.NoError(t, m.Add(2, newAddr("Bob", true)))

	assert.Equal(t, int64(1), countDefaults(t, db, 1))
	assert.Equal(t, int64(1), countDefaults(t, db, 2))
}

func TestSetDefault(t *testing.T) {
	db := testutil.OpenDB(t)
	m := NewManager(db)

	first := newAddr("Home", true)
	second := newAddr("Office", false)
	require.NoError(t, m.Add(1, first))
	require.NoError(t, m.Add(1, second))

	require.NoError(t, m.SetDefault(1, second.ID))
	assert.Equal(t, int64(1), countDefaults(t, db, 1))
	var got model.Address
	require.NoError(t, db.First(&got, second.ID).Error)
	assert.True(t, got.IsDefault)

	// Another user's address reads as absent.
	assert.ErrorIs(t, m.SetDefault(2, second.ID), errs.ErrNotFound)
	assert.ErrorIs(t, m.SetDefault(1, 9999), errs.ErrNotFound)
}

func TestDeleteDefaultLeavesNoDefault(t *testing.T) {
	db := testutil.OpenDB(t)
	m := NewManager(db)

	first := newAddr("Home", true)
	second := newAddr("Office", false)
	require.NoError(t, m.Add(1, first))
	require.NoError(t, m.Add(1, second))

	require.NoError(t, m.Delete(1, first.ID))
	assert.Equal(t, int64(0), countDefaults(t, db, 1))
}

func TestDeleteNullsOrderReference(t *testing.T) {
	db := testutil.OpenDB(t)
	m := NewManager(db)

	a := newAddr("Home", true)
	require.NoError(t, m.Add(1, a))

	o := model.Order{UserID: 1, Status: model.StatusPending, PaymentMethod: model.PaymentCOD, ShippingAddressID: &a.ID}
	require.NoError(t, db.Create(&o).Error)

	require.NoError(t, m.Delete(1, a.ID))

	var got model.Order
	require.NoError(t, db.First(&got, o.ID).Error)
	assert.Nil(t, got.ShippingAddressID)

	assert.ErrorIs(t, m.Delete(1, a.ID), errs.ErrNotFound)
}

func TestListOrdersDefaultFirst(t *testing.T) {
	db := testutil.OpenDB(t)
	m := NewManager(db)

	first := newAddr("Home", false)
	second := newAddr("Office", false)
	third := newAddr("Parents", true)
	require.NoError(t, m.Add(1, first))
	require.NoError(t, m.Add(1, second))
	require.NoError(t, m.Add(1, third))

	addrs, err := m.List(1)
	require.NoError(t, err)
	require.Len(t, addrs, 3)
	assert.Equal(t, third.ID, addrs[0].ID)
	assert.True(t, addrs[0].IsDefault)
}
