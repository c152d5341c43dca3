package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/catalog/model"
)

type orderFixture struct {
	db       *gorm.DB
	customer model.Customer
	model    model.Model
	material model.Material
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := newTestDB(t)
	fx := &orderFixture{db: db}

	manufacturer := model.Manufacturer{Name: "Fender"}
	require.NoError(t, db.Create(&manufacturer).Error)
	series := model.Series{Name: "Hot Rod", ManufacturerID: manufacturer.ID}
	require.NoError(t, db.Create(&series).Error)
	equipmentType := model.EquipmentType{Name: "Combo Amplifier"}
	require.NoError(t, db.Create(&equipmentType).Error)

	fx.model = model.Model{Name: "Deluxe", SeriesID: series.ID, EquipmentTypeID: equipmentType.ID, Width: 24, Depth: 10, Height: 18}
	require.NoError(t, db.Create(&fx.model).Error)
	fx.material = model.Material{Name: "Padded Vinyl", BaseColour: "Black", LinearYardWidth: 54, CostPerLinearYard: 20, WeightPerLinearYard: 1.5, LabourTimeMinutes: 90}
	require.NoError(t, db.Create(&fx.material).Error)
	fx.customer = model.Customer{Name: "Jordan Smith"}
	require.NoError(t, db.Create(&fx.customer).Error)

	return fx
}

func TestCreateOrder(t *testing.T) {
	fx := newOrderFixture(t)
	os := NewOrderService(fx.db)
	ctx := context.Background()

	marketplace := model.MarketplaceAmazon
	orderNumber := "111-2223334-5556667"
	price := 62.22
	created, err := os.CreateOrder(ctx, OrderRequest{
		CustomerID:             fx.customer.ID,
		Marketplace:            &marketplace,
		MarketplaceOrderNumber: &orderNumber,
		Lines: []OrderLineRequest{
			{ModelID: fx.model.ID, MaterialID: fx.material.ID, Quantity: 2, HandleZipper: true, UnitPrice: &price},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Lines, 1)
	assert.Equal(t, 2, created.Lines[0].Quantity)
	assert.True(t, created.Lines[0].HandleZipper)
	assert.False(t, created.OrderDate.IsZero(), "order date defaults to now")

	fetched, err := os.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Lines, 1)
}

func TestCreateOrderValidation(t *testing.T) {
	fx := newOrderFixture(t)
	os := NewOrderService(fx.db)
	ctx := context.Background()

	_, err := os.CreateOrder(ctx, OrderRequest{CustomerID: fx.customer.ID})
	assert.ErrorIs(t, err, ErrOrderHasNoLines)

	_, err = os.CreateOrder(ctx, OrderRequest{
		CustomerID: fx.customer.ID,
		Lines:      []OrderLineRequest{{ModelID: fx.model.ID, MaterialID: fx.material.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = os.CreateOrder(ctx, OrderRequest{
		CustomerID: 999,
		Lines:      []OrderLineRequest{{ModelID: fx.model.ID, MaterialID: fx.material.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// A bad line rolls back the whole order.
	_, err = os.CreateOrder(ctx, OrderRequest{
		CustomerID: fx.customer.ID,
		Lines: []OrderLineRequest{
			{ModelID: fx.model.ID, MaterialID: fx.material.ID, Quantity: 1},
			{ModelID: 999, MaterialID: fx.material.ID, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var orders int64
	require.NoError(t, fx.db.Model(&model.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestListOrdersNewestFirst(t *testing.T) {
	fx := newOrderFixture(t)
	os := NewOrderService(fx.db)
	ctx := context.Background()

	other := model.Customer{Name: "Alex Doe"}
	require.NoError(t, fx.db.Create(&other).Error)

	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	line := []OrderLineRequest{{ModelID: fx.model.ID, MaterialID: fx.material.ID, Quantity: 1}}

	first, err := os.CreateOrder(ctx, OrderRequest{CustomerID: fx.customer.ID, OrderDate: &older, Lines: line})
	require.NoError(t, err)
	second, err := os.CreateOrder(ctx, OrderRequest{CustomerID: other.ID, OrderDate: &newer, Lines: line})
	require.NoError(t, err)

	all, err := os.ListOrders(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	mine, err := os.ListOrders(ctx, &fx.customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}

func TestDeleteOrderRemovesLines(t *testing.T) {
	fx := newOrderFixture(t)
	os := NewOrderService(fx.db)
	ctx := context.Background()

	created, err := os.CreateOrder(ctx, OrderRequest{
		CustomerID: fx.customer.ID,
		Lines:      []OrderLineRequest{{ModelID: fx.model.ID, MaterialID: fx.material.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, os.DeleteOrder(ctx, created.ID))

	var lines int64
	require.NoError(t, fx.db.Model(&model.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, lines)

	assert.ErrorIs(t, os.DeleteOrder(ctx, created.ID), gorm.ErrRecordNotFound)
}
