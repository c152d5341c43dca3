package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/catalog/model"
)

func TestSetPricingOptionsReplacesAssignment(t *testing.T) {
	db := newTestDB(t)
	opts := NewOptionService(db)
	ctx := context.Background()

	combo := model.EquipmentType{Name: "Combo Amplifier"}
	require.NoError(t, db.Create(&combo).Error)

	handle, err := opts.CreatePricingOption(ctx, PricingOptionRequest{Name: "Handle Zipper", Price: 12.5})
	require.NoError(t, err)
	pocket, err := opts.CreatePricingOption(ctx, PricingOptionRequest{Name: "2-in-1 Pocket", Price: 8})
	require.NoError(t, err)

	require.NoError(t, opts.SetPricingOptionsForEquipmentType(ctx, combo.ID, []uint{handle.ID, pocket.ID}))

	assigned, err := opts.PricingOptionsForEquipmentType(ctx, combo.ID)
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	// Setting again replaces the whole assignment.
	require.NoError(t, opts.SetPricingOptionsForEquipmentType(ctx, combo.ID, []uint{pocket.ID}))
	assigned, err = opts.PricingOptionsForEquipmentType(ctx, combo.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "2-in-1 Pocket", assigned[0].Name)

	// An empty list clears it.
	require.NoError(t, opts.SetPricingOptionsForEquipmentType(ctx, combo.ID, nil))
	assigned, err = opts.PricingOptionsForEquipmentType(ctx, combo.ID)
	require.NoError(t, err)
	assert.Empty(t, assigned)

	// Unknown option ids fail the whole request.
	err = opts.SetPricingOptionsForEquipmentType(ctx, combo.ID, []uint{handle.ID, 999})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetPricingOptionsRejectsDuplicateIDs(t *testing.T) {
	db := newTestDB(t)
	opts := NewOptionService(db)
	ctx := context.Background()

	combo := model.EquipmentType{Name: "Combo Amplifier"}
	require.NoError(t, db.Create(&combo).Error)
	handle, err := opts.CreatePricingOption(ctx, PricingOptionRequest{Name: "Handle Zipper", Price: 12.5})
	require.NoError(t, err)

	err = opts.SetPricingOptionsForEquipmentType(ctx, combo.ID, []uint{handle.ID, handle.ID})
	assert.ErrorIs(t, err, ErrDuplicateAssignment)
}

func TestDeletePricingOptionClearsAssignments(t *testing.T) {
	db := newTestDB(t)
	opts := NewOptionService(db)
	ctx := context.Background()

	combo := model.EquipmentType{Name: "Combo Amplifier"}
	require.NoError(t, db.Create(&combo).Error)
	handle, err := opts.CreatePricingOption(ctx, PricingOptionRequest{Name: "Handle Zipper", Price: 12.5})
	require.NoError(t, err)
	require.NoError(t, opts.SetPricingOptionsForEquipmentType(ctx, combo.ID, []uint{handle.ID}))

	require.NoError(t, opts.DeletePricingOption(ctx, handle.ID))

	assigned, err := opts.PricingOptionsForEquipmentType(ctx, combo.ID)
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

func TestDesignOptionAssignment(t *testing.T) {
	db := newTestDB(t)
	opts := NewOptionService(db)
	ctx := context.Background()

	combo := model.EquipmentType{Name: "Combo Amplifier"}
	require.NoError(t, db.Create(&combo).Error)

	description := "Cutout for the top handle"
	cutout, err := opts.CreateDesignOption(ctx, DesignOptionRequest{Name: "Handle Cutout", Description: &description})
	require.NoError(t, err)

	_, err = opts.CreateDesignOption(ctx, DesignOptionRequest{Name: "Handle Cutout"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	require.NoError(t, opts.SetDesignOptionsForEquipmentType(ctx, combo.ID, []uint{cutout.ID}))
	assigned, err := opts.DesignOptionsForEquipmentType(ctx, combo.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "Handle Cutout", assigned[0].Name)
}

func TestShippingRateValidation(t *testing.T) {
	db := newTestDB(t)
	opts := NewOptionService(db)
	ctx := context.Background()

	created, err := opts.CreateShippingRate(ctx, ShippingRateRequest{
		Carrier:   model.CarrierUSPS,
		MinWeight: 0,
		MaxWeight: 5,
		Zone:      "2",
		Rate:      10,
		Surcharge: 1.5,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = opts.CreateShippingRate(ctx, ShippingRateRequest{MinWeight: 0, MaxWeight: 5, Rate: 10})
	assert.Error(t, err, "a rate needs a carrier")

	_, err = opts.CreateShippingRate(ctx, ShippingRateRequest{Carrier: model.CarrierUSPS, MinWeight: 6, MaxWeight: 5, Rate: 10})
	assert.Error(t, err, "an inverted weight band is rejected")

	rates, err := opts.ListShippingRates(ctx)
	require.NoError(t, err)
	assert.Len(t, rates, 1)

	require.NoError(t, opts.DeleteShippingRate(ctx, created.ID))
	assert.ErrorIs(t, opts.DeleteShippingRate(ctx, created.ID), gorm.ErrRecordNotFound)
}
