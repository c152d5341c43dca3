package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/catalog/model"
)

func TestManufacturerLifecycle(t *testing.T) {
	db := newTestDB(t)
	cs := NewCatalogService(db, nil)
	ctx := context.Background()

	created, err := cs.CreateManufacturer(ctx, ManufacturerRequest{Name: "Fender"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = cs.CreateManufacturer(ctx, ManufacturerRequest{Name: "Fender"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	updated, err := cs.UpdateManufacturer(ctx, created.ID, ManufacturerRequest{Name: "Fender Musical Instruments"})
	require.NoError(t, err)
	assert.Equal(t, "Fender Musical Instruments", updated.Name)

	all, err := cs.ListManufacturers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, cs.DeleteManufacturer(ctx, created.ID))
	assert.ErrorIs(t, cs.DeleteManufacturer(ctx, created.ID), gorm.ErrRecordNotFound)
}

func TestSeriesScopedUniqueness(t *testing.T) {
	db := newTestDB(t)
	cs := NewCatalogService(db, nil)
	ctx := context.Background()

	fender, err := cs.CreateManufacturer(ctx, ManufacturerRequest{Name: "Fender"})
	require.NoError(t, err)
	yamaha, err := cs.CreateManufacturer(ctx, ManufacturerRequest{Name: "Yamaha"})
	require.NoError(t, err)

	_, err = cs.CreateSeries(ctx, SeriesRequest{Name: "Classic", ManufacturerID: fender.ID})
	require.NoError(t, err)

	// Same name under a different manufacturer is fine.
	_, err = cs.CreateSeries(ctx, SeriesRequest{Name: "Classic", ManufacturerID: yamaha.ID})
	require.NoError(t, err)

	_, err = cs.CreateSeries(ctx, SeriesRequest{Name: "Classic", ManufacturerID: fender.ID})
	assert.ErrorIs(t, err, ErrDuplicateName)

	// Unknown manufacturer is rejected up front.
	_, err = cs.CreateSeries(ctx, SeriesRequest{Name: "Orphan", ManufacturerID: 999})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	onlyFender, err := cs.ListSeries(ctx, &fender.ID)
	require.NoError(t, err)
	assert.Len(t, onlyFender, 1)

	all, err := cs.ListSeries(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestModelLifecycle(t *testing.T) {
	db := newTestDB(t)
	cs := NewCatalogService(db, nil)
	ctx := context.Background()

	manufacturer, err := cs.CreateManufacturer(ctx, ManufacturerRequest{Name: "Fender"})
	require.NoError(t, err)
	series, err := cs.CreateSeries(ctx, SeriesRequest{Name: "Hot Rod", ManufacturerID: manufacturer.ID})
	require.NoError(t, err)
	combo, err := cs.CreateEquipmentType(ctx, EquipmentTypeRequest{Name: "Combo Amplifier"})
	require.NoError(t, err)

	created, err := cs.CreateModel(ctx, ModelRequest{
		Name:            "Deluxe",
		SeriesID:        series.ID,
		EquipmentTypeID: combo.ID,
		Width:           24,
		Depth:           10,
		Height:          18,
	})
	require.NoError(t, err)
	assert.Equal(t, model.HandleLocationNone, created.HandleLocation)
	assert.Equal(t, model.AngleTypeTop, created.AngleType)

	_, err = cs.CreateModel(ctx, ModelRequest{Name: "Deluxe", SeriesID: series.ID, EquipmentTypeID: combo.ID, Width: 1, Depth: 1, Height: 1})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = cs.CreateModel(ctx, ModelRequest{Name: "Orphan", SeriesID: 999, EquipmentTypeID: combo.ID, Width: 1, Depth: 1, Height: 1})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	sku := "FEN-DLX-001"
	location := model.HandleLocationTop
	updated, err := cs.UpdateModel(ctx, created.ID, ModelRequest{
		Name:            "Deluxe Reverb",
		SeriesID:        series.ID,
		EquipmentTypeID: combo.ID,
		Width:           24,
		Depth:           10,
		Height:          18,
		HandleLocation:  location,
		AngleType:       model.AngleTypeTop,
		ParentSKU:       &sku,
	})
	require.NoError(t, err)
	assert.Equal(t, "Deluxe Reverb", updated.Name)
	require.NotNil(t, updated.ParentSKU)
	assert.Equal(t, sku, *updated.ParentSKU)

	require.NoError(t, cs.DeleteModel(ctx, created.ID))
	_, err = cs.GetModel(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListModelsFilterAndPagination(t *testing.T) {
	db := newTestDB(t)
	cs := NewCatalogService(db, nil)
	ctx := context.Background()

	manufacturer, err := cs.CreateManufacturer(ctx, ManufacturerRequest{Name: "Fender"})
	require.NoError(t, err)
	series, err := cs.CreateSeries(ctx, SeriesRequest{Name: "Hot Rod", ManufacturerID: manufacturer.ID})
	require.NoError(t, err)
	combo, err := cs.CreateEquipmentType(ctx, EquipmentTypeRequest{Name: "Combo Amplifier"})
	require.NoError(t, err)
	head, err := cs.CreateEquipmentType(ctx, EquipmentTypeRequest{Name: "Amplifier Head"})
	require.NoError(t, err)

	for i, name := range []string{"Deluxe", "DeVille", "Pro Junior"} {
		equipmentTypeID := combo.ID
		if i == 2 {
			equipmentTypeID = head.ID
		}
		_, err := cs.CreateModel(ctx, ModelRequest{
			Name: name, SeriesID: series.ID, EquipmentTypeID: equipmentTypeID,
			Width: 20, Depth: 10, Height: 15,
		})
		require.NoError(t, err)
	}

	combos, err := cs.ListModels(ctx, ModelFilter{EquipmentTypeID: &combo.ID})
	require.NoError(t, err)
	assert.Len(t, combos, 2)

	limit := 2
	offset := 2
	page, err := cs.ListModels(ctx, ModelFilter{Offset: &offset, Limit: &limit})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestDeleteEquipmentTypeClearsAssignments(t *testing.T) {
	db := newTestDB(t)
	cs := NewCatalogService(db, nil)
	opts := NewOptionService(db)
	ctx := context.Background()

	combo, err := cs.CreateEquipmentType(ctx, EquipmentTypeRequest{Name: "Combo Amplifier"})
	require.NoError(t, err)
	option, err := opts.CreatePricingOption(ctx, PricingOptionRequest{Name: "Handle Zipper", Price: 12.5})
	require.NoError(t, err)
	require.NoError(t, opts.SetPricingOptionsForEquipmentType(ctx, combo.ID, []uint{option.ID}))

	require.NoError(t, cs.DeleteEquipmentType(ctx, combo.ID))

	var assignments int64
	require.NoError(t, db.Model(&model.EquipmentTypePricingOption{}).Count(&assignments).Error)
	assert.Zero(t, assignments)
}
