package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/catalog/model"
	"github.com/covercraft/covershop/internal/config"
)

// pricingFixture seeds one model (20x10x15) and one 54" roll material so the
// fabric maths below stay hand-checkable: with a 2" seam allowance the cover
// needs 1628 sq in, which is 31 linear inches of roll.
type pricingFixture struct {
	db       *gorm.DB
	model    model.Model
	material model.Material
}

func newPricingFixture(t *testing.T) *pricingFixture {
	t.Helper()
	db := newTestDB(t)
	fx := &pricingFixture{db: db}

	manufacturer := model.Manufacturer{Name: "Fender"}
	require.NoError(t, db.Create(&manufacturer).Error)
	series := model.Series{Name: "Hot Rod", ManufacturerID: manufacturer.ID}
	require.NoError(t, db.Create(&series).Error)
	equipmentType := model.EquipmentType{Name: "Combo Amplifier"}
	require.NoError(t, db.Create(&equipmentType).Error)

	fx.model = model.Model{
		Name:            "Deluxe",
		SeriesID:        series.ID,
		EquipmentTypeID: equipmentType.ID,
		Width:           20,
		Depth:           10,
		Height:          15,
	}
	require.NoError(t, db.Create(&fx.model).Error)

	fx.material = model.Material{
		Name:                "Padded Vinyl",
		BaseColour:          "Black",
		LinearYardWidth:     54,
		CostPerLinearYard:   20,
		WeightPerLinearYard: 1.5,
		LabourTimeMinutes:   90,
	}
	require.NoError(t, db.Create(&fx.material).Error)
	require.NoError(t, db.Create(&model.MaterialColourSurcharge{
		MaterialID: fx.material.ID,
		Colour:     "Red",
		Surcharge:  5,
	}).Error)

	return fx
}

func testPricingConfig() *config.PricingConfig {
	return &config.PricingConfig{
		LabourRatePerHour: 30,
		SeamAllowanceIn:   2,
		MarginMultiplier:  1,
	}
}

func TestCalculateBreakdown(t *testing.T) {
	fx := newPricingFixture(t)
	ps := NewPricingService(fx.db, testPricingConfig())

	breakdown, err := ps.Calculate(context.Background(), PricingRequest{
		ModelID:    fx.model.ID,
		MaterialID: fx.material.ID,
		Quantity:   1,
	})
	require.NoError(t, err)

	// 2*(24+14)*17 + 24*14 = 1628 sq in; ceil(1628/54) = 31 linear inches.
	assert.InDelta(t, 1628.0, breakdown.Area, 0.001)
	assert.InDelta(t, 46.0, breakdown.WasteArea, 0.001) // 31*54 - 1628
	assert.InDelta(t, 17.22, breakdown.MaterialCost, 0.001)
	assert.InDelta(t, 45.0, breakdown.LabourCost, 0.001) // 90 min at 30/hr
	assert.InDelta(t, 1.29, breakdown.Weight, 0.001)
	assert.Zero(t, breakdown.ColourSurcharge)
	assert.Zero(t, breakdown.OptionSurcharge)
	assert.Zero(t, breakdown.ShippingCost)
	assert.InDelta(t, 62.22, breakdown.UnitTotal, 0.001)
	assert.InDelta(t, 62.22, breakdown.Total, 0.001)
}

func TestCalculateQuantityScalesTotalNotUnit(t *testing.T) {
	fx := newPricingFixture(t)
	ps := NewPricingService(fx.db, testPricingConfig())

	breakdown, err := ps.Calculate(context.Background(), PricingRequest{
		ModelID:    fx.model.ID,
		MaterialID: fx.material.ID,
		Quantity:   3,
	})
	require.NoError(t, err)

	assert.InDelta(t, 62.22, breakdown.UnitTotal, 0.001)
	assert.InDelta(t, 186.67, breakdown.Total, 0.001)
	assert.InDelta(t, 3.88, breakdown.Weight, 0.001)
}

func TestCalculateMarginMultiplier(t *testing.T) {
	fx := newPricingFixture(t)
	cfg := testPricingConfig()
	cfg.MarginMultiplier = 2.5
	ps := NewPricingService(fx.db, cfg)

	breakdown, err := ps.Calculate(context.Background(), PricingRequest{
		ModelID:    fx.model.ID,
		MaterialID: fx.material.ID,
		Quantity:   1,
	})
	require.NoError(t, err)

	assert.InDelta(t, 155.56, breakdown.UnitTotal, 0.001)
}

func TestCalculateColourSurcharge(t *testing.T) {
	fx := newPricingFixture(t)
	ps := NewPricingService(fx.db, testPricingConfig())
	ctx := context.Background()

	base := PricingRequest{ModelID: fx.model.ID, MaterialID: fx.material.ID, Quantity: 1}

	// The base colour costs nothing, case-insensitively.
	colour := "black"
	base.Colour = &colour
	breakdown, err := ps.Calculate(ctx, base)
	require.NoError(t, err)
	assert.Zero(t, breakdown.ColourSurcharge)

	colour = "Red"
	breakdown, err = ps.Calculate(ctx, base)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, breakdown.ColourSurcharge, 0.001)
	assert.InDelta(t, 67.22, breakdown.UnitTotal, 0.001)

	colour = "Neon"
	_, err = ps.Calculate(ctx, base)
	assert.ErrorIs(t, err, ErrColourNotAvailable)
}

func TestCalculateOptionSurcharge(t *testing.T) {
	fx := newPricingFixture(t)
	ps := NewPricingService(fx.db, testPricingConfig())

	require.NoError(t, fx.db.Create(&model.PricingOption{Name: "Handle Zipper", Price: 12.5}).Error)
	require.NoError(t, fx.db.Create(&model.PricingOption{Name: "2-in-1 Pocket", Price: 8}).Error)

	breakdown, err := ps.Calculate(context.Background(), PricingRequest{
		ModelID:         fx.model.ID,
		MaterialID:      fx.material.ID,
		Quantity:        1,
		HandleZipper:    true,
		TwoInOnePocket:  true,
		MusicRestZipper: true, // not priced by the shop, contributes nothing
	})
	require.NoError(t, err)

	assert.InDelta(t, 20.5, breakdown.OptionSurcharge, 0.001)
	assert.InDelta(t, 82.72, breakdown.UnitTotal, 0.001)
}

func TestCalculateShipping(t *testing.T) {
	fx := newPricingFixture(t)
	ps := NewPricingService(fx.db, testPricingConfig())
	ctx := context.Background()

	require.NoError(t, fx.db.Create(&model.ShippingRate{
		Carrier:   model.CarrierUSPS,
		MinWeight: 0,
		MaxWeight: 5,
		Zone:      "2",
		Rate:      10,
		Surcharge: 1.5,
	}).Error)

	carrier := model.CarrierUSPS
	zone := "2"
	breakdown, err := ps.Calculate(ctx, PricingRequest{
		ModelID:    fx.model.ID,
		MaterialID: fx.material.ID,
		Quantity:   1,
		Carrier:    &carrier,
		Zone:       &zone,
	})
	require.NoError(t, err)
	assert.InDelta(t, 11.5, breakdown.ShippingCost, 0.001)
	assert.InDelta(t, 73.72, breakdown.Total, 0.001)

	// No band covers this weight for the carrier.
	other := model.CarrierDPD
	_, err = ps.Calculate(ctx, PricingRequest{
		ModelID:    fx.model.ID,
		MaterialID: fx.material.ID,
		Quantity:   1,
		Carrier:    &other,
	})
	assert.ErrorIs(t, err, ErrNoShippingRate)
}

func TestCalculateRejectsBadInput(t *testing.T) {
	fx := newPricingFixture(t)
	ps := NewPricingService(fx.db, testPricingConfig())
	ctx := context.Background()

	_, err := ps.Calculate(ctx, PricingRequest{ModelID: fx.model.ID, MaterialID: fx.material.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ps.Calculate(ctx, PricingRequest{ModelID: 999, MaterialID: fx.material.ID, Quantity: 1})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = ps.Calculate(ctx, PricingRequest{ModelID: fx.model.ID, MaterialID: 999, Quantity: 1})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
