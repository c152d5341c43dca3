package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/catalog/model"
	"github.com/covercraft/covershop/internal/config"
)

// Add-on names looked up in the pricing option table. A missing option simply
// contributes nothing; the shop controls the price list.
const (
	optionNameHandleZipper    = "Handle Zipper"
	optionNameTwoInOnePocket  = "2-in-1 Pocket"
	optionNameMusicRestZipper = "Music Rest Zipper"
)

// PricingRequest asks for a quote: one model in one material and colour, with
// add-on flags, quantity and an optional shipping leg.
type PricingRequest struct {
	ModelID         uint           `json:"modelId"`
	MaterialID      uint           `json:"materialId"`
	Colour          *string        `json:"colour"`
	Quantity        int            `json:"quantity"`
	HandleZipper    bool           `json:"handleZipper"`
	TwoInOnePocket  bool           `json:"twoInOnePocket"`
	MusicRestZipper bool           `json:"musicRestZipper"`
	Carrier         *model.Carrier `json:"carrier"`
	Zone            *string        `json:"zone"`
}

// PricingBreakdown is the quote with every cost component broken out. Areas
// are square inches, weight follows the material's per-yard unit.
type PricingBreakdown struct {
	Area            float64 `json:"area"`
	WasteArea       float64 `json:"wasteArea"`
	MaterialCost    float64 `json:"materialCost"`
	ColourSurcharge float64 `json:"colourSurcharge"`
	LabourCost      float64 `json:"labourCost"`
	OptionSurcharge float64 `json:"optionSurcharge"`
	Weight          float64 `json:"weight"`
	ShippingCost    float64 `json:"shippingCost"`
	UnitTotal       float64 `json:"unitTotal"`
	Total           float64 `json:"total"`
}

// PricingService computes cover quotes from model dimensions and material
// attributes.
type PricingService struct {
	db  *gorm.DB
	cfg *config.PricingConfig
}

func NewPricingService(db *gorm.DB, cfg *config.PricingConfig) *PricingService {
	return &PricingService{db: db, cfg: cfg}
}

// Calculate prices one cover configuration. Fabric consumption is derived
// from the model's outer dimensions plus seam allowance, cut from the
// material's roll width in whole linear-yard fractions; the leftover strip is
// reported as waste.
func (s *PricingService) Calculate(ctx context.Context, req PricingRequest) (*PricingBreakdown, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var m model.Model
	if err := s.db.WithContext(ctx).First(&m, req.ModelID).Error; err != nil {
		return nil, fmt.Errorf("failed to get model %d: %w", req.ModelID, err)
	}
	var material model.Material
	if err := s.db.WithContext(ctx).Preload("ColourSurcharges").First(&material, req.MaterialID).Error; err != nil {
		return nil, fmt.Errorf("failed to get material %d: %w", req.MaterialID, err)
	}
	if material.LinearYardWidth <= 0 {
		return nil, fmt.Errorf("material %d has no roll width configured", material.ID)
	}

	colourSurcharge, err := s.colourSurcharge(&material, req.Colour)
	if err != nil {
		return nil, err
	}

	// Panel layout: one wrap-around side band plus the top face, each cut
	// with seam allowance on every edge.
	seam := s.cfg.SeamAllowanceIn
	effWidth := m.Width + 2*seam
	effDepth := m.Depth + 2*seam
	effHeight := m.Height + seam
	area := 2*(effWidth+effDepth)*effHeight + effWidth*effDepth

	rollWidth := material.LinearYardWidth
	linearInches := math.Ceil(area / rollWidth)
	linearYards := linearInches / 36.0
	wasteArea := linearInches*rollWidth - area

	materialCost := linearYards * material.CostPerLinearYard
	labourCost := material.LabourTimeMinutes / 60.0 * s.cfg.LabourRatePerHour

	optionSurcharge, err := s.optionSurcharge(ctx, req)
	if err != nil {
		return nil, err
	}

	weight := linearYards * material.WeightPerLinearYard * float64(req.Quantity)

	shippingCost := 0.0
	if req.Carrier != nil {
		shippingCost, err = s.shippingCost(ctx, *req.Carrier, req.Zone, weight)
		if err != nil {
			return nil, err
		}
	}

	unitTotal := (materialCost + colourSurcharge + labourCost + optionSurcharge) * s.cfg.MarginMultiplier
	total := unitTotal*float64(req.Quantity) + shippingCost

	return &PricingBreakdown{
		Area:            round2(area),
		WasteArea:       round2(wasteArea),
		MaterialCost:    round2(materialCost),
		ColourSurcharge: round2(colourSurcharge),
		LabourCost:      round2(labourCost),
		OptionSurcharge: round2(optionSurcharge),
		Weight:          round2(weight),
		ShippingCost:    round2(shippingCost),
		UnitTotal:       round2(unitTotal),
		Total:           round2(total),
	}, nil
}

func (s *PricingService) colourSurcharge(material *model.Material, colour *string) (float64, error) {
	if colour == nil || *colour == "" {
		return 0, nil
	}
	if strings.EqualFold(*colour, material.BaseColour) {
		return 0, nil
	}
	for _, surcharge := range material.ColourSurcharges {
		if strings.EqualFold(surcharge.Colour, *colour) {
			return surcharge.Surcharge, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrColourNotAvailable, *colour)
}

func (s *PricingService) optionSurcharge(ctx context.Context, req PricingRequest) (float64, error) {
	names := make([]string, 0, 3)
	if req.HandleZipper {
		names = append(names, optionNameHandleZipper)
	}
	if req.TwoInOnePocket {
		names = append(names, optionNameTwoInOnePocket)
	}
	if req.MusicRestZipper {
		names = append(names, optionNameMusicRestZipper)
	}
	if len(names) == 0 {
		return 0, nil
	}

	var options []model.PricingOption
	if err := s.db.WithContext(ctx).Where("name IN ?", names).Find(&options).Error; err != nil {
		return 0, fmt.Errorf("failed to load pricing options: %w", err)
	}

	total := 0.0
	for _, option := range options {
		total += option.Price
	}
	return total, nil
}

func (s *PricingService) shippingCost(ctx context.Context, carrier model.Carrier, zone *string, weight float64) (float64, error) {
	query := s.db.WithContext(ctx).
		Where("carrier = ? AND min_weight <= ? AND max_weight >= ?", carrier, weight, weight)
	if zone != nil && *zone != "" {
		query = query.Where("zone = ?", *zone)
	}

	var rate model.ShippingRate
	if err := query.Order("rate").First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: %s weight %.2f", ErrNoShippingRate, carrier, weight)
		}
		return 0, fmt.Errorf("failed to look up shipping rate: %w", err)
	}
	return rate.Rate + rate.Surcharge, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
