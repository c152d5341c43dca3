package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/catalog/model"
)

// OptionService owns priced add-ons, design variants, their equipment type
// assignments and the shipping rate table.
type OptionService struct {
	db *gorm.DB
}

func NewOptionService(db *gorm.DB) *OptionService {
	return &OptionService{db: db}
}

// PricingOptionRequest carries create/update input for a priced add-on.
type PricingOptionRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// DesignOptionRequest carries create/update input for a design variant.
type DesignOptionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ShippingRateRequest carries create input for one carrier rate band.
type ShippingRateRequest struct {
	Carrier   model.Carrier `json:"carrier"`
	MinWeight float64       `json:"minWeight"`
	MaxWeight float64       `json:"maxWeight"`
	Zone      string        `json:"zone"`
	Rate      float64       `json:"rate"`
	Surcharge float64       `json:"surcharge"`
}

func (s *OptionService) ListPricingOptions(ctx context.Context) ([]model.PricingOption, error) {
	var options []model.PricingOption
	if err := s.db.WithContext(ctx).Order("name").Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to list pricing options: %w", err)
	}
	return options, nil
}

func (s *OptionService) GetPricingOption(ctx context.Context, id uint) (*model.PricingOption, error) {
	var option model.PricingOption
	if err := s.db.WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get pricing option %d: %w", id, err)
	}
	return &option, nil
}

func (s *OptionService) CreatePricingOption(ctx context.Context, req PricingOptionRequest) (*model.PricingOption, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("pricing option name cannot be empty")
	}
	option := model.PricingOption{Name: strings.TrimSpace(req.Name), Price: req.Price}
	if err := s.db.WithContext(ctx).Create(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, option.Name)
		}
		return nil, fmt.Errorf("failed to create pricing option: %w", err)
	}
	return &option, nil
}

func (s *OptionService) UpdatePricingOption(ctx context.Context, id uint, req PricingOptionRequest) (*model.PricingOption, error) {
	var option model.PricingOption
	if err := s.db.WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get pricing option %d: %w", id, err)
	}
	option.Name = strings.TrimSpace(req.Name)
	option.Price = req.Price
	if err := s.db.WithContext(ctx).Save(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, option.Name)
		}
		return nil, fmt.Errorf("failed to update pricing option: %w", err)
	}
	return &option, nil
}

func (s *OptionService) DeletePricingOption(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var option model.PricingOption
		if err := tx.First(&option, id).Error; err != nil {
			return fmt.Errorf("failed to get pricing option %d: %w", id, err)
		}
		if err := tx.Where("pricing_option_id = ?", id).Delete(&model.EquipmentTypePricingOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete option assignments: %w", err)
		}
		if err := tx.Delete(&option).Error; err != nil {
			return fmt.Errorf("failed to delete pricing option: %w", err)
		}
		return nil
	})
}

// PricingOptionsForEquipmentType resolves the priced add-ons offered for one
// equipment type.
func (s *OptionService) PricingOptionsForEquipmentType(ctx context.Context, equipmentTypeID uint) ([]model.PricingOption, error) {
	if err := s.db.WithContext(ctx).First(&model.EquipmentType{}, equipmentTypeID).Error; err != nil {
		return nil, fmt.Errorf("failed to get equipment type %d: %w", equipmentTypeID, err)
	}

	var options []model.PricingOption
	err := s.db.WithContext(ctx).
		Joins("JOIN equipment_type_pricing_options a ON a.pricing_option_id = pricing_options.id").
		Where("a.equipment_type_id = ?", equipmentTypeID).
		Order("pricing_options.name").
		Find(&options).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing options for equipment type %d: %w", equipmentTypeID, err)
	}
	return options, nil
}

// SetPricingOptionsForEquipmentType replaces the equipment type's priced
// add-on assignment set wholesale.
func (s *OptionService) SetPricingOptionsForEquipmentType(ctx context.Context, equipmentTypeID uint, optionIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.EquipmentType{}, equipmentTypeID).Error; err != nil {
			return fmt.Errorf("failed to get equipment type %d: %w", equipmentTypeID, err)
		}
		for _, optionID := range optionIDs {
			if err := tx.First(&model.PricingOption{}, optionID).Error; err != nil {
				return fmt.Errorf("failed to get pricing option %d: %w", optionID, err)
			}
		}
		if err := tx.Where("equipment_type_id = ?", equipmentTypeID).Delete(&model.EquipmentTypePricingOption{}).Error; err != nil {
			return fmt.Errorf("failed to clear option assignments: %w", err)
		}
		for _, optionID := range optionIDs {
			assignment := model.EquipmentTypePricingOption{
				EquipmentTypeID: equipmentTypeID,
				PricingOptionID: optionID,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: pricing option %d", ErrDuplicateAssignment, optionID)
				}
				return fmt.Errorf("failed to assign pricing option %d: %w", optionID, err)
			}
		}
		return nil
	})
}

func (s *OptionService) ListDesignOptions(ctx context.Context) ([]model.DesignOption, error) {
	var options []model.DesignOption
	if err := s.db.WithContext(ctx).Order("name").Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to list design options: %w", err)
	}
	return options, nil
}

func (s *OptionService) GetDesignOption(ctx context.Context, id uint) (*model.DesignOption, error) {
	var option model.DesignOption
	if err := s.db.WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get design option %d: %w", id, err)
	}
	return &option, nil
}

func (s *OptionService) CreateDesignOption(ctx context.Context, req DesignOptionRequest) (*model.DesignOption, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("design option name cannot be empty")
	}
	option := model.DesignOption{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := s.db.WithContext(ctx).Create(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, option.Name)
		}
		return nil, fmt.Errorf("failed to create design option: %w", err)
	}
	return &option, nil
}

func (s *OptionService) UpdateDesignOption(ctx context.Context, id uint, req DesignOptionRequest) (*model.DesignOption, error) {
	var option model.DesignOption
	if err := s.db.WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get design option %d: %w", id, err)
	}
	option.Name = strings.TrimSpace(req.Name)
	option.Description = req.Description
	if err := s.db.WithContext(ctx).Save(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, option.Name)
		}
		return nil, fmt.Errorf("failed to update design option: %w", err)
	}
	return &option, nil
}

func (s *OptionService) DeleteDesignOption(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var option model.DesignOption
		if err := tx.First(&option, id).Error; err != nil {
			return fmt.Errorf("failed to get design option %d: %w", id, err)
		}
		if err := tx.Where("design_option_id = ?", id).Delete(&model.EquipmentTypeDesignOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete option assignments: %w", err)
		}
		if err := tx.Delete(&option).Error; err != nil {
			return fmt.Errorf("failed to delete design option: %w", err)
		}
		return nil
	})
}

// DesignOptionsForEquipmentType resolves the design variants offered for one
// equipment type.
func (s *OptionService) DesignOptionsForEquipmentType(ctx context.Context, equipmentTypeID uint) ([]model.DesignOption, error) {
	if err := s.db.WithContext(ctx).First(&model.EquipmentType{}, equipmentTypeID).Error; err != nil {
		return nil, fmt.Errorf("failed to get equipment type %d: %w", equipmentTypeID, err)
	}

	var options []model.DesignOption
	err := s.db.WithContext(ctx).
		Joins("JOIN equipment_type_design_options a ON a.design_option_id = design_options.id").
		Where("a.equipment_type_id = ?", equipmentTypeID).
		Order("design_options.name").
		Find(&options).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list design options for equipment type %d: %w", equipmentTypeID, err)
	}
	return options, nil
}

// SetDesignOptionsForEquipmentType replaces the equipment type's design
// variant assignment set wholesale.
func (s *OptionService) SetDesignOptionsForEquipmentType(ctx context.Context, equipmentTypeID uint, optionIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.EquipmentType{}, equipmentTypeID).Error; err != nil {
			return fmt.Errorf("failed to get equipment type %d: %w", equipmentTypeID, err)
		}
		for _, optionID := range optionIDs {
			if err := tx.First(&model.DesignOption{}, optionID).Error; err != nil {
				return fmt.Errorf("failed to get design option %d: %w", optionID, err)
			}
		}
		if err := tx.Where("equipment_type_id = ?", equipmentTypeID).Delete(&model.EquipmentTypeDesignOption{}).Error; err != nil {
			return fmt.Errorf("failed to clear option assignments: %w", err)
		}
		for _, optionID := range optionIDs {
			assignment := model.EquipmentTypeDesignOption{
				EquipmentTypeID: equipmentTypeID,
				DesignOptionID:  optionID,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: design option %d", ErrDuplicateAssignment, optionID)
				}
				return fmt.Errorf("failed to assign design option %d: %w", optionID, err)
			}
		}
		return nil
	})
}

func (s *OptionService) ListShippingRates(ctx context.Context) ([]model.ShippingRate, error) {
	var rates []model.ShippingRate
	if err := s.db.WithContext(ctx).Order("carrier, zone, min_weight").Find(&rates).Error; err != nil {
		return nil, fmt.Errorf("failed to list shipping rates: %w", err)
	}
	return rates, nil
}

func (s *OptionService) CreateShippingRate(ctx context.Context, req ShippingRateRequest) (*model.ShippingRate, error) {
	if req.Carrier == "" {
		return nil, fmt.Errorf("carrier cannot be empty")
	}
	if req.MaxWeight < req.MinWeight {
		return nil, fmt.Errorf("max weight must not be below min weight")
	}
	rate := model.ShippingRate{
		Carrier:   req.Carrier,
		MinWeight: req.MinWeight,
		MaxWeight: req.MaxWeight,
		Zone:      req.Zone,
		Rate:      req.Rate,
		Surcharge: req.Surcharge,
	}
	if err := s.db.WithContext(ctx).Create(&rate).Error; err != nil {
		return nil, fmt.Errorf("failed to create shipping rate: %w", err)
	}
	return &rate, nil
}

func (s *OptionService) DeleteShippingRate(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.ShippingRate{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete shipping rate %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("shipping rate %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
