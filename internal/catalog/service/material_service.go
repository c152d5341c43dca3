package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/catalog/model"
)

// MaterialService owns fabrics, their colour surcharges and the supplier
// price book.
type MaterialService struct {
	db *gorm.DB
}

func NewMaterialService(db *gorm.DB) *MaterialService {
	return &MaterialService{db: db}
}

// MaterialRequest carries create/update input for a material.
type MaterialRequest struct {
	Name                string  `json:"name"`
	BaseColour          string  `json:"baseColour"`
	LinearYardWidth     float64 `json:"linearYardWidth"`
	CostPerLinearYard   float64 `json:"costPerLinearYard"`
	WeightPerLinearYard float64 `json:"weightPerLinearYard"`
	LabourTimeMinutes   float64 `json:"labourTimeMinutes"`
}

// ColourSurchargeRequest carries input for one non-base colour surcharge.
type ColourSurchargeRequest struct {
	Colour    string  `json:"colour"`
	Surcharge float64 `json:"surcharge"`
}

// SupplierRequest carries create/update input for a supplier.
type SupplierRequest struct {
	Name string `json:"name"`
}

// SupplierMaterialRequest records what a supplier charges for a material.
type SupplierMaterialRequest struct {
	MaterialID uint    `json:"materialId"`
	UnitCost   float64 `json:"unitCost"`
}

func (s *MaterialService) ListMaterials(ctx context.Context) ([]model.Material, error) {
	var materials []model.Material
	if err := s.db.WithContext(ctx).Preload("ColourSurcharges").Order("name").Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}

func (s *MaterialService) GetMaterial(ctx context.Context, id uint) (*model.Material, error) {
	var material model.Material
	if err := s.db.WithContext(ctx).Preload("ColourSurcharges").First(&material, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get material %d: %w", id, err)
	}
	return &material, nil
}

func (s *MaterialService) CreateMaterial(ctx context.Context, req MaterialRequest) (*model.Material, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("material name cannot be empty")
	}
	if req.LinearYardWidth <= 0 {
		return nil, fmt.Errorf("linear yard width must be positive")
	}

	material := model.Material{
		Name:                strings.TrimSpace(req.Name),
		BaseColour:          req.BaseColour,
		LinearYardWidth:     req.LinearYardWidth,
		CostPerLinearYard:   req.CostPerLinearYard,
		WeightPerLinearYard: req.WeightPerLinearYard,
		LabourTimeMinutes:   req.LabourTimeMinutes,
	}
	if err := s.db.WithContext(ctx).Create(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, material.Name)
		}
		return nil, fmt.Errorf("failed to create material: %w", err)
	}
	return &material, nil
}

func (s *MaterialService) UpdateMaterial(ctx context.Context, id uint, req MaterialRequest) (*model.Material, error) {
	var material model.Material
	if err := s.db.WithContext(ctx).First(&material, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get material %d: %w", id, err)
	}

	material.Name = strings.TrimSpace(req.Name)
	material.BaseColour = req.BaseColour
	material.LinearYardWidth = req.LinearYardWidth
	material.CostPerLinearYard = req.CostPerLinearYard
	material.WeightPerLinearYard = req.WeightPerLinearYard
	material.LabourTimeMinutes = req.LabourTimeMinutes

	if err := s.db.WithContext(ctx).Save(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, material.Name)
		}
		return nil, fmt.Errorf("failed to update material: %w", err)
	}
	return &material, nil
}

func (s *MaterialService) DeleteMaterial(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Material{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete material %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("material %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// AddColourSurcharge appends one non-base colour to a material's palette.
func (s *MaterialService) AddColourSurcharge(ctx context.Context, materialID uint, req ColourSurchargeRequest) (*model.MaterialColourSurcharge, error) {
	if strings.TrimSpace(req.Colour) == "" {
		return nil, fmt.Errorf("colour cannot be empty")
	}
	if err := s.db.WithContext(ctx).First(&model.Material{}, materialID).Error; err != nil {
		return nil, fmt.Errorf("failed to get material %d: %w", materialID, err)
	}

	surcharge := model.MaterialColourSurcharge{
		MaterialID: materialID,
		Colour:     strings.TrimSpace(req.Colour),
		Surcharge:  req.Surcharge,
	}
	if err := s.db.WithContext(ctx).Create(&surcharge).Error; err != nil {
		return nil, fmt.Errorf("failed to create colour surcharge: %w", err)
	}
	return &surcharge, nil
}

func (s *MaterialService) DeleteColourSurcharge(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.MaterialColourSurcharge{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete colour surcharge %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("colour surcharge %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *MaterialService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	if err := s.db.WithContext(ctx).Preload("Materials").Order("name").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *MaterialService) GetSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := s.db.WithContext(ctx).Preload("Materials").First(&supplier, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get supplier %d: %w", id, err)
	}
	return &supplier, nil
}

func (s *MaterialService) CreateSupplier(ctx context.Context, req SupplierRequest) (*model.Supplier, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("supplier name cannot be empty")
	}
	supplier := model.Supplier{Name: strings.TrimSpace(req.Name)}
	if err := s.db.WithContext(ctx).Create(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, supplier.Name)
		}
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return &supplier, nil
}

func (s *MaterialService) UpdateSupplier(ctx context.Context, id uint, req SupplierRequest) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := s.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get supplier %d: %w", id, err)
	}
	supplier.Name = strings.TrimSpace(req.Name)
	if err := s.db.WithContext(ctx).Save(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, supplier.Name)
		}
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return &supplier, nil
}

func (s *MaterialService) DeleteSupplier(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Supplier{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete supplier %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("supplier %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// SetSupplierMaterial creates or updates the supplier's price for a material.
func (s *MaterialService) SetSupplierMaterial(ctx context.Context, supplierID uint, req SupplierMaterialRequest) (*model.SupplierMaterial, error) {
	if err := s.db.WithContext(ctx).First(&model.Supplier{}, supplierID).Error; err != nil {
		return nil, fmt.Errorf("failed to get supplier %d: %w", supplierID, err)
	}
	if err := s.db.WithContext(ctx).First(&model.Material{}, req.MaterialID).Error; err != nil {
		return nil, fmt.Errorf("failed to get material %d: %w", req.MaterialID, err)
	}

	var entry model.SupplierMaterial
	err := s.db.WithContext(ctx).
		Where("supplier_id = ? AND material_id = ?", supplierID, req.MaterialID).
		First(&entry).Error
	switch {
	case err == nil:
		entry.UnitCost = req.UnitCost
		if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
			return nil, fmt.Errorf("failed to update supplier material: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = model.SupplierMaterial{
			SupplierID: supplierID,
			MaterialID: req.MaterialID,
			UnitCost:   req.UnitCost,
		}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return nil, fmt.Errorf("failed to create supplier material: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to query supplier material: %w", err)
	}
	return &entry, nil
}

func (s *MaterialService) DeleteSupplierMaterial(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.SupplierMaterial{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete supplier material %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("supplier material %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
