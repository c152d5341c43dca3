package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/amazon/model"
	catalogmodel "github.com/covercraft/covershop/internal/catalog/model"
	"github.com/covercraft/covershop/internal/storage"
)

// TemplateService reads and mutates stored product type templates. Parsed
// structure comes from the importer; this service owns the user-facing
// per-field edits and the equipment type links.
type TemplateService struct {
	db    *gorm.DB
	files *storage.FileStore
}

// NewTemplateService creates the service. files may be nil; it is only used
// to drop archived workbooks when a product type is deleted.
func NewTemplateService(db *gorm.DB, files *storage.FileStore) *TemplateService {
	return &TemplateService{db: db, files: files}
}

// UpdateFieldRequest carries the optional per-field edits. A non-nil empty
// SelectedValue or CustomValue clears the stored value.
type UpdateFieldRequest struct {
	Required      *bool   `json:"required,omitempty"`
	SelectedValue *string `json:"selectedValue,omitempty"`
	CustomValue   *string `json:"customValue,omitempty"`
}

// ListProductTypes returns every template with its keywords, fields and
// valid values.
func (s *TemplateService) ListProductTypes(ctx context.Context) ([]model.ProductType, error) {
	var productTypes []model.ProductType
	err := s.db.WithContext(ctx).
		Preload("Keywords").
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Preload("Fields.ValidValues").
		Find(&productTypes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list product types: %w", err)
	}
	return productTypes, nil
}

// GetProductType returns one template by code.
func (s *TemplateService) GetProductType(ctx context.Context, code string) (*model.ProductType, error) {
	var productType model.ProductType
	err := s.db.WithContext(ctx).
		Preload("Keywords").
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Preload("Fields.ValidValues").
		Where("code = ?", code).
		First(&productType).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get product type %q: %w", code, err)
	}
	return &productType, nil
}

// GetFields returns a template's fields in column order.
func (s *TemplateService) GetFields(ctx context.Context, code string) ([]model.ProductTypeField, error) {
	productType, err := s.GetProductType(ctx, code)
	if err != nil {
		return nil, err
	}
	return productType.Fields, nil
}

// GetHeaderRows returns a template's stored header rows.
func (s *TemplateService) GetHeaderRows(ctx context.Context, code string) (model.HeaderRows, error) {
	var productType model.ProductType
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&productType).Error; err != nil {
		return nil, fmt.Errorf("failed to get product type %q: %w", code, err)
	}
	if productType.HeaderRows == nil {
		return model.HeaderRows{}, nil
	}
	return productType.HeaderRows, nil
}

// DeleteProductType removes a template with its fields, values, keywords,
// equipment type links and archived workbook.
func (s *TemplateService) DeleteProductType(ctx context.Context, code string) error {
	var productType model.ProductType
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&productType).Error; err != nil {
		return fmt.Errorf("failed to get product type %q: %w", code, err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fieldIDs := tx.Model(&model.ProductTypeField{}).Select("id").Where("product_type_id = ?", productType.ID)
		if err := tx.Where("product_type_field_id IN (?)", fieldIDs).Delete(&model.ProductTypeFieldValue{}).Error; err != nil {
			return fmt.Errorf("failed to delete valid values: %w", err)
		}
		if err := tx.Where("product_type_id = ?", productType.ID).Delete(&model.ProductTypeField{}).Error; err != nil {
			return fmt.Errorf("failed to delete fields: %w", err)
		}
		if err := tx.Where("product_type_id = ?", productType.ID).Delete(&model.ProductTypeKeyword{}).Error; err != nil {
			return fmt.Errorf("failed to delete keywords: %w", err)
		}
		if err := tx.Where("product_type_id = ?", productType.ID).Delete(&model.EquipmentTypeProductType{}).Error; err != nil {
			return fmt.Errorf("failed to delete equipment type links: %w", err)
		}
		if err := tx.Delete(&productType).Error; err != nil {
			return fmt.Errorf("failed to delete product type: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.files != nil && productType.SourceFileKey != nil {
		if err := s.files.Delete(ctx, *productType.SourceFileKey); err != nil {
			slog.WarnContext(ctx, "failed to delete archived workbook", "key", *productType.SourceFileKey, "error", err)
		}
	}
	return nil
}

// GetField returns one field with its valid values.
func (s *TemplateService) GetField(ctx context.Context, fieldID uint) (*model.ProductTypeField, error) {
	var field model.ProductTypeField
	err := s.db.WithContext(ctx).Preload("ValidValues").First(&field, fieldID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get field %d: %w", fieldID, err)
	}
	return &field, nil
}

// UpdateField applies the requested per-field edits. A selected value must be
// one of the field's valid values; an empty string clears it.
func (s *TemplateService) UpdateField(ctx context.Context, fieldID uint, req UpdateFieldRequest) (*model.ProductTypeField, error) {
	field, err := s.GetField(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Required != nil {
		updates["required"] = *req.Required
	}
	if req.SelectedValue != nil {
		if *req.SelectedValue == "" {
			updates["selected_value"] = nil
		} else {
			if !hasValue(field.ValidValues, *req.SelectedValue) {
				return nil, fmt.Errorf("%w: %q", ErrValueNotAllowed, *req.SelectedValue)
			}
			updates["selected_value"] = *req.SelectedValue
		}
	}
	if req.CustomValue != nil {
		if *req.CustomValue == "" {
			updates["custom_value"] = nil
		} else {
			updates["custom_value"] = *req.CustomValue
		}
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(field).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update field %d: %w", fieldID, err)
		}
	}
	return s.GetField(ctx, fieldID)
}

// AddFieldValue appends a valid value to a field. Adding a value that already
// exists on the field (case-sensitive exact match) is a conflict.
func (s *TemplateService) AddFieldValue(ctx context.Context, fieldID uint, value string) (*model.ProductTypeFieldValue, error) {
	if _, err := s.GetField(ctx, fieldID); err != nil {
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.ProductTypeFieldValue{}).
		Where("product_type_field_id = ? AND value = ?", fieldID, value).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate value: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateValue, value)
	}

	fieldValue := model.ProductTypeFieldValue{ProductTypeFieldID: fieldID, Value: value}
	if err := s.db.WithContext(ctx).Create(&fieldValue).Error; err != nil {
		return nil, fmt.Errorf("failed to create valid value: %w", err)
	}
	return &fieldValue, nil
}

// DeleteFieldValue removes a valid value. If the value is the field's current
// selected value, the selection is cleared in the same transaction.
func (s *TemplateService) DeleteFieldValue(ctx context.Context, fieldID, valueID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var value model.ProductTypeFieldValue
		err := tx.Where("id = ? AND product_type_field_id = ?", valueID, fieldID).First(&value).Error
		if err != nil {
			return fmt.Errorf("failed to get valid value %d: %w", valueID, err)
		}

		if err := tx.Delete(&value).Error; err != nil {
			return fmt.Errorf("failed to delete valid value: %w", err)
		}

		var field model.ProductTypeField
		if err := tx.First(&field, fieldID).Error; err != nil {
			return fmt.Errorf("failed to get field %d: %w", fieldID, err)
		}
		if field.SelectedValue != nil && *field.SelectedValue == value.Value {
			if err := tx.Model(&field).Update("selected_value", nil).Error; err != nil {
				return fmt.Errorf("failed to clear selected value: %w", err)
			}
		}
		return nil
	})
}

// CreateLink associates an equipment type with a product type. Both sides
// must exist; a duplicate pair is a conflict.
func (s *TemplateService) CreateLink(ctx context.Context, equipmentTypeID, productTypeID uint) (*model.EquipmentTypeProductType, error) {
	var equipmentType catalogmodel.EquipmentType
	if err := s.db.WithContext(ctx).First(&equipmentType, equipmentTypeID).Error; err != nil {
		return nil, fmt.Errorf("failed to get equipment type %d: %w", equipmentTypeID, err)
	}
	var productType model.ProductType
	if err := s.db.WithContext(ctx).First(&productType, productTypeID).Error; err != nil {
		return nil, fmt.Errorf("failed to get product type %d: %w", productTypeID, err)
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.EquipmentTypeProductType{}).
		Where("equipment_type_id = ? AND product_type_id = ?", equipmentTypeID, productTypeID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing link: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateLink
	}

	link := model.EquipmentTypeProductType{EquipmentTypeID: equipmentTypeID, ProductTypeID: productTypeID}
	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return &link, nil
}

// ListLinks returns all equipment type links.
func (s *TemplateService) ListLinks(ctx context.Context) ([]model.EquipmentTypeProductType, error) {
	var links []model.EquipmentTypeProductType
	if err := s.db.WithContext(ctx).Order("id").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

// DeleteLink removes one equipment type link.
func (s *TemplateService) DeleteLink(ctx context.Context, linkID uint) error {
	var link model.EquipmentTypeProductType
	if err := s.db.WithContext(ctx).First(&link, linkID).Error; err != nil {
		return fmt.Errorf("failed to get link %d: %w", linkID, err)
	}
	if err := s.db.WithContext(ctx).Delete(&link).Error; err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}

// ProductTypeForEquipmentType resolves the template applied to an equipment
// type, or nil when none is linked. With duplicate links the lowest link id
// wins, matching the export.
func (s *TemplateService) ProductTypeForEquipmentType(ctx context.Context, equipmentTypeID uint) (*model.ProductType, error) {
	var link model.EquipmentTypeProductType
	err := s.db.WithContext(ctx).
		Where("equipment_type_id = ?", equipmentTypeID).
		Order("id").
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up link: %w", err)
	}

	var productType model.ProductType
	if err := s.db.WithContext(ctx).First(&productType, link.ProductTypeID).Error; err != nil {
		return nil, fmt.Errorf("failed to get product type %d: %w", link.ProductTypeID, err)
	}
	return &productType, nil
}

func hasValue(values []model.ProductTypeFieldValue, value string) bool {
	for _, v := range values {
		if v.Value == value {
			return true
		}
	}
	return false
}
