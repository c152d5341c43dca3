package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/catalog/model"
	"github.com/covercraft/covershop/internal/storage"
	"github.com/covercraft/covershop/utils"
)

// CatalogService owns the manufacturer → series → model hierarchy and the
// equipment type classification.
type CatalogService struct {
	db    *gorm.DB
	files *storage.FileStore
}

func NewCatalogService(db *gorm.DB, files *storage.FileStore) *CatalogService {
	return &CatalogService{db: db, files: files}
}

// ManufacturerRequest carries create/update input for a manufacturer.
type ManufacturerRequest struct {
	Name string `json:"name"`
}

// SeriesRequest carries create/update input for a series.
type SeriesRequest struct {
	Name           string `json:"name"`
	ManufacturerID uint   `json:"manufacturerId"`
}

// EquipmentTypeRequest carries create/update input for an equipment type.
type EquipmentTypeRequest struct {
	Name string `json:"name"`
}

// ModelRequest carries create/update input for a model.
type ModelRequest struct {
	Name            string               `json:"name"`
	SeriesID        uint                 `json:"seriesId"`
	EquipmentTypeID uint                 `json:"equipmentTypeId"`
	Width           float64              `json:"width"`
	Depth           float64              `json:"depth"`
	Height          float64              `json:"height"`
	HandleLength    *float64             `json:"handleLength"`
	HandleWidth     *float64             `json:"handleWidth"`
	HandleLocation  model.HandleLocation `json:"handleLocation"`
	AngleType       model.AngleType      `json:"angleType"`
	ParentSKU       *string              `json:"parentSku"`
}

// ModelFilter narrows the model listing.
type ModelFilter struct {
	SeriesID        *uint
	EquipmentTypeID *uint
	Offset          *int
	Limit           *int
}

func (s *CatalogService) ListManufacturers(ctx context.Context) ([]model.Manufacturer, error) {
	var manufacturers []model.Manufacturer
	if err := s.db.WithContext(ctx).Order("name").Find(&manufacturers).Error; err != nil {
		return nil, fmt.Errorf("failed to list manufacturers: %w", err)
	}
	return manufacturers, nil
}

func (s *CatalogService) GetManufacturer(ctx context.Context, id uint) (*model.Manufacturer, error) {
	var manufacturer model.Manufacturer
	if err := s.db.WithContext(ctx).Preload("Series").First(&manufacturer, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get manufacturer %d: %w", id, err)
	}
	return &manufacturer, nil
}

func (s *CatalogService) CreateManufacturer(ctx context.Context, req ManufacturerRequest) (*model.Manufacturer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("manufacturer name cannot be empty")
	}
	manufacturer := model.Manufacturer{Name: strings.TrimSpace(req.Name)}
	if err := s.db.WithContext(ctx).Create(&manufacturer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, manufacturer.Name)
		}
		return nil, fmt.Errorf("failed to create manufacturer: %w", err)
	}
	return &manufacturer, nil
}

func (s *CatalogService) UpdateManufacturer(ctx context.Context, id uint, req ManufacturerRequest) (*model.Manufacturer, error) {
	var manufacturer model.Manufacturer
	if err := s.db.WithContext(ctx).First(&manufacturer, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get manufacturer %d: %w", id, err)
	}
	manufacturer.Name = strings.TrimSpace(req.Name)
	if err := s.db.WithContext(ctx).Save(&manufacturer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, manufacturer.Name)
		}
		return nil, fmt.Errorf("failed to update manufacturer: %w", err)
	}
	return &manufacturer, nil
}

// DeleteManufacturer removes a manufacturer and, through the FK cascade, its
// series and their models.
func (s *CatalogService) DeleteManufacturer(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Manufacturer{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete manufacturer %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("manufacturer %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *CatalogService) ListSeries(ctx context.Context, manufacturerID *uint) ([]model.Series, error) {
	query := s.db.WithContext(ctx).Order("name")
	if manufacturerID != nil {
		query = query.Where("manufacturer_id = ?", *manufacturerID)
	}
	var series []model.Series
	if err := query.Find(&series).Error; err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	return series, nil
}

func (s *CatalogService) GetSeries(ctx context.Context, id uint) (*model.Series, error) {
	var series model.Series
	if err := s.db.WithContext(ctx).Preload("Models").First(&series, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get series %d: %w", id, err)
	}
	return &series, nil
}

func (s *CatalogService) CreateSeries(ctx context.Context, req SeriesRequest) (*model.Series, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("series name cannot be empty")
	}
	if err := s.db.WithContext(ctx).First(&model.Manufacturer{}, req.ManufacturerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get manufacturer %d: %w", req.ManufacturerID, err)
	}
	series := model.Series{Name: strings.TrimSpace(req.Name), ManufacturerID: req.ManufacturerID}
	if err := s.db.WithContext(ctx).Create(&series).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, series.Name)
		}
		return nil, fmt.Errorf("failed to create series: %w", err)
	}
	return &series, nil
}

func (s *CatalogService) UpdateSeries(ctx context.Context, id uint, req SeriesRequest) (*model.Series, error) {
	var series model.Series
	if err := s.db.WithContext(ctx).First(&series, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get series %d: %w", id, err)
	}
	series.Name = strings.TrimSpace(req.Name)
	if req.ManufacturerID != 0 {
		series.ManufacturerID = req.ManufacturerID
	}
	if err := s.db.WithContext(ctx).Save(&series).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, series.Name)
		}
		return nil, fmt.Errorf("failed to update series: %w", err)
	}
	return &series, nil
}

func (s *CatalogService) DeleteSeries(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Series{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete series %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("series %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *CatalogService) ListEquipmentTypes(ctx context.Context) ([]model.EquipmentType, error) {
	var equipmentTypes []model.EquipmentType
	if err := s.db.WithContext(ctx).Order("name").Find(&equipmentTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to list equipment types: %w", err)
	}
	return equipmentTypes, nil
}

func (s *CatalogService) GetEquipmentType(ctx context.Context, id uint) (*model.EquipmentType, error) {
	var equipmentType model.EquipmentType
	if err := s.db.WithContext(ctx).First(&equipmentType, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get equipment type %d: %w", id, err)
	}
	return &equipmentType, nil
}

func (s *CatalogService) CreateEquipmentType(ctx context.Context, req EquipmentTypeRequest) (*model.EquipmentType, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("equipment type name cannot be empty")
	}
	equipmentType := model.EquipmentType{Name: strings.TrimSpace(req.Name)}
	if err := s.db.WithContext(ctx).Create(&equipmentType).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, equipmentType.Name)
		}
		return nil, fmt.Errorf("failed to create equipment type: %w", err)
	}
	return &equipmentType, nil
}

func (s *CatalogService) UpdateEquipmentType(ctx context.Context, id uint, req EquipmentTypeRequest) (*model.EquipmentType, error) {
	var equipmentType model.EquipmentType
	if err := s.db.WithContext(ctx).First(&equipmentType, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get equipment type %d: %w", id, err)
	}
	equipmentType.Name = strings.TrimSpace(req.Name)
	if err := s.db.WithContext(ctx).Save(&equipmentType).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, equipmentType.Name)
		}
		return nil, fmt.Errorf("failed to update equipment type: %w", err)
	}
	return &equipmentType, nil
}

// DeleteEquipmentType removes the equipment type together with its option
// assignments; junction rows have no FK cascade so they are cleaned up in the
// same transaction.
func (s *CatalogService) DeleteEquipmentType(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var equipmentType model.EquipmentType
		if err := tx.First(&equipmentType, id).Error; err != nil {
			return fmt.Errorf("failed to get equipment type %d: %w", id, err)
		}
		if err := tx.Where("equipment_type_id = ?", id).Delete(&model.EquipmentTypePricingOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete pricing option assignments: %w", err)
		}
		if err := tx.Where("equipment_type_id = ?", id).Delete(&model.EquipmentTypeDesignOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete design option assignments: %w", err)
		}
		if err := tx.Delete(&equipmentType).Error; err != nil {
			return fmt.Errorf("failed to delete equipment type: %w", err)
		}
		return nil
	})
}

func (s *CatalogService) ListModels(ctx context.Context, filter ModelFilter) ([]model.Model, error) {
	offset, limit := utils.GetPaginationParams(filter.Offset, filter.Limit)

	query := s.db.WithContext(ctx).Order("name").Offset(offset).Limit(limit)
	if filter.SeriesID != nil {
		query = query.Where("series_id = ?", *filter.SeriesID)
	}
	if filter.EquipmentTypeID != nil {
		query = query.Where("equipment_type_id = ?", *filter.EquipmentTypeID)
	}

	var models []model.Model
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return models, nil
}

func (s *CatalogService) GetModel(ctx context.Context, id uint) (*model.Model, error) {
	var m model.Model
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get model %d: %w", id, err)
	}
	return &m, nil
}

func (s *CatalogService) CreateModel(ctx context.Context, req ModelRequest) (*model.Model, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	if err := s.db.WithContext(ctx).First(&model.Series{}, req.SeriesID).Error; err != nil {
		return nil, fmt.Errorf("failed to get series %d: %w", req.SeriesID, err)
	}
	if err := s.db.WithContext(ctx).First(&model.EquipmentType{}, req.EquipmentTypeID).Error; err != nil {
		return nil, fmt.Errorf("failed to get equipment type %d: %w", req.EquipmentTypeID, err)
	}

	m := model.Model{
		Name:            strings.TrimSpace(req.Name),
		SeriesID:        req.SeriesID,
		EquipmentTypeID: req.EquipmentTypeID,
		Width:           req.Width,
		Depth:           req.Depth,
		Height:          req.Height,
		HandleLength:    req.HandleLength,
		HandleWidth:     req.HandleWidth,
		HandleLocation:  req.HandleLocation,
		AngleType:       req.AngleType,
		ParentSKU:       req.ParentSKU,
	}
	if m.HandleLocation == "" {
		m.HandleLocation = model.HandleLocationNone
	}
	if m.AngleType == "" {
		m.AngleType = model.AngleTypeTop
	}

	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, m.Name)
		}
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return &m, nil
}

func (s *CatalogService) UpdateModel(ctx context.Context, id uint, req ModelRequest) (*model.Model, error) {
	var m model.Model
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get model %d: %w", id, err)
	}

	m.Name = strings.TrimSpace(req.Name)
	if req.SeriesID != 0 {
		m.SeriesID = req.SeriesID
	}
	if req.EquipmentTypeID != 0 {
		m.EquipmentTypeID = req.EquipmentTypeID
	}
	m.Width = req.Width
	m.Depth = req.Depth
	m.Height = req.Height
	m.HandleLength = req.HandleLength
	m.HandleWidth = req.HandleWidth
	if req.HandleLocation != "" {
		m.HandleLocation = req.HandleLocation
	}
	if req.AngleType != "" {
		m.AngleType = req.AngleType
	}
	m.ParentSKU = req.ParentSKU

	if err := s.db.WithContext(ctx).Save(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, m.Name)
		}
		return nil, fmt.Errorf("failed to update model: %w", err)
	}
	return &m, nil
}

func (s *CatalogService) DeleteModel(ctx context.Context, id uint) error {
	var m model.Model
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return fmt.Errorf("failed to get model %d: %w", id, err)
	}
	if err := s.db.WithContext(ctx).Delete(&m).Error; err != nil {
		return fmt.Errorf("failed to delete model %d: %w", id, err)
	}
	if m.ImageURL != nil {
		s.removeStoredImage(ctx, *m.ImageURL)
	}
	return nil
}

// AttachModelImage stores an uploaded image and records its URL on the model,
// replacing any previous image.
func (s *CatalogService) AttachModelImage(ctx context.Context, id uint, filename string, body io.Reader, size int64, contentType string) (*model.Model, error) {
	var m model.Model
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get model %d: %w", id, err)
	}

	stored, err := s.files.Store(ctx, filename, body, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store model image: %w", err)
	}

	previous := m.ImageURL
	m.ImageURL = &stored.URL
	if err := s.db.WithContext(ctx).Save(&m).Error; err != nil {
		if delErr := s.files.Delete(ctx, stored.Key); delErr != nil {
			return nil, fmt.Errorf("failed to update model image (cleanup also failed: %v): %w", delErr, err)
		}
		return nil, fmt.Errorf("failed to update model image: %w", err)
	}

	if previous != nil {
		s.removeStoredImage(ctx, *previous)
	}
	return &m, nil
}

// removeStoredImage best-effort deletes a previously stored image by its URL.
// Only locally served URLs carry a recoverable key; anything else is left to
// the bucket's own lifecycle rules.
func (s *CatalogService) removeStoredImage(ctx context.Context, url string) {
	trimmed, _, _ := strings.Cut(url, "?")
	key := path.Base(trimmed)
	if key == "" || key == "." || key == "/" {
		return
	}
	if err := s.files.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to delete previous model image", "key", key, "error", err)
	}
}
