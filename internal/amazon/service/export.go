package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/amazon/model"
	catalogmodel "github.com/covercraft/covershop/internal/catalog/model"
)

// ListingType selects how export rows are keyed on the marketplace.
type ListingType string

const (
	// ListingTypeIndividual produces one standalone listing row per model.
	ListingTypeIndividual ListingType = "individual"
	// ListingTypeParentChild is accepted but not implemented.
	ListingTypeParentChild ListingType = "parent_child"
)

// ExportRow is one model's projected data row.
type ExportRow struct {
	ModelID   uint      `json:"modelId"`
	ModelName string    `json:"modelName"`
	Data      []*string `json:"data"`
}

// ExportPreview is the header grid plus one data row per requested model.
type ExportPreview struct {
	Headers      model.HeaderRows `json:"headers"`
	Rows         []ExportRow      `json:"rows"`
	TemplateCode string           `json:"templateCode"`
}

// ExportService projects models onto their linked Amazon template. It is
// read-only; nothing here mutates stored data.
type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// Preview resolves every model's template via its equipment type link and
// builds the export grid. All models must resolve to the same product type.
func (s *ExportService) Preview(ctx context.Context, modelIDs []uint, listingType ListingType) (*ExportPreview, error) {
	switch listingType {
	case ListingTypeIndividual:
		// supported
	case ListingTypeParentChild:
		return nil, fmt.Errorf("%w: %s", ErrListingTypeUnsupported, listingType)
	default:
		return nil, fmt.Errorf("invalid listing type %q", listingType)
	}

	if len(modelIDs) == 0 {
		return nil, ErrNoModels
	}

	models, err := s.loadModels(ctx, modelIDs)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, ErrNoModels
	}

	productType, fields, err := s.resolveTemplate(ctx, models)
	if err != nil {
		return nil, err
	}

	seriesByID, manufacturersByID, err := s.loadLineage(ctx, models)
	if err != nil {
		return nil, err
	}

	preview := &ExportPreview{
		Headers:      productType.HeaderRows,
		TemplateCode: productType.Code,
	}
	if preview.Headers == nil {
		preview.Headers = model.HeaderRows{}
	}

	for _, m := range models {
		series := seriesByID[m.SeriesID]
		var manufacturer *catalogmodel.Manufacturer
		if series != nil {
			manufacturer = manufacturersByID[series.ManufacturerID]
		}

		data := make([]*string, len(fields))
		for i, field := range fields {
			data[i] = fieldValue(field, m, series, manufacturer)
		}
		preview.Rows = append(preview.Rows, ExportRow{
			ModelID:   m.ID,
			ModelName: m.Name,
			Data:      data,
		})
	}

	return preview, nil
}

// WriteXLSX writes the preview as a workbook: header rows verbatim, then one
// row per model.
func (s *ExportService) WriteXLSX(preview *ExportPreview, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Template"
	f.SetSheetName(f.GetSheetName(0), sheet)

	rowIdx := 1
	for _, header := range preview.Headers {
		cells := make([]interface{}, len(header))
		for i, cell := range header {
			if cell != nil {
				cells[i] = *cell
			}
		}
		start, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
		rowIdx++
	}

	for _, row := range preview.Rows {
		cells := make([]interface{}, len(row.Data))
		for i, cell := range row.Data {
			if cell != nil {
				cells[i] = *cell
			}
		}
		start, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
		rowIdx++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteCSV writes the preview as CSV with the same row layout as the
// workbook export.
func (s *ExportService) WriteCSV(preview *ExportPreview, w io.Writer) error {
	cw := csv.NewWriter(w)

	width := 0
	for _, header := range preview.Headers {
		if len(header) > width {
			width = len(header)
		}
	}
	for _, row := range preview.Rows {
		if len(row.Data) > width {
			width = len(row.Data)
		}
	}

	record := func(cells []*string) []string {
		out := make([]string, width)
		for i, cell := range cells {
			if cell != nil {
				out[i] = *cell
			}
		}
		return out
	}

	for _, header := range preview.Headers {
		if err := cw.Write(record(header)); err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
	}
	for _, row := range preview.Rows {
		if err := cw.Write(record(row.Data)); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// loadModels fetches the requested models and returns them in request order.
// Unknown ids are skipped; callers see them as missing rows.
func (s *ExportService) loadModels(ctx context.Context, modelIDs []uint) ([]*catalogmodel.Model, error) {
	var found []catalogmodel.Model
	if err := s.db.WithContext(ctx).Where("id IN ?", modelIDs).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}

	byID := make(map[uint]*catalogmodel.Model, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	models := make([]*catalogmodel.Model, 0, len(modelIDs))
	for _, id := range modelIDs {
		if m, ok := byID[id]; ok {
			models = append(models, m)
		}
	}
	return models, nil
}

// resolveTemplate maps every model to a product type through its equipment
// type link and requires that exactly one product type is involved. With
// duplicate links for an equipment type, the lowest link id wins.
func (s *ExportService) resolveTemplate(ctx context.Context, models []*catalogmodel.Model) (*model.ProductType, []model.ProductTypeField, error) {
	equipmentTypeIDs := make([]uint, 0, len(models))
	seen := make(map[uint]bool)
	for _, m := range models {
		if !seen[m.EquipmentTypeID] {
			seen[m.EquipmentTypeID] = true
			equipmentTypeIDs = append(equipmentTypeIDs, m.EquipmentTypeID)
		}
	}

	var links []model.EquipmentTypeProductType
	err := s.db.WithContext(ctx).
		Where("equipment_type_id IN ?", equipmentTypeIDs).
		Order("id").
		Find(&links).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load equipment type links: %w", err)
	}

	linkByEquipmentType := make(map[uint]uint)
	for _, l := range links {
		if _, ok := linkByEquipmentType[l.EquipmentTypeID]; !ok {
			linkByEquipmentType[l.EquipmentTypeID] = l.ProductTypeID
		}
	}

	var productTypeID uint
	for _, etID := range equipmentTypeIDs {
		ptID, ok := linkByEquipmentType[etID]
		if !ok {
			name := s.equipmentTypeName(ctx, etID)
			return nil, nil, fmt.Errorf("%w: %s", ErrNoTemplateLink, name)
		}
		if productTypeID == 0 {
			productTypeID = ptID
		} else if productTypeID != ptID {
			return nil, nil, ErrMixedTemplates
		}
	}

	var productType model.ProductType
	if err := s.db.WithContext(ctx).First(&productType, productTypeID).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load product type %d: %w", productTypeID, err)
	}

	var fields []model.ProductTypeField
	err = s.db.WithContext(ctx).
		Where("product_type_id = ?", productTypeID).
		Order("order_index").
		Find(&fields).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load template fields: %w", err)
	}

	return &productType, fields, nil
}

// loadLineage builds id lookup indices for the series and manufacturers the
// models hang off, one query per table.
func (s *ExportService) loadLineage(ctx context.Context, models []*catalogmodel.Model) (map[uint]*catalogmodel.Series, map[uint]*catalogmodel.Manufacturer, error) {
	seriesIDs := make([]uint, 0, len(models))
	seen := make(map[uint]bool)
	for _, m := range models {
		if !seen[m.SeriesID] {
			seen[m.SeriesID] = true
			seriesIDs = append(seriesIDs, m.SeriesID)
		}
	}

	var series []catalogmodel.Series
	if err := s.db.WithContext(ctx).Where("id IN ?", seriesIDs).Find(&series).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load series: %w", err)
	}
	seriesByID := make(map[uint]*catalogmodel.Series, len(series))
	manufacturerIDs := make([]uint, 0, len(series))
	seenMfr := make(map[uint]bool)
	for i := range series {
		seriesByID[series[i].ID] = &series[i]
		if !seenMfr[series[i].ManufacturerID] {
			seenMfr[series[i].ManufacturerID] = true
			manufacturerIDs = append(manufacturerIDs, series[i].ManufacturerID)
		}
	}

	var manufacturers []catalogmodel.Manufacturer
	if len(manufacturerIDs) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", manufacturerIDs).Find(&manufacturers).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to load manufacturers: %w", err)
		}
	}
	manufacturersByID := make(map[uint]*catalogmodel.Manufacturer, len(manufacturers))
	for i := range manufacturers {
		manufacturersByID[manufacturers[i].ID] = &manufacturers[i]
	}

	return seriesByID, manufacturersByID, nil
}

func (s *ExportService) equipmentTypeName(ctx context.Context, id uint) string {
	var equipmentType catalogmodel.EquipmentType
	if err := s.db.WithContext(ctx).First(&equipmentType, id).Error; err != nil {
		return fmt.Sprintf("equipment type %d", id)
	}
	return equipmentType.Name
}

// fieldValue projects one template field for one model. Precedence: the
// user's custom value, then the selected default, then a value derived from
// the model for well-known field names, then empty.
func fieldValue(field model.ProductTypeField, m *catalogmodel.Model, series *catalogmodel.Series, manufacturer *catalogmodel.Manufacturer) *string {
	if field.CustomValue != nil && *field.CustomValue != "" {
		return field.CustomValue
	}
	if field.SelectedValue != nil && *field.SelectedValue != "" {
		return field.SelectedValue
	}

	name := strings.ToLower(field.FieldName)

	switch {
	case strings.Contains(name, "contribution_sku") || strings.HasSuffix(name, "_sku") || name == "sku":
		return m.ParentSKU

	case strings.Contains(name, "item_name") || strings.Contains(name, "product_name") || strings.Contains(name, "title"):
		mfrName := ""
		if manufacturer != nil {
			mfrName = manufacturer.Name
		}
		seriesName := ""
		if series != nil {
			seriesName = series.Name
		}
		title := strings.Join(strings.Fields(fmt.Sprintf("%s %s %s Cover", mfrName, seriesName, m.Name)), " ")
		return &title

	case strings.Contains(name, "brand"):
		if manufacturer != nil {
			return &manufacturer.Name
		}
		return nil

	case strings.Contains(name, "model"):
		return &m.Name

	case strings.Contains(name, "manufacturer"):
		if manufacturer != nil {
			return &manufacturer.Name
		}
		return nil
	}

	return nil
}
