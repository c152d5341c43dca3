package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/amazon/model"
	"github.com/covercraft/covershop/internal/storage"
)

// Sheet names of an Amazon category listing template workbook.
const (
	sheetDataDefinitions = "Data Definitions"
	sheetValidValues     = "Valid Values"
	sheetDefaultValues   = "Default Values"
	sheetTemplate        = "Template"
)

// headerRowCount is how many leading rows of the Template sheet are kept
// verbatim. Row index 5 is Amazon's example row; exported data starts at row
// index 6.
const headerRowCount = 6

// keywordLabel marks the Valid Values row whose values double as the product
// type's item type keywords.
const keywordLabel = "Item Type Keyword"

// ImportResult reports what an import wrote.
type ImportResult struct {
	ProductCode         string `json:"productCode"`
	FieldsImported      int    `json:"fieldsImported"`
	KeywordsImported    int    `json:"keywordsImported"`
	ValidValuesImported int    `json:"validValuesImported"`
}

// fieldDefinition is what the Data Definitions sheet knows about a field.
type fieldDefinition struct {
	group      string
	localLabel string
}

// templatePosition is a field's place in the Template sheet's column layout.
type templatePosition struct {
	orderIndex  int
	displayName string
	group       string
}

// parsedWorkbook is the workbook reduced to the records the database needs.
type parsedWorkbook struct {
	headerRows    model.HeaderRows
	fieldOrder    []string // field names in column order
	positions     map[string]templatePosition
	definitions   map[string]fieldDefinition
	validValues   map[string][]string
	defaultValues map[string]string
	otherValues   map[string][]string
	keywords      []string
	valueCount    int
}

// fieldOverride is the per-field user state that survives re-import.
type fieldOverride struct {
	required      bool
	selectedValue *string
	customValue   *string
}

// TemplateImporter parses uploaded Amazon template workbooks into product
// type records. Imports for an existing code replace the parsed structure in
// place but keep user-entered field settings.
type TemplateImporter struct {
	db    *gorm.DB
	files *storage.FileStore
}

// NewTemplateImporter creates an importer. files may be nil, in which case
// uploaded workbooks are not archived.
func NewTemplateImporter(db *gorm.DB, files *storage.FileStore) *TemplateImporter {
	return &TemplateImporter{db: db, files: files}
}

// Import parses the workbook and persists the product type structure for the
// given code. The whole database update runs in one transaction; a workbook
// that does not contain a usable Template sheet fails before any write.
func (imp *TemplateImporter) Import(ctx context.Context, content []byte, filename, productCode string) (*ImportResult, error) {
	parsed, err := parseWorkbook(ctx, content)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{ProductCode: productCode}

	err = imp.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productType, overrides, err := imp.replaceExisting(tx, productCode)
		if err != nil {
			return err
		}

		productType.HeaderRows = parsed.headerRows
		if err := tx.Save(productType).Error; err != nil {
			return fmt.Errorf("failed to save header rows: %w", err)
		}

		for _, kw := range parsed.keywords {
			keyword := model.ProductTypeKeyword{ProductTypeID: productType.ID, Keyword: kw}
			if err := tx.Create(&keyword).Error; err != nil {
				return fmt.Errorf("failed to create keyword: %w", err)
			}
			result.KeywordsImported++
		}

		for _, fieldName := range parsed.fieldOrder {
			if err := imp.createField(tx, productType.ID, fieldName, parsed, overrides); err != nil {
				return err
			}
			result.FieldsImported++
		}

		result.ValidValuesImported = parsed.valueCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := imp.archive(ctx, content, filename, productCode); err != nil {
		// The import itself succeeded; a failed archive is not fatal.
		slog.WarnContext(ctx, "failed to archive template workbook", "product_code", productCode, "error", err)
	}

	slog.InfoContext(ctx, "template imported",
		"product_code", productCode,
		"fields", result.FieldsImported,
		"keywords", result.KeywordsImported,
		"valid_values", result.ValidValuesImported,
	)
	return result, nil
}

// replaceExisting finds or creates the product type and, for an existing one,
// snapshots the per-field user settings before deleting the parsed structure.
func (imp *TemplateImporter) replaceExisting(tx *gorm.DB, productCode string) (*model.ProductType, map[string]fieldOverride, error) {
	overrides := make(map[string]fieldOverride)

	var existing model.ProductType
	err := tx.Where("code = ?", productCode).First(&existing).Error
	switch {
	case err == nil:
		var fields []model.ProductTypeField
		if err := tx.Where("product_type_id = ?", existing.ID).Find(&fields).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to load existing fields: %w", err)
		}
		for _, f := range fields {
			overrides[f.FieldName] = fieldOverride{
				required:      f.Required,
				selectedValue: f.SelectedValue,
				customValue:   f.CustomValue,
			}
		}

		fieldIDs := tx.Model(&model.ProductTypeField{}).Select("id").Where("product_type_id = ?", existing.ID)
		if err := tx.Where("product_type_field_id IN (?)", fieldIDs).Delete(&model.ProductTypeFieldValue{}).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to delete old valid values: %w", err)
		}
		if err := tx.Where("product_type_id = ?", existing.ID).Delete(&model.ProductTypeField{}).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to delete old fields: %w", err)
		}
		if err := tx.Where("product_type_id = ?", existing.ID).Delete(&model.ProductTypeKeyword{}).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to delete old keywords: %w", err)
		}
		return &existing, overrides, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		name := titleFromCode(productCode)
		productType := model.ProductType{Code: productCode, Name: &name}
		if err := tx.Create(&productType).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to create product type: %w", err)
		}
		return &productType, overrides, nil

	default:
		return nil, nil, fmt.Errorf("failed to look up product type: %w", err)
	}
}

// createField writes one field and its valid values, restoring any prior user
// settings for the same field name.
func (imp *TemplateImporter) createField(tx *gorm.DB, productTypeID uint, fieldName string, parsed *parsedWorkbook, overrides map[string]fieldOverride) error {
	position := parsed.positions[fieldName]
	definition := parsed.definitions[fieldName]

	group := definition.group
	if group == "" {
		group = position.group
	}
	displayName := position.displayName
	if displayName == "" {
		displayName = definition.localLabel
	}
	defaultValue := parsed.defaultValues[fieldName]

	override := overrides[fieldName]
	customValue := override.customValue
	if customValue == nil && defaultValue != "" {
		customValue = &defaultValue
	}

	field := model.ProductTypeField{
		ProductTypeID:  productTypeID,
		FieldName:      fieldName,
		DisplayName:    optional(displayName),
		AttributeGroup: optional(group),
		Required:       override.required,
		OrderIndex:     position.orderIndex,
		SelectedValue:  override.selectedValue,
		CustomValue:    customValue,
	}
	if err := tx.Create(&field).Error; err != nil {
		return fmt.Errorf("failed to create field %q: %w", fieldName, err)
	}

	values := make([]string, 0, len(parsed.validValues[fieldName])+len(parsed.otherValues[fieldName])+1)
	seen := make(map[string]bool)
	if defaultValue != "" {
		values = append(values, defaultValue)
		seen[defaultValue] = true
	}
	for _, v := range parsed.validValues[fieldName] {
		if !seen[v] {
			values = append(values, v)
			seen[v] = true
		}
	}
	for _, v := range parsed.otherValues[fieldName] {
		if !seen[v] {
			values = append(values, v)
			seen[v] = true
		}
	}

	for _, v := range values {
		value := model.ProductTypeFieldValue{ProductTypeFieldID: field.ID, Value: v}
		if err := tx.Create(&value).Error; err != nil {
			return fmt.Errorf("failed to create valid value for field %q: %w", fieldName, err)
		}
	}
	return nil
}

// archive stores the raw workbook and records its key on the product type,
// replacing any previously archived file.
func (imp *TemplateImporter) archive(ctx context.Context, content []byte, filename, productCode string) error {
	if imp.files == nil {
		return nil
	}

	var productType model.ProductType
	if err := imp.db.WithContext(ctx).Where("code = ?", productCode).First(&productType).Error; err != nil {
		return fmt.Errorf("failed to reload product type: %w", err)
	}

	if productType.SourceFileKey != nil {
		if err := imp.files.Delete(ctx, *productType.SourceFileKey); err != nil {
			slog.WarnContext(ctx, "failed to delete previous workbook", "key", *productType.SourceFileKey, "error", err)
		}
	}

	stored, err := imp.files.Store(ctx, filename, bytes.NewReader(content), int64(len(content)),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err != nil {
		return err
	}

	return imp.db.WithContext(ctx).Model(&productType).Update("source_file_key", stored.Key).Error
}

// parseWorkbook reads the four template sheets. Only the Template sheet is
// mandatory; a workbook without it (or without any field columns) cannot be
// imported.
func parseWorkbook(ctx context.Context, content []byte) (*parsedWorkbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}
	defer f.Close()

	parsed := &parsedWorkbook{
		positions:     make(map[string]templatePosition),
		definitions:   make(map[string]fieldDefinition),
		validValues:   make(map[string][]string),
		defaultValues: make(map[string]string),
		otherValues:   make(map[string][]string),
	}

	labelToField := parseDataDefinitions(ctx, f, parsed)
	if err := parseTemplateSheet(f, parsed); err != nil {
		return nil, err
	}
	parseValidValues(ctx, f, parsed, labelToField)
	parseDefaultValues(ctx, f, parsed, labelToField)

	return parsed, nil
}

// parseDataDefinitions reads group names (column A rows without a column B),
// field names (column B) and local labels (column C), starting at row 3.
// Returns the label -> field name index used by the other sheets.
func parseDataDefinitions(ctx context.Context, f *excelize.File, parsed *parsedWorkbook) map[string]string {
	labelToField := make(map[string]string)

	rows, err := f.GetRows(sheetDataDefinitions)
	if err != nil {
		slog.WarnContext(ctx, "workbook has no Data Definitions sheet", "error", err)
		return labelToField
	}

	currentGroup := ""
	for i := 2; i < len(rows); i++ {
		colA := cellAt(rows[i], 0)
		colB := cellAt(rows[i], 1)
		colC := cellAt(rows[i], 2)

		if colA != "" && colB == "" {
			currentGroup = colA
			continue
		}
		if colB == "" {
			continue
		}

		parsed.definitions[colB] = fieldDefinition{group: currentGroup, localLabel: colC}
		if colC != "" {
			labelToField[colC] = colB
		}
	}
	return labelToField
}

// parseValidValues reads the selectable options per field. Column B carries
// "Local Label - [field_hint]"; columns C onward are the values. The Item
// Type Keyword row additionally feeds the product type's keyword list.
func parseValidValues(ctx context.Context, f *excelize.File, parsed *parsedWorkbook, labelToField map[string]string) {
	rows, err := f.GetRows(sheetValidValues)
	if err != nil {
		slog.WarnContext(ctx, "workbook has no Valid Values sheet", "error", err)
		return
	}

	for _, row := range rows {
		colA := cellAt(row, 0)
		colB := cellAt(row, 1)

		if colA != "" && colB == "" {
			continue // group heading row
		}
		if colB == "" {
			continue
		}

		label, hint := splitLabelHint(colB)

		values := make([]string, 0, len(row))
		for i := 2; i < len(row); i++ {
			if v := strings.TrimSpace(row[i]); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		fieldName := resolveField(label, hint, parsed.definitions, labelToField)
		if fieldName == "" {
			continue
		}

		parsed.validValues[fieldName] = append(parsed.validValues[fieldName], values...)
		parsed.valueCount += len(values)

		if label == keywordLabel {
			parsed.keywords = append(parsed.keywords, values...)
		}
	}
}

// parseDefaultValues reads per-field defaults (column C) and extra valid
// values (columns D onward), starting at row 2.
func parseDefaultValues(ctx context.Context, f *excelize.File, parsed *parsedWorkbook, labelToField map[string]string) {
	rows, err := f.GetRows(sheetDefaultValues)
	if err != nil {
		slog.WarnContext(ctx, "workbook has no Default Values sheet", "error", err)
		return
	}

	for i := 1; i < len(rows); i++ {
		label := cellAt(rows[i], 0)
		fieldCol := cellAt(rows[i], 1)
		defaultValue := cellAt(rows[i], 2)

		if label == "" && fieldCol == "" {
			continue
		}

		fieldName := ""
		if _, ok := parsed.definitions[fieldCol]; ok {
			fieldName = fieldCol
		} else if mapped, ok := labelToField[label]; ok {
			fieldName = mapped
		} else if fieldCol != "" {
			for fn := range parsed.definitions {
				if strings.Contains(fn, fieldCol) || strings.Contains(fieldCol, fn) {
					fieldName = fn
					break
				}
			}
		}
		if fieldName == "" {
			continue
		}

		if defaultValue != "" {
			parsed.defaultValues[fieldName] = defaultValue
		}
		for j := 3; j < len(rows[i]); j++ {
			if v := strings.TrimSpace(rows[i][j]); v != "" {
				parsed.otherValues[fieldName] = append(parsed.otherValues[fieldName], v)
			}
		}
	}
}

// parseTemplateSheet keeps the first rows verbatim as header rows and derives
// the field order from the machine-name row (row index 4). Row index 2 is the
// attribute group band, row index 3 the display names.
func parseTemplateSheet(f *excelize.File, parsed *parsedWorkbook) error {
	rows, err := f.GetRows(sheetTemplate)
	if err != nil {
		return fmt.Errorf("%w: missing %s sheet", ErrBadWorkbook, sheetTemplate)
	}

	for i := 0; i < headerRowCount && i < len(rows); i++ {
		header := make([]*string, len(rows[i]))
		for j := range rows[i] {
			if rows[i][j] != "" {
				v := rows[i][j]
				header[j] = &v
			}
		}
		parsed.headerRows = append(parsed.headerRows, header)
	}

	var groups, displayNames, fieldNames []string
	if len(rows) > 2 {
		groups = rows[2]
	}
	if len(rows) > 3 {
		displayNames = rows[3]
	}
	if len(rows) > 4 {
		fieldNames = rows[4]
	}

	currentGroup := ""
	for idx, raw := range fieldNames {
		fieldName := strings.TrimSpace(raw)
		if fieldName == "" {
			continue
		}
		if g := cellAt(groups, idx); g != "" {
			currentGroup = g
		}
		parsed.fieldOrder = append(parsed.fieldOrder, fieldName)
		parsed.positions[fieldName] = templatePosition{
			orderIndex:  idx,
			displayName: cellAt(displayNames, idx),
			group:       currentGroup,
		}
	}

	if len(parsed.fieldOrder) == 0 {
		return fmt.Errorf("%w: no field columns in %s sheet", ErrBadWorkbook, sheetTemplate)
	}
	return nil
}

// resolveField maps a Valid Values row to a field name: exact label match
// first, then the bracketed hint as a field name substring, then
// case-insensitive containment between labels.
func resolveField(label, hint string, definitions map[string]fieldDefinition, labelToField map[string]string) string {
	if label != "" {
		if fn, ok := labelToField[label]; ok {
			return fn
		}
	}
	if hint != "" {
		for fn := range definitions {
			if strings.Contains(fn, hint) {
				return fn
			}
		}
	}
	if label != "" {
		lower := strings.ToLower(label)
		for known, fn := range labelToField {
			knownLower := strings.ToLower(known)
			if strings.Contains(knownLower, lower) || strings.Contains(lower, knownLower) {
				return fn
			}
		}
	}
	return ""
}

// splitLabelHint splits "Local Label - [field_hint]" into its parts.
func splitLabelHint(s string) (label, hint string) {
	if idx := strings.Index(s, " - ["); idx >= 0 {
		label = strings.TrimSpace(s[:idx])
		hint = strings.TrimSpace(strings.TrimSuffix(s[idx+len(" - ["):], "]"))
		return label, hint
	}
	return s, ""
}

// cellAt returns the trimmed cell at index i, or "" past the row's end.
func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// titleFromCode turns CARRIER_BAG_CASE into "Carrier Bag Case".
func titleFromCode(code string) string {
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(code), "_", " "))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// optional returns nil for the empty string so optional text columns stay
// NULL instead of "".
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
