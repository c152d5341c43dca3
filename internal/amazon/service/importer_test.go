package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/covercraft/covershop/internal/amazon/model"
)

// buildTemplateWorkbook assembles a small but structurally faithful Amazon
// category template: Data Definitions, Valid Values, Default Values and the
// Template sheet with its six header rows.
func buildTemplateWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	set := func(sheet, cell string, values []interface{}) {
		t.Helper()
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("failed to set row %s!%s: %v", sheet, cell, err)
		}
	}

	for _, sheet := range []string{"Data Definitions", "Valid Values", "Default Values", "Template"} {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("failed to create sheet %s: %v", sheet, err)
		}
	}

	set("Data Definitions", "A1", []interface{}{"Field Definitions"})
	set("Data Definitions", "A2", []interface{}{"Group", "Field Name", "Local Label"})
	set("Data Definitions", "A3", []interface{}{"Required"})
	set("Data Definitions", "A4", []interface{}{"", "item_sku", "Seller SKU"})
	set("Data Definitions", "A5", []interface{}{"", "item_name", "Product Name"})
	set("Data Definitions", "A6", []interface{}{"", "feed_product_type", "Product Type"})
	set("Data Definitions", "A7", []interface{}{"", "item_type", "Item Type Keyword"})
	set("Data Definitions", "A8", []interface{}{"Offer"})
	set("Data Definitions", "A9", []interface{}{"", "color_name", "Colour"})

	set("Valid Values", "A1", []interface{}{"Valid Values"})
	set("Valid Values", "A2", []interface{}{"", "Colour - [color_name]", "Black", "Grey"})
	set("Valid Values", "A3", []interface{}{"", "Item Type Keyword", "amp-covers", "keyboard-covers"})

	set("Default Values", "A1", []interface{}{"Label", "Field", "Default", "Other Values"})
	set("Default Values", "A2", []interface{}{"Product Type", "feed_product_type", "guitar-amp-covers", "bass-amp-covers"})

	set("Template", "A1", []interface{}{"TemplateType=fptcustom", "Version=2021.0805"})
	set("Template", "A2", []interface{}{"The top 3 rows are for Amazon.com use only."})
	set("Template", "A3", []interface{}{"Required", "", "", "", "Offer"})
	set("Template", "A4", []interface{}{"Seller SKU", "Product Name", "Product Type", "Item Type Keyword", "Colour"})
	set("Template", "A5", []interface{}{"item_sku", "item_name", "feed_product_type", "item_type", "color_name"})
	set("Template", "A6", []interface{}{"EXAMPLE-SKU", "Example Cover", "guitar-amp-covers", "amp-covers", "Black"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}
	return buf.Bytes()
}

func TestImportCreatesProductType(t *testing.T) {
	db := newTestDB(t)
	importer := NewTemplateImporter(db, nil)
	ctx := context.Background()

	result, err := importer.Import(ctx, buildTemplateWorkbook(t), "carrier_case.xlsx", "CARRIER_CASE")
	require.NoError(t, err)

	assert.Equal(t, "CARRIER_CASE", result.ProductCode)
	assert.Equal(t, 5, result.FieldsImported)
	assert.Equal(t, 2, result.KeywordsImported)
	assert.Equal(t, 4, result.ValidValuesImported)

	var productType model.ProductType
	require.NoError(t, db.Where("code = ?", "CARRIER_CASE").First(&productType).Error)
	require.NotNil(t, productType.Name)
	assert.Equal(t, "Carrier Case", *productType.Name)
	assert.Len(t, productType.HeaderRows, 6)

	var fields []model.ProductTypeField
	require.NoError(t, db.Where("product_type_id = ?", productType.ID).Order("order_index").Find(&fields).Error)
	require.Len(t, fields, 5)

	assert.Equal(t, "item_sku", fields[0].FieldName)
	assert.Equal(t, 0, fields[0].OrderIndex)
	assert.Equal(t, "color_name", fields[4].FieldName)
	assert.Equal(t, 4, fields[4].OrderIndex)

	// Group comes from the definitions sheet, display name from the template.
	require.NotNil(t, fields[4].AttributeGroup)
	assert.Equal(t, "Offer", *fields[4].AttributeGroup)
	require.NotNil(t, fields[4].DisplayName)
	assert.Equal(t, "Colour", *fields[4].DisplayName)

	// Parsed default lands as the custom value fallback.
	var productTypeField model.ProductTypeField
	require.NoError(t, db.Where("product_type_id = ? AND field_name = ?", productType.ID, "feed_product_type").First(&productTypeField).Error)
	require.NotNil(t, productTypeField.CustomValue)
	assert.Equal(t, "guitar-amp-covers", *productTypeField.CustomValue)

	var values []model.ProductTypeFieldValue
	require.NoError(t, db.Where("product_type_field_id = ?", productTypeField.ID).Find(&values).Error)
	got := make([]string, 0, len(values))
	for _, v := range values {
		got = append(got, v.Value)
	}
	assert.ElementsMatch(t, []string{"guitar-amp-covers", "bass-amp-covers"}, got)
}

func TestImportRejectsWorkbookWithoutTemplateSheet(t *testing.T) {
	db := newTestDB(t)
	importer := NewTemplateImporter(db, nil)

	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = importer.Import(context.Background(), buf.Bytes(), "empty.xlsx", "CARRIER_CASE")
	assert.ErrorIs(t, err, ErrBadWorkbook)

	var count int64
	require.NoError(t, db.Model(&model.ProductType{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected workbook must not persist anything")
}

func TestImportRejectsGarbageBytes(t *testing.T) {
	db := newTestDB(t)
	importer := NewTemplateImporter(db, nil)

	_, err := importer.Import(context.Background(), []byte("not a workbook"), "junk.xlsx", "CARRIER_CASE")
	assert.ErrorIs(t, err, ErrBadWorkbook)
}

func TestReimportReplacesStructureAndKeepsUserEdits(t *testing.T) {
	db := newTestDB(t)
	importer := NewTemplateImporter(db, nil)
	ts := NewTemplateService(db, nil)
	ctx := context.Background()

	workbook := buildTemplateWorkbook(t)
	first, err := importer.Import(ctx, workbook, "carrier_case.xlsx", "CARRIER_CASE")
	require.NoError(t, err)

	var colourField model.ProductTypeField
	require.NoError(t, db.Where("field_name = ?", "color_name").First(&colourField).Error)

	required := true
	selected := "Black"
	custom := "Midnight Black"
	_, err = ts.UpdateField(ctx, colourField.ID, UpdateFieldRequest{
		Required:      &required,
		SelectedValue: &selected,
		CustomValue:   &custom,
	})
	require.NoError(t, err)

	// A hand-added value not present in the workbook is pruned on re-import.
	_, err = ts.AddFieldValue(ctx, colourField.ID, "Neon")
	require.NoError(t, err)

	second, err := importer.Import(ctx, workbook, "carrier_case.xlsx", "CARRIER_CASE")
	require.NoError(t, err)

	assert.Equal(t, first.FieldsImported, second.FieldsImported)
	assert.Equal(t, first.KeywordsImported, second.KeywordsImported)
	assert.Equal(t, first.ValidValuesImported, second.ValidValuesImported)

	var reimported model.ProductTypeField
	require.NoError(t, db.Where("field_name = ?", "color_name").First(&reimported).Error)
	assert.True(t, reimported.Required)
	require.NotNil(t, reimported.SelectedValue)
	assert.Equal(t, "Black", *reimported.SelectedValue)
	require.NotNil(t, reimported.CustomValue)
	assert.Equal(t, "Midnight Black", *reimported.CustomValue)

	var values []model.ProductTypeFieldValue
	require.NoError(t, db.Where("product_type_field_id = ?", reimported.ID).Find(&values).Error)
	got := make([]string, 0, len(values))
	for _, v := range values {
		got = append(got, v.Value)
	}
	assert.ElementsMatch(t, []string{"Black", "Grey"}, got, "orphaned values do not survive re-import")

	// Exactly one product type for the code, and only one set of keywords.
	var productTypes int64
	require.NoError(t, db.Model(&model.ProductType{}).Count(&productTypes).Error)
	assert.EqualValues(t, 1, productTypes)

	var keywords int64
	require.NoError(t, db.Model(&model.ProductTypeKeyword{}).Count(&keywords).Error)
	assert.EqualValues(t, 2, keywords)
}
