package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/amazon/model"
	catalogmodel "github.com/covercraft/covershop/internal/catalog/model"
)

func TestUpdateFieldValidatesSelectedValue(t *testing.T) {
	db := newTestDB(t)
	ts := NewTemplateService(db, nil)
	ctx := context.Background()

	productType := model.ProductType{Code: "AMP_COVER"}
	require.NoError(t, db.Create(&productType).Error)
	field := model.ProductTypeField{ProductTypeID: productType.ID, FieldName: "color_name"}
	require.NoError(t, db.Create(&field).Error)
	for _, v := range []string{"Black", "Grey"} {
		require.NoError(t, db.Create(&model.ProductTypeFieldValue{ProductTypeFieldID: field.ID, Value: v}).Error)
	}

	selected := "Neon"
	_, err := ts.UpdateField(ctx, field.ID, UpdateFieldRequest{SelectedValue: &selected})
	assert.ErrorIs(t, err, ErrValueNotAllowed)

	selected = "Black"
	required := true
	updated, err := ts.UpdateField(ctx, field.ID, UpdateFieldRequest{SelectedValue: &selected, Required: &required})
	require.NoError(t, err)
	require.NotNil(t, updated.SelectedValue)
	assert.Equal(t, "Black", *updated.SelectedValue)
	assert.True(t, updated.Required)

	// An empty string clears the selection rather than selecting "".
	empty := ""
	updated, err = ts.UpdateField(ctx, field.ID, UpdateFieldRequest{SelectedValue: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.SelectedValue)
}

func TestUpdateFieldUnknownID(t *testing.T) {
	db := newTestDB(t)
	ts := NewTemplateService(db, nil)

	required := true
	_, err := ts.UpdateField(context.Background(), 999, UpdateFieldRequest{Required: &required})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAddFieldValueRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	ts := NewTemplateService(db, nil)
	ctx := context.Background()

	productType := model.ProductType{Code: "AMP_COVER"}
	require.NoError(t, db.Create(&productType).Error)
	field := model.ProductTypeField{ProductTypeID: productType.ID, FieldName: "color_name"}
	require.NoError(t, db.Create(&field).Error)

	created, err := ts.AddFieldValue(ctx, field.ID, "Black")
	require.NoError(t, err)
	assert.Equal(t, "Black", created.Value)

	_, err = ts.AddFieldValue(ctx, field.ID, "Black")
	assert.ErrorIs(t, err, ErrDuplicateValue)

	var count int64
	require.NoError(t, db.Model(&model.ProductTypeFieldValue{}).Where("product_type_field_id = ?", field.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteFieldValueClearsSelection(t *testing.T) {
	db := newTestDB(t)
	ts := NewTemplateService(db, nil)
	ctx := context.Background()

	productType := model.ProductType{Code: "AMP_COVER"}
	require.NoError(t, db.Create(&productType).Error)
	selected := "Black"
	field := model.ProductTypeField{ProductTypeID: productType.ID, FieldName: "color_name", SelectedValue: &selected}
	require.NoError(t, db.Create(&field).Error)
	black := model.ProductTypeFieldValue{ProductTypeFieldID: field.ID, Value: "Black"}
	grey := model.ProductTypeFieldValue{ProductTypeFieldID: field.ID, Value: "Grey"}
	require.NoError(t, db.Create(&black).Error)
	require.NoError(t, db.Create(&grey).Error)

	// Deleting a non-selected value leaves the selection alone.
	require.NoError(t, ts.DeleteFieldValue(ctx, field.ID, grey.ID))
	var reloaded model.ProductTypeField
	require.NoError(t, db.First(&reloaded, field.ID).Error)
	require.NotNil(t, reloaded.SelectedValue)

	require.NoError(t, ts.DeleteFieldValue(ctx, field.ID, black.ID))
	require.NoError(t, db.First(&reloaded, field.ID).Error)
	assert.Nil(t, reloaded.SelectedValue)
}

func TestCreateLink(t *testing.T) {
	db := newTestDB(t)
	ts := NewTemplateService(db, nil)
	ctx := context.Background()

	equipmentType := catalogmodel.EquipmentType{Name: "Guitar Amplifier"}
	require.NoError(t, db.Create(&equipmentType).Error)
	productType := model.ProductType{Code: "AMP_COVER"}
	require.NoError(t, db.Create(&productType).Error)

	link, err := ts.CreateLink(ctx, equipmentType.ID, productType.ID)
	require.NoError(t, err)
	assert.Equal(t, equipmentType.ID, link.EquipmentTypeID)

	_, err = ts.CreateLink(ctx, equipmentType.ID, productType.ID)
	assert.ErrorIs(t, err, ErrDuplicateLink)

	_, err = ts.CreateLink(ctx, 999, productType.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = ts.CreateLink(ctx, equipmentType.ID, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductTypeForEquipmentType(t *testing.T) {
	db := newTestDB(t)
	ts := NewTemplateService(db, nil)
	ctx := context.Background()

	equipmentType := catalogmodel.EquipmentType{Name: "Guitar Amplifier"}
	require.NoError(t, db.Create(&equipmentType).Error)

	resolved, err := ts.ProductTypeForEquipmentType(ctx, equipmentType.ID)
	require.NoError(t, err)
	assert.Nil(t, resolved, "an unlinked equipment type resolves to no template")

	first := model.ProductType{Code: "AMP_COVER"}
	second := model.ProductType{Code: "GENERIC_COVER"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&model.EquipmentTypeProductType{EquipmentTypeID: equipmentType.ID, ProductTypeID: first.ID}).Error)
	require.NoError(t, db.Create(&model.EquipmentTypeProductType{EquipmentTypeID: equipmentType.ID, ProductTypeID: second.ID}).Error)

	resolved, err = ts.ProductTypeForEquipmentType(ctx, equipmentType.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "AMP_COVER", resolved.Code, "the earliest link wins")
}

func TestDeleteProductTypeRemovesStructure(t *testing.T) {
	db := newTestDB(t)
	ts := NewTemplateService(db, nil)
	importer := NewTemplateImporter(db, nil)
	ctx := context.Background()

	_, err := importer.Import(ctx, buildTemplateWorkbook(t), "carrier_case.xlsx", "CARRIER_CASE")
	require.NoError(t, err)

	require.NoError(t, ts.DeleteProductType(ctx, "CARRIER_CASE"))

	for _, count := range []struct {
		name  string
		model interface{}
	}{
		{"product types", &model.ProductType{}},
		{"fields", &model.ProductTypeField{}},
		{"values", &model.ProductTypeFieldValue{}},
		{"keywords", &model.ProductTypeKeyword{}},
	} {
		var n int64
		require.NoError(t, db.Model(count.model).Count(&n).Error)
		assert.Zero(t, n, "expected no %s left", count.name)
	}

	assert.ErrorIs(t, ts.DeleteProductType(ctx, "CARRIER_CASE"), gorm.ErrRecordNotFound)
}
