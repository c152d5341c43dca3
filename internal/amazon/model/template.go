package model

// HeaderRows holds the first rows of an Amazon flat-file template verbatim,
// including empty cells, so an export can reproduce the layout byte for byte.
type HeaderRows [][]*string

// ProductType is an imported Amazon flat-file template, identified by the
// user-chosen product type code. Re-importing a workbook for the same code
// replaces the parsed structure in place.
type ProductType struct {
	ID            uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code          string     `gorm:"type:varchar(100);column:code;not null;unique" json:"code"`
	Name          *string    `gorm:"type:varchar(255);column:name" json:"name,omitempty"`
	Description   *string    `gorm:"type:text;column:description" json:"description,omitempty"`
	HeaderRows    HeaderRows `gorm:"type:jsonb;column:header_rows;serializer:json" json:"headerRows,omitempty"`
	SourceFileKey *string    `gorm:"type:varchar(100);column:source_file_key" json:"sourceFileKey,omitempty"`

	Keywords []ProductTypeKeyword `gorm:"foreignKey:ProductTypeID;constraint:OnDelete:CASCADE" json:"keywords,omitempty"`
	Fields   []ProductTypeField   `gorm:"foreignKey:ProductTypeID;constraint:OnDelete:CASCADE" json:"fields,omitempty"`
}

func (p *ProductType) TableName() string {
	return "amazon_product_types"
}

// ProductTypeKeyword is a free-text item type keyword attached to a product
// type. No uniqueness is enforced.
type ProductTypeKeyword struct {
	ID            uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductTypeID uint   `gorm:"column:product_type_id;not null" json:"productTypeId"`
	Keyword       string `gorm:"type:varchar(255);column:keyword;not null" json:"keyword"`
}

func (k *ProductTypeKeyword) TableName() string {
	return "product_type_keywords"
}

// ProductTypeField is one attribute column of a template. FieldName is the
// machine name from the template's row of field names; OrderIndex is the
// column position. Required, SelectedValue and CustomValue are user edits
// that survive re-import.
type ProductTypeField struct {
	ID             uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductTypeID  uint    `gorm:"column:product_type_id;not null;uniqueIndex:uq_product_type_field_name" json:"productTypeId"`
	FieldName      string  `gorm:"type:varchar(255);column:field_name;not null;uniqueIndex:uq_product_type_field_name" json:"fieldName"`
	DisplayName    *string `gorm:"type:varchar(255);column:display_name" json:"displayName,omitempty"`
	AttributeGroup *string `gorm:"type:varchar(255);column:attribute_group" json:"attributeGroup,omitempty"`
	Required       bool    `gorm:"column:required;not null;default:false" json:"required"`
	OrderIndex     int     `gorm:"column:order_index;not null;default:0" json:"orderIndex"`
	Description    *string `gorm:"type:text;column:description" json:"description,omitempty"`
	SelectedValue  *string `gorm:"type:varchar(500);column:selected_value" json:"selectedValue,omitempty"`
	CustomValue    *string `gorm:"type:varchar(500);column:custom_value" json:"customValue,omitempty"`

	ValidValues []ProductTypeFieldValue `gorm:"foreignKey:ProductTypeFieldID;constraint:OnDelete:CASCADE" json:"validValues,omitempty"`
}

func (f *ProductTypeField) TableName() string {
	return "product_type_fields"
}

// ProductTypeFieldValue is one allowed value for a field. Values are unique
// per field; an empty value set means any value is accepted.
type ProductTypeFieldValue struct {
	ID                 uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductTypeFieldID uint   `gorm:"column:product_type_field_id;not null" json:"productTypeFieldId"`
	Value              string `gorm:"type:varchar(500);column:value;not null" json:"value"`
}

func (v *ProductTypeFieldValue) TableName() string {
	return "product_type_field_values"
}

// EquipmentTypeProductType links an equipment type to the template used when
// exporting its models. The export takes the first link found for an
// equipment type.
type EquipmentTypeProductType struct {
	ID              uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EquipmentTypeID uint `gorm:"column:equipment_type_id;not null" json:"equipmentTypeId"`
	ProductTypeID   uint `gorm:"column:product_type_id;not null" json:"productTypeId"`
}

func (l *EquipmentTypeProductType) TableName() string {
	return "equipment_type_product_types"
}
