package model

// Manufacturer represents an equipment maker (e.g. an amp or keyboard brand).
type Manufacturer struct {
	BaseModel
	Name string `gorm:"type:varchar(255);column:name;not null;unique" json:"name"`

	Series []Series `gorm:"foreignKey:ManufacturerID;constraint:OnDelete:CASCADE" json:"series,omitempty"`
}

func (m *Manufacturer) TableName() string {
	return "manufacturers"
}

// Series represents a product line within a manufacturer. Names are unique
// per manufacturer, not globally.
type Series struct {
	BaseModel
	Name           string `gorm:"type:varchar(255);column:name;not null;uniqueIndex:uq_series_manufacturer_name" json:"name"`
	ManufacturerID uint   `gorm:"column:manufacturer_id;not null;uniqueIndex:uq_series_manufacturer_name" json:"manufacturerId"`

	Models []Model `gorm:"foreignKey:SeriesID;constraint:OnDelete:CASCADE" json:"models,omitempty"`
}

func (s *Series) TableName() string {
	return "series"
}

// EquipmentType classifies models into cover categories (combo amp, stage
// piano, ...). It is the join point for pricing options, design options and
// Amazon product type templates.
type EquipmentType struct {
	BaseModel
	Name string `gorm:"type:varchar(255);column:name;not null;unique" json:"name"`
}

func (e *EquipmentType) TableName() string {
	return "equipment_types"
}

// Model is one piece of equipment a cover can be made for. Dimensions are in
// inches. ParentSKU is the marketplace SKU stem used by the Amazon export.
type Model struct {
	BaseModel
	Name            string         `gorm:"type:varchar(255);column:name;not null;uniqueIndex:uq_model_series_name" json:"name"`
	SeriesID        uint           `gorm:"column:series_id;not null;uniqueIndex:uq_model_series_name" json:"seriesId"`
	EquipmentTypeID uint           `gorm:"column:equipment_type_id;not null" json:"equipmentTypeId"`
	Width           float64        `gorm:"column:width;not null" json:"width"`
	Depth           float64        `gorm:"column:depth;not null" json:"depth"`
	Height          float64        `gorm:"column:height;not null" json:"height"`
	HandleLength    *float64       `gorm:"column:handle_length" json:"handleLength,omitempty"`
	HandleWidth     *float64       `gorm:"column:handle_width" json:"handleWidth,omitempty"`
	HandleLocation  HandleLocation `gorm:"type:varchar(20);column:handle_location;not null;default:NO_AMP_HANDLE" json:"handleLocation"`
	AngleType       AngleType      `gorm:"type:varchar(20);column:angle_type;not null;default:TOP_ANGLE" json:"angleType"`
	ImageURL        *string        `gorm:"type:varchar(512);column:image_url" json:"imageUrl,omitempty"`
	ParentSKU       *string        `gorm:"type:varchar(40);column:parent_sku" json:"parentSku,omitempty"`
}

func (m *Model) TableName() string {
	return "models"
}
