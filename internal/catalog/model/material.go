package model

// Material is a fabric the covers are sewn from. Costs and weights are per
// linear yard at the material's own roll width.
type Material struct {
	BaseModel
	Name                    string  `gorm:"type:varchar(255);column:name;not null;unique" json:"name"`
	BaseColour              string  `gorm:"type:varchar(100);column:base_colour;not null" json:"baseColour"`
	LinearYardWidth         float64 `gorm:"column:linear_yard_width;not null" json:"linearYardWidth"`
	CostPerLinearYard       float64 `gorm:"column:cost_per_linear_yard;not null" json:"costPerLinearYard"`
	WeightPerLinearYard     float64 `gorm:"column:weight_per_linear_yard;not null" json:"weightPerLinearYard"`
	LabourTimeMinutes       float64 `gorm:"column:labour_time_minutes;not null" json:"labourTimeMinutes"`

	ColourSurcharges []MaterialColourSurcharge `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE" json:"colourSurcharges,omitempty"`
}

func (m *Material) TableName() string {
	return "materials"
}

// MaterialColourSurcharge is an extra per-unit charge for a non-base colour
// of a material.
type MaterialColourSurcharge struct {
	BaseModel
	MaterialID uint    `gorm:"column:material_id;not null" json:"materialId"`
	Colour     string  `gorm:"type:varchar(100);column:colour;not null" json:"colour"`
	Surcharge  float64 `gorm:"column:surcharge;not null" json:"surcharge"`
}

func (m *MaterialColourSurcharge) TableName() string {
	return "material_colour_surcharges"
}

// Supplier is a fabric vendor.
type Supplier struct {
	BaseModel
	Name string `gorm:"type:varchar(255);column:name;not null;unique" json:"name"`

	Materials []SupplierMaterial `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"materials,omitempty"`
}

func (s *Supplier) TableName() string {
	return "suppliers"
}

// SupplierMaterial records what a supplier charges for a material.
type SupplierMaterial struct {
	BaseModel
	SupplierID uint    `gorm:"column:supplier_id;not null" json:"supplierId"`
	MaterialID uint    `gorm:"column:material_id;not null" json:"materialId"`
	UnitCost   float64 `gorm:"column:unit_cost;not null" json:"unitCost"`
}

func (s *SupplierMaterial) TableName() string {
	return "supplier_materials"
}
