package model

// PricingOption is a priced add-on (handle zipper, pocket, ...) that can be
// offered for some equipment types.
type PricingOption struct {
	BaseModel
	Name  string  `gorm:"type:varchar(255);column:name;not null;unique" json:"name"`
	Price float64 `gorm:"column:price;not null" json:"price"`
}

func (p *PricingOption) TableName() string {
	return "pricing_options"
}

// EquipmentTypePricingOption assigns a pricing option to an equipment type.
type EquipmentTypePricingOption struct {
	BaseModel
	EquipmentTypeID uint `gorm:"column:equipment_type_id;not null;uniqueIndex:uq_equip_type_pricing_option" json:"equipmentTypeId"`
	PricingOptionID uint `gorm:"column:pricing_option_id;not null;uniqueIndex:uq_equip_type_pricing_option" json:"pricingOptionId"`
}

func (e *EquipmentTypePricingOption) TableName() string {
	return "equipment_type_pricing_options"
}

// DesignOption is a non-priced construction variant (piping colour, vent
// panel, ...) offered for some equipment types.
type DesignOption struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);column:name;not null;unique" json:"name"`
	Description *string `gorm:"type:text;column:description" json:"description,omitempty"`
}

func (d *DesignOption) TableName() string {
	return "design_options"
}

// EquipmentTypeDesignOption assigns a design option to an equipment type.
type EquipmentTypeDesignOption struct {
	BaseModel
	EquipmentTypeID uint `gorm:"column:equipment_type_id;not null;uniqueIndex:uq_equip_type_design_option" json:"equipmentTypeId"`
	DesignOptionID  uint `gorm:"column:design_option_id;not null;uniqueIndex:uq_equip_type_design_option" json:"designOptionId"`
}

func (e *EquipmentTypeDesignOption) TableName() string {
	return "equipment_type_design_options"
}

// ShippingRate is a carrier rate for a weight band within a zone.
type ShippingRate struct {
	BaseModel
	Carrier   Carrier `gorm:"type:varchar(20);column:carrier;not null" json:"carrier"`
	MinWeight float64 `gorm:"column:min_weight;not null" json:"minWeight"`
	MaxWeight float64 `gorm:"column:max_weight;not null" json:"maxWeight"`
	Zone      string  `gorm:"type:varchar(50);column:zone;not null" json:"zone"`
	Rate      float64 `gorm:"column:rate;not null" json:"rate"`
	Surcharge float64 `gorm:"column:surcharge;not null;default:0" json:"surcharge"`
}

func (s *ShippingRate) TableName() string {
	return "shipping_rates"
}
