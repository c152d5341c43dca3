package model

import "time"

// Customer is a buyer, direct or via a marketplace.
type Customer struct {
	BaseModel
	Name    string  `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Address *string `gorm:"type:text;column:address" json:"address,omitempty"`
	Phone   *string `gorm:"type:varchar(50);column:phone" json:"phone,omitempty"`

	Orders []Order `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
}

func (c *Customer) TableName() string {
	return "customers"
}

// Order groups the cover lines bought in one purchase.
type Order struct {
	BaseModel
	CustomerID             uint         `gorm:"column:customer_id;not null" json:"customerId"`
	Marketplace            *Marketplace `gorm:"type:varchar(20);column:marketplace" json:"marketplace,omitempty"`
	MarketplaceOrderNumber *string      `gorm:"type:varchar(100);column:marketplace_order_number" json:"marketplaceOrderNumber,omitempty"`
	OrderDate              time.Time    `gorm:"column:order_date;not null" json:"orderDate"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

func (o *Order) TableName() string {
	return "orders"
}

// OrderLine is one cover on an order: a model in a material and colour plus
// the selected add-ons. UnitPrice is captured at order time so later price
// changes do not rewrite history.
type OrderLine struct {
	BaseModel
	OrderID         uint     `gorm:"column:order_id;not null" json:"orderId"`
	ModelID         uint     `gorm:"column:model_id;not null" json:"modelId"`
	MaterialID      uint     `gorm:"column:material_id;not null" json:"materialId"`
	Colour          *string  `gorm:"type:varchar(100);column:colour" json:"colour,omitempty"`
	Quantity        int      `gorm:"column:quantity;not null;default:1" json:"quantity"`
	HandleZipper    bool     `gorm:"column:handle_zipper;not null;default:false" json:"handleZipper"`
	TwoInOnePocket  bool     `gorm:"column:two_in_one_pocket;not null;default:false" json:"twoInOnePocket"`
	MusicRestZipper bool     `gorm:"column:music_rest_zipper;not null;default:false" json:"musicRestZipper"`
	UnitPrice       *float64 `gorm:"column:unit_price" json:"unitPrice,omitempty"`
}

func (l *OrderLine) TableName() string {
	return "order_lines"
}
