package model

// HandleLocation describes where the amp or instrument handle sits, which
// decides how the cover's handle slit is cut.
type HandleLocation string

const (
	HandleLocationNone HandleLocation = "NO_AMP_HANDLE"
	HandleLocationTop  HandleLocation = "TOP_HANDLE"
	HandleLocationSide HandleLocation = "SIDE_HANDLES"
)

// AngleType describes the slope of the equipment's top face.
type AngleType string

const (
	AngleTypeTop   AngleType = "TOP_ANGLE"
	AngleTypeNone  AngleType = "NO_ANGLE"
	AngleTypeFront AngleType = "FRONT_ANGLE"
)

// Carrier identifies a shipping carrier with configured rate bands.
type Carrier string

const (
	CarrierUSPS        Carrier = "USPS"
	CarrierRoyalMail   Carrier = "ROYAL_MAIL"
	CarrierParcelforce Carrier = "PARCELFORCE"
	CarrierDPD         Carrier = "DPD"
)

// Marketplace identifies the sales channel an order arrived through.
type Marketplace string

const (
	MarketplaceAmazon Marketplace = "AMAZON"
	MarketplaceEbay   Marketplace = "EBAY"
	MarketplaceEtsy   Marketplace = "ETSY"
	MarketplaceDirect Marketplace = "DIRECT"
)
