// Package models defines the record types persisted by the upsbatch store:
// shipments, the activity log, the undo stack, user profiles, and migration
// history entries.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitOfMeasure is the weight unit of a shipment.
type UnitOfMeasure string

const (
	UnitKG UnitOfMeasure = "KG"
	UnitLB UnitOfMeasure = "LB"
)

// LBPerKG converts between the two weight units (1 kg = 2.20462 lb).
const LBPerKG = 2.20462

// Weight limits per unit, as enforced by the UPS batch tool.
const (
	MaxWeightKG = 70.0
	MaxWeightLB = 150.0
)

// Package dimension limits in centimeters.
const (
	MinDimensionCM = 1.0
	MaxDimensionCM = 270.0
	MaxGirthCM     = 400.0
)

// DomesticCountry is the origin country; shipments to any other country are
// international and require customs information.
const DomesticCountry = "DE"

// FieldError is one validation finding attached to a shipment.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ShipmentRecord is one shipment to be batched for carrier upload.
// String fields default to "", numerics to 0 (weight to 1), booleans to
// false; defaults are filled by the store on add.
type ShipmentRecord struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Recipient
	ContactName string `json:"contact_name,omitempty"`
	CompanyName string `json:"company_name"`
	Country     string `json:"country"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	Address3    string `json:"address3,omitempty"`
	City        string `json:"city"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code"`
	Telephone   string `json:"telephone,omitempty"`
	Extension   string `json:"extension,omitempty"`
	Residential bool   `json:"residential"`
	Email       string `json:"email,omitempty"`

	// Package
	PackagingType     string          `json:"packaging_type"`
	CustomsValue      decimal.Decimal `json:"customs_value"`
	Weight            float64         `json:"weight"`
	Length            float64         `json:"length"`
	Width             float64         `json:"width"`
	Height            float64         `json:"height"`
	Unit              UnitOfMeasure   `json:"unit"`
	GoodsDescription  string          `json:"goods_description,omitempty"`
	NoCommercialValue bool            `json:"no_commercial_value"`
	GNIFC             bool            `json:"gnifc"`
	DeclaredValue     decimal.Decimal `json:"declared_value"`

	// Service
	ServiceType          string `json:"service_type"`
	DeliveryConfirmation string `json:"delivery_confirmation,omitempty"`
	ShipperRelease       bool   `json:"shipper_release"`
	SaturdayDelivery     bool   `json:"saturday_delivery"`
	CarbonNeutral        bool   `json:"carbon_neutral"`
	LargePackage         bool   `json:"large_package"`
	AdditionalHandling   bool   `json:"additional_handling"`
	PremiumCare          bool   `json:"premium_care"`
	ElectronicRelease    bool   `json:"electronic_release"`

	// Lithium battery declarations
	LithiumIonAlone       bool `json:"lithium_ion_alone"`
	LithiumIonInEquipment bool `json:"lithium_ion_in_equipment"`
	LithiumIonWithEquip   bool `json:"lithium_ion_with_equipment"`
	LithiumMetalAlone     bool `json:"lithium_metal_alone"`
	LithiumMetalInEquip   bool `json:"lithium_metal_in_equipment"`

	// References
	Reference1 string `json:"reference1,omitempty"`
	Reference2 string `json:"reference2,omitempty"`
	Reference3 string `json:"reference3,omitempty"`

	// Validation metadata. Always recomputed together by the store
	// immediately after every create or update, before persistence.
	IsValid bool         `json:"is_valid"`
	Errors  []FieldError `json:"errors"`
}

// WeightKG returns the shipment weight normalized to kilograms.
func (s *ShipmentRecord) WeightKG() float64 {
	if s.Unit == UnitLB {
		return s.Weight / LBPerKG
	}
	return s.Weight
}

// Girth returns length + 2*(width+height) in centimeters.
func (s *ShipmentRecord) Girth() float64 {
	return s.Length + 2*(s.Width+s.Height)
}

// IsInternational reports whether the shipment leaves the domestic country.
func (s *ShipmentRecord) IsInternational() bool {
	return s.Country != "" && s.Country != DomesticCountry
}

// ShipmentPatch carries a partial update for a shipment. Nil fields are left
// unchanged; the store shallow-merges the rest onto the stored record.
type ShipmentPatch struct {
	ContactName *string `json:"contact_name,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Country     *string `json:"country,omitempty"`
	Address1    *string `json:"address1,omitempty"`
	Address2    *string `json:"address2,omitempty"`
	Address3    *string `json:"address3,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`
	Telephone   *string `json:"telephone,omitempty"`
	Extension   *string `json:"extension,omitempty"`
	Residential *bool   `json:"residential,omitempty"`
	Email       *string `json:"email,omitempty"`

	PackagingType     *string          `json:"packaging_type,omitempty"`
	CustomsValue      *decimal.Decimal `json:"customs_value,omitempty"`
	Weight            *float64         `json:"weight,omitempty"`
	Length            *float64         `json:"length,omitempty"`
	Width             *float64         `json:"width,omitempty"`
	Height            *float64         `json:"height,omitempty"`
	Unit              *UnitOfMeasure   `json:"unit,omitempty"`
	GoodsDescription  *string          `json:"goods_description,omitempty"`
	NoCommercialValue *bool            `json:"no_commercial_value,omitempty"`
	GNIFC             *bool            `json:"gnifc,omitempty"`
	DeclaredValue     *decimal.Decimal `json:"declared_value,omitempty"`

	ServiceType          *string `json:"service_type,omitempty"`
	DeliveryConfirmation *string `json:"delivery_confirmation,omitempty"`
	ShipperRelease       *bool   `json:"shipper_release,omitempty"`
	SaturdayDelivery     *bool   `json:"saturday_delivery,omitempty"`
	CarbonNeutral        *bool   `json:"carbon_neutral,omitempty"`
	LargePackage         *bool   `json:"large_package,omitempty"`
	AdditionalHandling   *bool   `json:"additional_handling,omitempty"`
	PremiumCare          *bool   `json:"premium_care,omitempty"`
	ElectronicRelease    *bool   `json:"electronic_release,omitempty"`

	LithiumIonAlone       *bool `json:"lithium_ion_alone,omitempty"`
	LithiumIonInEquipment *bool `json:"lithium_ion_in_equipment,omitempty"`
	LithiumIonWithEquip   *bool `json:"lithium_ion_with_equipment,omitempty"`
	LithiumMetalAlone     *bool `json:"lithium_metal_alone,omitempty"`
	LithiumMetalInEquip   *bool `json:"lithium_metal_in_equipment,omitempty"`

	Reference1 *string `json:"reference1,omitempty"`
	Reference2 *string `json:"reference2,omitempty"`
	Reference3 *string `json:"reference3,omitempty"`
}

// Apply shallow-merges the patch onto the record.
func (p *ShipmentPatch) Apply(s *ShipmentRecord) {
	if p.ContactName != nil {
		s.ContactName = *p.ContactName
	}
	if p.CompanyName != nil {
		s.CompanyName = *p.CompanyName
	}
	if p.Country != nil {
		s.Country = *p.Country
	}
	if p.Address1 != nil {
		s.Address1 = *p.Address1
	}
	if p.Address2 != nil {
		s.Address2 = *p.Address2
	}
	if p.Address3 != nil {
		s.Address3 = *p.Address3
	}
	if p.City != nil {
		s.City = *p.City
	}
	if p.State != nil {
		s.State = *p.State
	}
	if p.PostalCode != nil {
		s.PostalCode = *p.PostalCode
	}
	if p.Telephone != nil {
		s.Telephone = *p.Telephone
	}
	if p.Extension != nil {
		s.Extension = *p.Extension
	}
	if p.Residential != nil {
		s.Residential = *p.Residential
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.PackagingType != nil {
		s.PackagingType = *p.PackagingType
	}
	if p.CustomsValue != nil {
		s.CustomsValue = *p.CustomsValue
	}
	if p.Weight != nil {
		s.Weight = *p.Weight
	}
	if p.Length != nil {
		s.Length = *p.Length
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	if p.Unit != nil {
		s.Unit = *p.Unit
	}
	if p.GoodsDescription != nil {
		s.GoodsDescription = *p.GoodsDescription
	}
	if p.NoCommercialValue != nil {
		s.NoCommercialValue = *p.NoCommercialValue
	}
	if p.GNIFC != nil {
		s.GNIFC = *p.GNIFC
	}
	if p.DeclaredValue != nil {
		s.DeclaredValue = *p.DeclaredValue
	}
	if p.ServiceType != nil {
		s.ServiceType = *p.ServiceType
	}
	if p.DeliveryConfirmation != nil {
		s.DeliveryConfirmation = *p.DeliveryConfirmation
	}
	if p.ShipperRelease != nil {
		s.ShipperRelease = *p.ShipperRelease
	}
	if p.SaturdayDelivery != nil {
		s.SaturdayDelivery = *p.SaturdayDelivery
	}
	if p.CarbonNeutral != nil {
		s.CarbonNeutral = *p.CarbonNeutral
	}
	if p.LargePackage != nil {
		s.LargePackage = *p.LargePackage
	}
	if p.AdditionalHandling != nil {
		s.AdditionalHandling = *p.AdditionalHandling
	}
	if p.PremiumCare != nil {
		s.PremiumCare = *p.PremiumCare
	}
	if p.ElectronicRelease != nil {
		s.ElectronicRelease = *p.ElectronicRelease
	}
	if p.LithiumIonAlone != nil {
		s.LithiumIonAlone = *p.LithiumIonAlone
	}
	if p.LithiumIonInEquipment != nil {
		s.LithiumIonInEquipment = *p.LithiumIonInEquipment
	}
	if p.LithiumIonWithEquip != nil {
		s.LithiumIonWithEquip = *p.LithiumIonWithEquip
	}
	if p.LithiumMetalAlone != nil {
		s.LithiumMetalAlone = *p.LithiumMetalAlone
	}
	if p.LithiumMetalInEquip != nil {
		s.LithiumMetalInEquip = *p.LithiumMetalInEquip
	}
	if p.Reference1 != nil {
		s.Reference1 = *p.Reference1
	}
	if p.Reference2 != nil {
		s.Reference2 = *p.Reference2
	}
	if p.Reference3 != nil {
		s.Reference3 = *p.Reference3
	}
}
