// Package batch implements the UPS batch file transcoder: the canonical
// field table, quote-aware delimited parsing and serialization, the flat XML
// export variant, and plain-text error reports.
package batch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/skleinke/upsbatch/internal/models"
)

// Field is one column of the UPS batch file format. Key is the internal
// shipment key the column maps to; columns the tool does not manage carry an
// empty Key and always export empty.
type Field struct {
	Name   string // canonical UPS field name
	Label  string // German label shown in the UI and matched on import
	Key    string // internal key, "" when unmapped
	MaxLen int
}

// fields is the fixed UPS batch field order. The order is load-bearing twice:
// exports emit exactly these columns, and import header matching iterates the
// table front to back with first match winning.
var fields = []Field{
	{"Contact Name", "Kontaktname", "contact_name", 35},
	{"Company or Name", "Firma oder Name", "company_name", 35},
	{"Country", "Land", "country", 2},
	{"Address 1", "Adresse 1", "address1", 35},
	{"Address 2", "Adresse 2", "address2", 35},
	{"Address 3", "Adresse 3", "address3", 35},
	{"City", "Stadt", "city", 30},
	{"State/Prov/Other", "Bundesland", "state", 30},
	{"Postal Code", "Postleitzahl", "postal_code", 10},
	{"Telephone", "Telefon", "telephone", 15},
	{"Ext", "Durchwahl", "extension", 5},
	{"Residential Ind", "Privatadresse", "residential", 1},
	{"Consignee Email", "E-Mail des Empfängers", "email", 50},
	{"Packaging Type", "Verpackungsart", "packaging_type", 2},
	{"Customs Value", "Zollwert", "customs_value", 15},
	{"Weight", "Gewicht", "weight", 5},
	{"Length", "Länge", "length", 4},
	{"Width", "Breite", "width", 4},
	{"Height", "Höhe", "height", 4},
	{"Unit of Measure", "Maßeinheit", "unit", 2},
	{"Description of Goods", "Warenbeschreibung", "goods_description", 50},
	{"Documents of No Commercial Value", "Dokumente ohne Handelswert", "no_commercial_value", 1},
	{"GNIFC", "Waren nicht im freien Verkehr", "gnifc", 1},
	{"Pkg Decl Value", "Deklarierter Wert", "declared_value", 8},
	{"Ship Notification", "Versandbenachrichtigung", "", 1},
	{"Shipper Release", "Freigabe ohne Unterschrift", "shipper_release", 1},
	{"Ret of Documents", "Dokumentenrückgabe", "", 1},
	{"Saturday Deliver", "Samstagszustellung", "saturday_delivery", 1},
	{"Carbon Neutral", "Klimaneutraler Versand", "carbon_neutral", 1},
	{"Large Package", "Großpaket", "large_package", 1},
	{"Addl handling", "Zusätzliche Handhabung", "additional_handling", 1},
	{"Reference 1", "Referenz 1", "reference1", 35},
	{"Reference 2", "Referenz 2", "reference2", 35},
	{"Reference 3", "Referenz 3", "reference3", 35},
	{"QV Notification 1 - Addr", "QV-Benachrichtigung 1 - Adresse", "", 50},
	{"QV Notification 1 - Ship", "QV-Benachrichtigung 1 - Versand", "", 1},
	{"QV Notification 1 - Exception", "QV-Benachrichtigung 1 - Ausnahme", "", 1},
	{"QV Notification 1 - Delivery", "QV-Benachrichtigung 1 - Zustellung", "", 1},
	{"QV Notification 2 - Addr", "QV-Benachrichtigung 2 - Adresse", "", 50},
	{"QV Notification 2 - Ship", "QV-Benachrichtigung 2 - Versand", "", 1},
	{"QV Notification 2 - Exception", "QV-Benachrichtigung 2 - Ausnahme", "", 1},
	{"QV Notification 2 - Delivery", "QV-Benachrichtigung 2 - Zustellung", "", 1},
	{"QV Notification 3 - Addr", "QV-Benachrichtigung 3 - Adresse", "", 50},
	{"QV Notification 3 - Ship", "QV-Benachrichtigung 3 - Versand", "", 1},
	{"QV Notification 3 - Exception", "QV-Benachrichtigung 3 - Ausnahme", "", 1},
	{"QV Notification 3 - Delivery", "QV-Benachrichtigung 3 - Zustellung", "", 1},
	{"QV Notification 4 - Addr", "QV-Benachrichtigung 4 - Adresse", "", 50},
	{"QV Notification 4 - Ship", "QV-Benachrichtigung 4 - Versand", "", 1},
	{"QV Notification 4 - Exception", "QV-Benachrichtigung 4 - Ausnahme", "", 1},
	{"QV Notification 4 - Delivery", "QV-Benachrichtigung 4 - Zustellung", "", 1},
	{"QV Notification 5 - Addr", "QV-Benachrichtigung 5 - Adresse", "", 50},
	{"QV Notification 5 - Ship", "QV-Benachrichtigung 5 - Versand", "", 1},
	{"QV Notification 5 - Exception", "QV-Benachrichtigung 5 - Ausnahme", "", 1},
	{"QV Notification 5 - Delivery", "QV-Benachrichtigung 5 - Zustellung", "", 1},
	{"QV Notification Msg", "QV-Benachrichtigungstext", "", 150},
	{"QV Failure Addr", "QV-Fehleradresse", "", 50},
	{"UPS Premium Care", "UPS Premium Care", "premium_care", 1},
	{"Location ID", "Standort-ID", "", 10},
	{"Notification Media Type", "Benachrichtigungsart", "", 2},
	{"Notification Language", "Benachrichtigungssprache", "", 6},
	{"Notification Address", "Benachrichtigungsadresse", "", 50},
	{"ADL COD Value", "ADL Nachnahmebetrag", "", 8},
	{"ADL Deliver to Addressee", "ADL Zustellung an Empfänger", "", 1},
	{"ADL Shipper Media Type", "ADL Versender-Benachrichtigungsart", "", 2},
	{"ADL Shipper Language", "ADL Versender-Sprache", "", 6},
	{"ADL Shipper Notification", "ADL Versender-Benachrichtigung", "", 50},
	{"ADL Direct Delivery Only", "ADL Nur Direktzustellung", "", 1},
	{"Electronic Package Release Authentication", "Elektronische Paketfreigabe", "electronic_release", 6},
	{"Lithium Ion Alone", "Lithium-Ionen einzeln", "lithium_ion_alone", 1},
	{"Lithium Ion In Equipment", "Lithium-Ionen in Geräten", "lithium_ion_in_equipment", 1},
	{"Lithium Ion With Equipment", "Lithium-Ionen mit Geräten", "lithium_ion_with_equipment", 1},
	{"Lithium Metal Alone", "Lithium-Metall einzeln", "lithium_metal_alone", 1},
	{"Lithium Metal In Equipment", "Lithium-Metall in Geräten", "lithium_metal_in_equipment", 1},
	{"Weekend Commercial Delivery", "Wochenendzustellung gewerblich", "", 1},
	{"Dry Ice Weight", "Trockeneis-Gewicht", "", 5},
	{"Merchandise Description", "Warenbezeichnung", "", 35},
	{"UPS SurePost Limited Qty", "UPS SurePost begrenzte Menge", "", 1},
	{"Service", "Service", "service_type", 2},
	{"Delivery Confirm", "Zustellnachweis", "delivery_confirmation", 1},
}

// Fields returns the canonical UPS batch field table in export order.
func Fields() []Field {
	return fields
}

// FieldValue renders the shipment's value for an internal key as a batch
// file cell. Unset flags and zero money values render empty.
func FieldValue(s *models.ShipmentRecord, key string) string {
	switch key {
	case "contact_name":
		return s.ContactName
	case "company_name":
		return s.CompanyName
	case "country":
		return s.Country
	case "address1":
		return s.Address1
	case "address2":
		return s.Address2
	case "address3":
		return s.Address3
	case "city":
		return s.City
	case "state":
		return s.State
	case "postal_code":
		return s.PostalCode
	case "telephone":
		return s.Telephone
	case "extension":
		return s.Extension
	case "residential":
		return flag(s.Residential)
	case "email":
		return s.Email
	case "packaging_type":
		return s.PackagingType
	case "customs_value":
		return money(s.CustomsValue)
	case "weight":
		return number(s.Weight)
	case "length":
		return number(s.Length)
	case "width":
		return number(s.Width)
	case "height":
		return number(s.Height)
	case "unit":
		return string(s.Unit)
	case "goods_description":
		return s.GoodsDescription
	case "no_commercial_value":
		return flag(s.NoCommercialValue)
	case "gnifc":
		return flag(s.GNIFC)
	case "declared_value":
		return money(s.DeclaredValue)
	case "shipper_release":
		return flag(s.ShipperRelease)
	case "saturday_delivery":
		return flag(s.SaturdayDelivery)
	case "carbon_neutral":
		return flag(s.CarbonNeutral)
	case "large_package":
		return flag(s.LargePackage)
	case "additional_handling":
		return flag(s.AdditionalHandling)
	case "premium_care":
		return flag(s.PremiumCare)
	case "electronic_release":
		return flag(s.ElectronicRelease)
	case "lithium_ion_alone":
		return flag(s.LithiumIonAlone)
	case "lithium_ion_in_equipment":
		return flag(s.LithiumIonInEquipment)
	case "lithium_ion_with_equipment":
		return flag(s.LithiumIonWithEquip)
	case "lithium_metal_alone":
		return flag(s.LithiumMetalAlone)
	case "lithium_metal_in_equipment":
		return flag(s.LithiumMetalInEquip)
	case "reference1":
		return s.Reference1
	case "reference2":
		return s.Reference2
	case "reference3":
		return s.Reference3
	case "service_type":
		return s.ServiceType
	case "delivery_confirmation":
		return s.DeliveryConfirmation
	}
	return ""
}

// ApplyRow copies mapped row values onto a shipment record. Only keys present
// in data are touched; everything else is left to store-level defaults.
func ApplyRow(s *models.ShipmentRecord, data map[string]string) error {
	for key, value := range data {
		if err := applyField(s, key, value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func applyField(s *models.ShipmentRecord, key, value string) error {
	switch key {
	case "contact_name":
		s.ContactName = value
	case "company_name":
		s.CompanyName = value
	case "country":
		s.Country = strings.ToUpper(value)
	case "address1":
		s.Address1 = value
	case "address2":
		s.Address2 = value
	case "address3":
		s.Address3 = value
	case "city":
		s.City = value
	case "state":
		s.State = value
	case "postal_code":
		s.PostalCode = value
	case "telephone":
		s.Telephone = value
	case "extension":
		s.Extension = value
	case "residential":
		s.Residential = parseFlag(value)
	case "email":
		s.Email = value
	case "packaging_type":
		s.PackagingType = value
	case "customs_value":
		d, err := decimal.NewFromString(normalizeNumber(value))
		if err != nil {
			return fmt.Errorf("ungültiger Zollwert %q", value)
		}
		s.CustomsValue = d
	case "declared_value":
		d, err := decimal.NewFromString(normalizeNumber(value))
		if err != nil {
			return fmt.Errorf("ungültiger deklarierter Wert %q", value)
		}
		s.DeclaredValue = d
	case "weight":
		f, err := strconv.ParseFloat(normalizeNumber(value), 64)
		if err != nil {
			return fmt.Errorf("ungültiges Gewicht %q", value)
		}
		s.Weight = f
	case "length":
		f, err := strconv.ParseFloat(normalizeNumber(value), 64)
		if err != nil {
			return fmt.Errorf("ungültige Länge %q", value)
		}
		s.Length = f
	case "width":
		f, err := strconv.ParseFloat(normalizeNumber(value), 64)
		if err != nil {
			return fmt.Errorf("ungültige Breite %q", value)
		}
		s.Width = f
	case "height":
		f, err := strconv.ParseFloat(normalizeNumber(value), 64)
		if err != nil {
			return fmt.Errorf("ungültige Höhe %q", value)
		}
		s.Height = f
	case "unit":
		u := models.UnitOfMeasure(strings.ToUpper(value))
		if u != models.UnitKG && u != models.UnitLB {
			return fmt.Errorf("ungültige Maßeinheit %q", value)
		}
		s.Unit = u
	case "goods_description":
		s.GoodsDescription = value
	case "no_commercial_value":
		s.NoCommercialValue = parseFlag(value)
	case "gnifc":
		s.GNIFC = parseFlag(value)
	case "shipper_release":
		s.ShipperRelease = parseFlag(value)
	case "saturday_delivery":
		s.SaturdayDelivery = parseFlag(value)
	case "carbon_neutral":
		s.CarbonNeutral = parseFlag(value)
	case "large_package":
		s.LargePackage = parseFlag(value)
	case "additional_handling":
		s.AdditionalHandling = parseFlag(value)
	case "premium_care":
		s.PremiumCare = parseFlag(value)
	case "electronic_release":
		s.ElectronicRelease = parseFlag(value)
	case "lithium_ion_alone":
		s.LithiumIonAlone = parseFlag(value)
	case "lithium_ion_in_equipment":
		s.LithiumIonInEquipment = parseFlag(value)
	case "lithium_ion_with_equipment":
		s.LithiumIonWithEquip = parseFlag(value)
	case "lithium_metal_alone":
		s.LithiumMetalAlone = parseFlag(value)
	case "lithium_metal_in_equipment":
		s.LithiumMetalInEquip = parseFlag(value)
	case "reference1":
		s.Reference1 = value
	case "reference2":
		s.Reference2 = value
	case "reference3":
		s.Reference3 = value
	case "service_type":
		s.ServiceType = value
	case "delivery_confirmation":
		s.DeliveryConfirmation = value
	}
	return nil
}

// parseFlag accepts the spellings UPS batch files and German spreadsheets
// use for boolean columns.
func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "y", "yes", "x", "true", "ja":
		return true
	}
	return false
}

// normalizeNumber tolerates German decimal commas in numeric cells.
func normalizeNumber(v string) string {
	return strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return ""
}

func number(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func money(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
