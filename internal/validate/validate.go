// Package validate implements the shipment validation engine. Validation is
// pure and deterministic: all rules are applied independently, every finding
// is collected, and callers own persistence of the result.
package validate

import (
	"fmt"
	"regexp"

	"github.com/skleinke/upsbatch/internal/models"
)

// Result is the outcome of validating one shipment. Errors is never nil;
// a valid shipment carries an empty list.
type Result struct {
	IsValid bool
	Errors  []models.FieldError
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks a shipment record against all rules and returns the
// collected findings. It never mutates the record.
func Validate(s *models.ShipmentRecord) Result {
	errs := []models.FieldError{}

	// Required fields
	if s.CompanyName == "" {
		errs = append(errs, fieldError("company_name", "Firmenname ist erforderlich"))
	}
	if s.Address1 == "" {
		errs = append(errs, fieldError("address1", "Adresse 1 ist erforderlich"))
	}
	if s.City == "" {
		errs = append(errs, fieldError("city", "Stadt ist erforderlich"))
	}
	if s.Country == "" {
		errs = append(errs, fieldError("country", "Land ist erforderlich"))
	}
	if s.PostalCode == "" {
		errs = append(errs, fieldError("postal_code", "Postleitzahl ist erforderlich"))
	} else if s.Country != "" && !ValidPostalCode(s.Country, s.PostalCode) {
		errs = append(errs, fieldError("postal_code",
			fmt.Sprintf("Ungültiges Postleitzahlenformat für %s", s.Country)))
	}

	errs = append(errs, checkWeight(s)...)
	errs = append(errs, checkDimensions(s)...)

	// Email shape, only applied when non-empty
	if s.Email != "" && !emailPattern.MatchString(s.Email) {
		errs = append(errs, fieldError("email", "Ungültige E-Mail-Adresse"))
	}

	// International shipments require customs information
	if s.IsInternational() {
		if !s.CustomsValue.IsPositive() {
			errs = append(errs, fieldError("customs_value",
				"Zollwert ist für internationale Sendungen erforderlich"))
		}
		if s.GoodsDescription == "" {
			errs = append(errs, fieldError("goods_description",
				"Warenbeschreibung ist für internationale Sendungen erforderlich"))
		}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func checkWeight(s *models.ShipmentRecord) []models.FieldError {
	if s.Weight <= 0 {
		return []models.FieldError{fieldError("weight", "Gewicht muss größer als 0 sein")}
	}

	switch s.Unit {
	case models.UnitLB:
		if s.Weight > models.MaxWeightLB {
			return []models.FieldError{fieldError("weight",
				fmt.Sprintf("Gewicht darf %.0f lb nicht überschreiten", models.MaxWeightLB))}
		}
	default:
		// KG is the default unit
		if s.Weight > models.MaxWeightKG {
			return []models.FieldError{fieldError("weight",
				fmt.Sprintf("Gewicht darf %.0f kg nicht überschreiten", models.MaxWeightKG))}
		}
	}
	return nil
}

// checkDimensions applies the package size rules: when any dimension is set,
// each non-zero value must be within [1,270] cm and the girth
// (length + 2*(width+height)) must not exceed 400 cm.
func checkDimensions(s *models.ShipmentRecord) []models.FieldError {
	if s.Length == 0 && s.Width == 0 && s.Height == 0 {
		return nil
	}

	var errs []models.FieldError
	dims := map[string]float64{"length": s.Length, "width": s.Width, "height": s.Height}
	for _, field := range []string{"length", "width", "height"} {
		v := dims[field]
		if v == 0 {
			continue
		}
		if v < models.MinDimensionCM || v > models.MaxDimensionCM {
			errs = append(errs, fieldError(field,
				fmt.Sprintf("Abmessung muss zwischen %.0f und %.0f cm liegen",
					models.MinDimensionCM, models.MaxDimensionCM)))
		}
	}

	if s.Girth() > models.MaxGirthCM {
		errs = append(errs, fieldError("dimensions",
			fmt.Sprintf("Gurtmaß darf %.0f cm nicht überschreiten", models.MaxGirthCM)))
	}
	return errs
}

func fieldError(field, message string) models.FieldError {
	return models.FieldError{Field: field, Message: message}
}
