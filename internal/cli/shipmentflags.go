package cli

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/models"
)

// shipmentFlags carries the flag values shared by add and update.
type shipmentFlags struct {
	contact, company, country              string
	address1, address2, address3           string
	city, state, postal, phone, ext, email string
	residential                            bool

	packaging, goods, customs, declared  string
	weight, length, width, height        float64
	unit                                 string
	noCommercialValue, gnifc             bool

	service, confirm                     string
	shipperRelease, saturday, carbon     bool
	largePackage, addlHandling           bool
	premiumCare, electronicRelease       bool

	ref1, ref2, ref3 string
}

// register declares the flags on a command.
func (f *shipmentFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.contact, "contact", "", "contact name")
	fl.StringVar(&f.company, "company", "", "company or name (required for a valid shipment)")
	fl.StringVar(&f.country, "country", "", "ISO-2 country code")
	fl.StringVar(&f.address1, "address1", "", "address line 1")
	fl.StringVar(&f.address2, "address2", "", "address line 2")
	fl.StringVar(&f.address3, "address3", "", "address line 3")
	fl.StringVar(&f.city, "city", "", "city")
	fl.StringVar(&f.state, "state", "", "state/province")
	fl.StringVar(&f.postal, "postal", "", "postal code")
	fl.StringVar(&f.phone, "phone", "", "telephone")
	fl.StringVar(&f.ext, "ext", "", "telephone extension")
	fl.StringVar(&f.email, "email", "", "consignee email")
	fl.BoolVar(&f.residential, "residential", false, "residential address")

	fl.StringVar(&f.packaging, "packaging", "", "packaging type code")
	fl.StringVar(&f.goods, "goods", "", "description of goods")
	fl.StringVar(&f.customs, "customs", "", "customs value")
	fl.StringVar(&f.declared, "declared", "", "declared package value")
	fl.Float64Var(&f.weight, "weight", 0, "weight")
	fl.StringVar(&f.unit, "unit", "", "unit of measure (KG or LB)")
	fl.Float64Var(&f.length, "length", 0, "length in cm")
	fl.Float64Var(&f.width, "width", 0, "width in cm")
	fl.Float64Var(&f.height, "height", 0, "height in cm")
	fl.BoolVar(&f.noCommercialValue, "no-commercial-value", false, "documents of no commercial value")
	fl.BoolVar(&f.gnifc, "gnifc", false, "goods not in free circulation")

	fl.StringVar(&f.service, "service", "", "UPS service type code")
	fl.StringVar(&f.confirm, "confirm", "", "delivery confirmation code")
	fl.BoolVar(&f.shipperRelease, "shipper-release", false, "release without signature")
	fl.BoolVar(&f.saturday, "saturday", false, "saturday delivery")
	fl.BoolVar(&f.carbon, "carbon-neutral", false, "carbon neutral shipping")
	fl.BoolVar(&f.largePackage, "large-package", false, "large package")
	fl.BoolVar(&f.addlHandling, "additional-handling", false, "additional handling")
	fl.BoolVar(&f.premiumCare, "premium-care", false, "UPS premium care")
	fl.BoolVar(&f.electronicRelease, "electronic-release", false, "electronic package release")

	fl.StringVar(&f.ref1, "ref1", "", "reference 1")
	fl.StringVar(&f.ref2, "ref2", "", "reference 2")
	fl.StringVar(&f.ref3, "ref3", "", "reference 3")
}

// record builds a new shipment from the flag values. Unset flags stay at
// zero values; the store fills defaults.
func (f *shipmentFlags) record() (*models.ShipmentRecord, error) {
	rec := &models.ShipmentRecord{
		ContactName:          f.contact,
		CompanyName:          f.company,
		Country:              f.country,
		Address1:             f.address1,
		Address2:             f.address2,
		Address3:             f.address3,
		City:                 f.city,
		State:                f.state,
		PostalCode:           f.postal,
		Telephone:            f.phone,
		Extension:            f.ext,
		Residential:          f.residential,
		Email:                f.email,
		PackagingType:        f.packaging,
		GoodsDescription:     f.goods,
		Weight:               f.weight,
		Length:               f.length,
		Width:                f.width,
		Height:               f.height,
		Unit:                 models.UnitOfMeasure(f.unit),
		NoCommercialValue:    f.noCommercialValue,
		GNIFC:                f.gnifc,
		ServiceType:          f.service,
		DeliveryConfirmation: f.confirm,
		ShipperRelease:       f.shipperRelease,
		SaturdayDelivery:     f.saturday,
		CarbonNeutral:        f.carbon,
		LargePackage:         f.largePackage,
		AdditionalHandling:   f.addlHandling,
		PremiumCare:          f.premiumCare,
		ElectronicRelease:    f.electronicRelease,
		Reference1:           f.ref1,
		Reference2:           f.ref2,
		Reference3:           f.ref3,
	}

	var err error
	if rec.CustomsValue, err = parseMoney(f.customs); err != nil {
		return nil, err
	}
	if rec.DeclaredValue, err = parseMoney(f.declared); err != nil {
		return nil, err
	}
	return rec, nil
}

// patch builds a partial update from only the flags the user set.
func (f *shipmentFlags) patch(cmd *cobra.Command) (*models.ShipmentPatch, error) {
	p := &models.ShipmentPatch{}
	changed := cmd.Flags().Changed

	if changed("contact") {
		p.ContactName = &f.contact
	}
	if changed("company") {
		p.CompanyName = &f.company
	}
	if changed("country") {
		p.Country = &f.country
	}
	if changed("address1") {
		p.Address1 = &f.address1
	}
	if changed("address2") {
		p.Address2 = &f.address2
	}
	if changed("address3") {
		p.Address3 = &f.address3
	}
	if changed("city") {
		p.City = &f.city
	}
	if changed("state") {
		p.State = &f.state
	}
	if changed("postal") {
		p.PostalCode = &f.postal
	}
	if changed("phone") {
		p.Telephone = &f.phone
	}
	if changed("ext") {
		p.Extension = &f.ext
	}
	if changed("email") {
		p.Email = &f.email
	}
	if changed("residential") {
		p.Residential = &f.residential
	}
	if changed("packaging") {
		p.PackagingType = &f.packaging
	}
	if changed("goods") {
		p.GoodsDescription = &f.goods
	}
	if changed("customs") {
		d, err := parseMoney(f.customs)
		if err != nil {
			return nil, err
		}
		p.CustomsValue = &d
	}
	if changed("declared") {
		d, err := parseMoney(f.declared)
		if err != nil {
			return nil, err
		}
		p.DeclaredValue = &d
	}
	if changed("weight") {
		p.Weight = &f.weight
	}
	if changed("length") {
		p.Length = &f.length
	}
	if changed("width") {
		p.Width = &f.width
	}
	if changed("height") {
		p.Height = &f.height
	}
	if changed("unit") {
		u := models.UnitOfMeasure(f.unit)
		p.Unit = &u
	}
	if changed("no-commercial-value") {
		p.NoCommercialValue = &f.noCommercialValue
	}
	if changed("gnifc") {
		p.GNIFC = &f.gnifc
	}
	if changed("service") {
		p.ServiceType = &f.service
	}
	if changed("confirm") {
		p.DeliveryConfirmation = &f.confirm
	}
	if changed("shipper-release") {
		p.ShipperRelease = &f.shipperRelease
	}
	if changed("saturday") {
		p.SaturdayDelivery = &f.saturday
	}
	if changed("carbon-neutral") {
		p.CarbonNeutral = &f.carbon
	}
	if changed("large-package") {
		p.LargePackage = &f.largePackage
	}
	if changed("additional-handling") {
		p.AdditionalHandling = &f.addlHandling
	}
	if changed("premium-care") {
		p.PremiumCare = &f.premiumCare
	}
	if changed("electronic-release") {
		p.ElectronicRelease = &f.electronicRelease
	}
	if changed("ref1") {
		p.Reference1 = &f.ref1
	}
	if changed("ref2") {
		p.Reference2 = &f.ref2
	}
	if changed("ref3") {
		p.Reference3 = &f.ref3
	}
	return p, nil
}

func parseMoney(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v)
}
