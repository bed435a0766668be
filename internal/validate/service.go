package validate

// UPS service codes grouped by lane. Shipments to the US or Canada use the
// domestic service set; every other destination uses the international set.
var (
	domesticServices = map[string]bool{
		"01": true, // Next Day Air
		"02": true, // 2nd Day Air
		"03": true, // Ground
		"12": true, // 3 Day Select
		"13": true, // Next Day Air Saver
		"14": true, // Next Day Air Early
		"59": true, // 2nd Day Air A.M.
	}
	internationalServices = map[string]bool{
		"07": true, // Worldwide Express
		"08": true, // Worldwide Expedited
		"11": true, // Standard
		"54": true, // Worldwide Express Plus
		"65": true, // Worldwide Saver
		"96": true, // Worldwide Express Freight
	}
)

// domesticServiceCountries lists destinations served by the domestic set.
var domesticServiceCountries = map[string]bool{"US": true, "CA": true}

// ValidServiceForCountry reports whether a service code may be used for the
// destination country. Empty codes are left to the required-field checks.
func ValidServiceForCountry(service, country string) bool {
	if service == "" || country == "" {
		return true
	}
	if domesticServiceCountries[country] {
		return domesticServices[service]
	}
	return internationalServices[service]
}

// CheckServiceCountry is the secondary validator used on top of Validate:
// it returns a field error when the service does not serve the destination.
func CheckServiceCountry(service, country string) (string, bool) {
	if ValidServiceForCountry(service, country) {
		return "", true
	}
	return "Service ist für das Zielland nicht verfügbar", false
}
