package validate

import "regexp"

// postalPatterns maps ISO-2 country codes to postal code formats. Countries
// not listed fall back to a permissive alphanumeric-with-separators pattern.
var postalPatterns = map[string]*regexp.Regexp{
	"DE": regexp.MustCompile(`^\d{5}$`),
	"US": regexp.MustCompile(`^\d{5}(-\d{4})?$`),
	"CA": regexp.MustCompile(`^[A-Za-z]\d[A-Za-z][ ]?\d[A-Za-z]\d$`),
	"GB": regexp.MustCompile(`^[A-Za-z]{1,2}\d[A-Za-z\d]?[ ]?\d[A-Za-z]{2}$`),
	"NL": regexp.MustCompile(`^\d{4}[ ]?[A-Za-z]{2}$`),
	"FR": regexp.MustCompile(`^\d{5}$`),
	"IT": regexp.MustCompile(`^\d{5}$`),
	"ES": regexp.MustCompile(`^\d{5}$`),
	"AT": regexp.MustCompile(`^\d{4}$`),
	"CH": regexp.MustCompile(`^\d{4}$`),
	"BE": regexp.MustCompile(`^\d{4}$`),
	"DK": regexp.MustCompile(`^\d{4}$`),
	"PL": regexp.MustCompile(`^\d{2}-\d{3}$`),
	"SE": regexp.MustCompile(`^\d{3}[ ]?\d{2}$`),
	"JP": regexp.MustCompile(`^\d{3}-?\d{4}$`),
}

// postalFallback accepts letters, digits, spaces and dashes for countries
// without a dedicated pattern.
var postalFallback = regexp.MustCompile(`^[A-Za-z\d][A-Za-z\d\- ]{1,9}$`)

// ValidPostalCode checks a postal code against the country's format.
func ValidPostalCode(country, code string) bool {
	if re, ok := postalPatterns[country]; ok {
		return re.MatchString(code)
	}
	return postalFallback.MatchString(code)
}
