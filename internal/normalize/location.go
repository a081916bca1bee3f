package normalize

import "strings"

// DefaultLocation is used when a posting carries no location.
const DefaultLocation = "UK"

// locationAliases maps upstream display names to canonical city names.
// No value here is itself a key, so cleaning is idempotent.
var locationAliases = map[string]string{
	"Greater London":                 "London",
	"City of London":                 "London",
	"Central London":                 "London",
	"Manchester, Greater Manchester": "Manchester",
	"Birmingham, West Midlands":      "Birmingham",
	"Edinburgh, Scotland":            "Edinburgh",
	"Glasgow, Scotland":              "Glasgow",
	"Cambridge, Cambridgeshire":      "Cambridge",
	"Oxford, Oxfordshire":            "Oxford",
	"Bristol, South West":            "Bristol",
	"Leeds, West Yorkshire":          "Leeds",
	"Newcastle upon Tyne":            "Newcastle",
}

// CleanLocation canonicalizes an upstream location string. Unmapped values
// pass through trimmed.
func CleanLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return DefaultLocation
	}
	if canonical, ok := locationAliases[location]; ok {
		return canonical
	}
	return location
}
