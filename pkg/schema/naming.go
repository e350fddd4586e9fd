package schema

import (
	"regexp"
	"strings"
)

var (
	snakeName    = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)
	exportedName = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	packageName  = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
)

// commonInitialisms follow the golint list, restricted to what shows up in
// column names.
var commonInitialisms = map[string]bool{
	"API":  true,
	"CPU":  true,
	"HTTP": true,
	"ID":   true,
	"IP":   true,
	"JSON": true,
	"SKU":  true,
	"SQL":  true,
	"TTL":  true,
	"UID":  true,
	"URL":  true,
	"UUID": true,
}

// GoName converts a snake_case column name to an exported Go identifier.
//
//	order_id      -> OrderID
//	unit_price    -> UnitPrice
//	shipping_url  -> ShippingURL
func GoName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		if upper := strings.ToUpper(part); commonInitialisms[upper] {
			b.WriteString(upper)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// reservedFields collide with methods generated on the container or views.
var reservedFields = map[string]bool{
	"all":      true,
	"clone":    true,
	"index":    true,
	"is_empty": true,
	"len":      true,
	"push":     true,
	"row":      true,
	"set":      true,
	"validate": true,
	"view":     true,
	"view_mut": true,
}
