package schema

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"
)

// TableName returns the physical table a declaration materializes into:
// the explicit physicalName when set, otherwise the pluralized snake_case of
// the model name ("Invoice" becomes "invoices", "InvoiceLine" becomes
// "invoice_lines").
func (d *Declaration) TableName() (string, error) {
	if d.PhysicalName != "" {
		return d.PhysicalName, nil
	}
	name := inflect.Tableize(d.Name)
	if !validIdentifier(name) {
		return "", fmt.Errorf("%w: derived table name %q is not a valid identifier", ErrInvalidDeclaration, name)
	}
	return name, nil
}

// PathSegment returns the API path segment records of this model are served
// under: the lowercased model name, so model "Invoice" answers at
// /api/invoice.
func (d *Declaration) PathSegment() string {
	return strings.ToLower(d.Name)
}
