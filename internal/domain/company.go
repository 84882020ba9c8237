package domain

import "strings"

type CompanyRole string

const (
	RoleCustomer     CompanyRole = "CUSTOMER"
	RoleManufacturer CompanyRole = "MANUFACTURER"
	RoleAdmin        CompanyRole = "ADMIN"
)

// Postal address of a company. Every part is optional.
type Address struct {
	Street  string `json:"street,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// NotAvailable is rendered in place of missing address parts.
const NotAvailable = "N/A"

// Line renders the address as "street, zip city, country".
func (a Address) Line() string {
	street := orNA(a.Street)
	city := strings.TrimSpace(strings.TrimSpace(a.ZipCode) + " " + orNA(a.City))
	country := orNA(a.Country)

	line := street + ", " + city + ", " + country
	return strings.Trim(strings.TrimSpace(line), ",")
}

func orNA(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}
	return s
}

// Company is a directory entry for a customer, manufacturer or admin.
type Company struct {
	ID          string      `json:"id"`
	CompanyName string      `json:"companyName"`
	Role        CompanyRole `json:"role"`
	Address     *Address    `json:"address,omitempty"`
}

// AddressLine returns the formatted address, or NotAvailable if none is on file.
func (c Company) AddressLine() string {
	if c.Address == nil {
		return NotAvailable
	}
	return c.Address.Line()
}
