package order

import "strings"

// Address holds the postal fields exchanged with the checkout provider.
type Address struct {
	Organization       string
	GivenName          string
	FamilyName         string
	CountryCode        string
	PostalCode         string
	Locality           string
	AdministrativeArea string
	AddressLine1       string
	AddressLine2       string
}

// Profile is a customer billing profile.
type Profile struct {
	ID      uint
	Address Address
	// Fields carries custom profile fields set by extension hooks.
	Fields map[string]string
}

func NewProfile() *Profile {
	return &Profile{Fields: make(map[string]string)}
}

// SetField assigns a known address field by its host name. Unknown names
// are stored in Fields.
func (p *Profile) SetField(name, value string) {
	a := &p.Address
	switch name {
	case "organization":
		a.Organization = value
	case "given_name":
		a.GivenName = value
	case "family_name":
		a.FamilyName = value
	case "country_code":
		a.CountryCode = strings.ToUpper(value)
	case "postal_code":
		a.PostalCode = value
	case "locality":
		a.Locality = value
	case "administrative_area":
		a.AdministrativeArea = value
	case "address_line1":
		a.AddressLine1 = value
	case "address_line2":
		a.AddressLine2 = value
	default:
		if p.Fields == nil {
			p.Fields = make(map[string]string)
		}
		p.Fields[name] = value
	}
}
