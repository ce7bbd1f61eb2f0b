package sessionbuilder

import (
	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
)

// Provider address keys.
const (
	AddressKeyOrganizationName = "organization_name"
	AddressKeyGivenName        = "given_name"
	AddressKeyFamilyName       = "family_name"
	AddressKeyCountry          = "country"
	AddressKeyPostalCode       = "postal_code"
	AddressKeyCity             = "city"
	AddressKeyRegion           = "region"
	AddressKeyStreetAddress    = "street_address"
	AddressKeyStreetAddress2   = "street_address2"
	AddressKeyEmail            = "email"
)

// providerFieldMap maps provider address keys to host profile fields.
var providerFieldMap = map[string]string{
	AddressKeyOrganizationName: "organization",
	AddressKeyGivenName:        "given_name",
	AddressKeyFamilyName:       "family_name",
	AddressKeyCountry:          "country_code",
	AddressKeyPostalCode:       "postal_code",
	AddressKeyCity:             "locality",
	AddressKeyRegion:           "administrative_area",
	AddressKeyStreetAddress:    "address_line1",
	AddressKeyStreetAddress2:   "address_line2",
}

// ToProviderAddress flattens a profile address. Email is never included.
func ToProviderAddress(profile *order.Profile) paymentgateway.Address {
	a := profile.Address
	return paymentgateway.Address{
		AddressKeyOrganizationName: a.Organization,
		AddressKeyGivenName:        a.GivenName,
		AddressKeyFamilyName:       a.FamilyName,
		AddressKeyCountry:          a.CountryCode,
		AddressKeyPostalCode:       a.PostalCode,
		AddressKeyCity:             a.Locality,
		AddressKeyRegion:           a.AdministrativeArea,
		AddressKeyStreetAddress:    a.AddressLine1,
		AddressKeyStreetAddress2:   a.AddressLine2,
	}
}

// PopulateProfile copies known provider keys onto profile. Unknown keys are
// ignored and the country code is upper-cased.
func PopulateProfile(profile *order.Profile, address paymentgateway.Address) {
	for key, value := range address {
		field, ok := providerFieldMap[key]
		if !ok {
			continue
		}
		profile.SetField(field, value)
	}
}
