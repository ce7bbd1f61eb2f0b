package mappers

import (
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/persistence/models"
)

func ProfileToModel(p *order.Profile) *models.ProfileModel {
	a := p.Address
	model := &models.ProfileModel{
		ID:                 p.ID,
		Organization:       a.Organization,
		GivenName:          a.GivenName,
		FamilyName:         a.FamilyName,
		CountryCode:        a.CountryCode,
		PostalCode:         a.PostalCode,
		Locality:           a.Locality,
		AdministrativeArea: a.AdministrativeArea,
		AddressLine1:       a.AddressLine1,
		AddressLine2:       a.AddressLine2,
	}

	if len(p.Fields) > 0 {
		model.Fields = make(map[string]interface{}, len(p.Fields))
		for k, v := range p.Fields {
			model.Fields[k] = v
		}
	}

	return model
}

func ProfileToDomain(model *models.ProfileModel) *order.Profile {
	p := order.NewProfile()
	p.ID = model.ID
	p.Address = order.Address{
		Organization:       model.Organization,
		GivenName:          model.GivenName,
		FamilyName:         model.FamilyName,
		CountryCode:        model.CountryCode,
		PostalCode:         model.PostalCode,
		Locality:           model.Locality,
		AdministrativeArea: model.AdministrativeArea,
		AddressLine1:       model.AddressLine1,
		AddressLine2:       model.AddressLine2,
	}
	for k, v := range model.Fields {
		if s, ok := v.(string); ok {
			p.Fields[k] = s
		}
	}
	return p
}
