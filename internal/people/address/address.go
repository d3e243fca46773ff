// Package address composes the legal (KTP) and residence address pair.
package address

import "persona/internal/people/models"

// Compose returns the address pair to persist. With copyFlag the residence is
// replaced by a deep copy of ktp, whatever residence was supplied. Without it
// both are used as given; nil means no address of that role.
func Compose(ktp, residence *models.Address, copyFlag bool) models.PersonAddress {
	if copyFlag {
		return models.PersonAddress{KTP: ktp.Clone(), Residence: ktp.Clone()}
	}
	return models.PersonAddress{KTP: ktp.Clone(), Residence: residence.Clone()}
}

// FromInput composes a submission's address block. Nil input yields an empty pair.
func FromInput(in *models.AddressInput) models.PersonAddress {
	if in == nil {
		return models.PersonAddress{}
	}
	return Compose(in.KTP, in.Residence, in.ResidenceSameAsKTP)
}
