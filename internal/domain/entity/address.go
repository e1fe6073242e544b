package entity

type AddressLookupResult struct {
	Street       string
	Neighborhood string
	Region       string
}
