package output

import (
	"context"

	"onboarding-bot/internal/domain/entity"
)

// AddressLookupPort fails soft: a nil result means no enrichment is available.
type AddressLookupPort interface {
	Lookup(ctx context.Context, postalCode string) *entity.AddressLookupResult
}
