package repository

import (
	"context"
	"time"

	"github.com/user/phish-dataset/internal/entity"
)

// DNSResolver resolves the A and MX records of a URL's registered domain.
type DNSResolver interface {
	Resolve(ctx context.Context, rawURL string) (entity.DNSRecords, error)
}

// GeoLocator maps an IP address to a country code, entity.GeoUnknown when it cannot.
type GeoLocator interface {
	Country(ctx context.Context, ip string) string
}

// GeoCacheRepository caches IP geolocations between runs.
type GeoCacheRepository interface {
	// Get returns the cached country and whether it was present.
	Get(ctx context.Context, ip string) (string, bool, error)
	Set(ctx context.Context, ip, country string, ttl time.Duration) error
}

// WhoisLookup fetches registration data for a registered domain.
type WhoisLookup interface {
	Lookup(ctx context.Context, domain string) (entity.WhoisRecord, error)
}

// VariantGenerator asks a language model for typo-squatted variants of URLs.
// It returns the parsed variants together with the raw model text.
type VariantGenerator interface {
	Generate(ctx context.Context, urls []string) ([]entity.URLVariant, string, error)
}
