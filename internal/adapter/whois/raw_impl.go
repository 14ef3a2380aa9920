package whois

import (
	"context"
	"strings"
	"time"

	"github.com/likexian/whois"
	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RawClient implements repository.WhoisLookup over port 43, for runs without an API key.
type RawClient struct {
	lookup  func(domain string, servers ...string) (string, error)
	limiter *rate.Limiter
	now     func() time.Time
	logger  *zap.Logger
}

func NewRawClient(ratePerSecond float64, timeout time.Duration, logger *zap.Logger) *RawClient {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	client := whois.NewClient().SetTimeout(timeout)
	return &RawClient{
		lookup:  client.Whois,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
		logger:  logger,
	}
}

func (c *RawClient) Lookup(ctx context.Context, domain string) (entity.WhoisRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.WhoisRecord{}, err
	}

	raw, err := c.lookup(domain)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("whois", "failure").Inc()
		return entity.WhoisRecord{}, err
	}
	metrics.LookupsTotal.WithLabelValues("whois", "success").Inc()

	rec := ParseRaw(raw)
	rec.QueryTime = c.now().Format(entity.TimestampLayout)
	return rec, nil
}

var (
	domainKeys      = []string{"domain name", "domain"}
	registrarKeys   = []string{"registrar", "sponsoring registrar", "registrar name"}
	whoisServerKeys = []string{"registrar whois server", "whois server", "whois"}
	websiteKeys     = []string{"registrar url", "referral url"}
	createdKeys     = []string{"creation date", "created", "created on", "registered on", "registration time", "domain registration date"}
	updatedKeys     = []string{"updated date", "last updated", "last modified", "changed", "modified"}
	expiryKeys      = []string{"registry expiry date", "registrar registration expiration date", "expiration date", "expiry date", "expires", "paid-till"}
	nameServerKeys  = []string{"name server", "nserver"}
	notFoundMarkers = []string{"no match for", "not found", "no data found", "no entries found", "status: free"}
)

// ParseRaw extracts the WhoisRecord fields from a raw port-43 response.
// For every field the first matching line wins.
func ParseRaw(raw string) entity.WhoisRecord {
	var rec entity.WhoisRecord
	var nameServers []string
	seen := map[string]bool{}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch {
		case matches(key, domainKeys):
			setOnce(&rec.DomainName, strings.ToLower(value))
		case matches(key, registrarKeys):
			setOnce(&rec.RegName, value)
		case matches(key, whoisServerKeys):
			setOnce(&rec.WhoisServer, value)
		case matches(key, websiteKeys):
			setOnce(&rec.WebsiteURL, value)
		case matches(key, createdKeys):
			setOnce(&rec.CreateDate, normalizeDate(value))
		case matches(key, updatedKeys):
			setOnce(&rec.UpdateDate, normalizeDate(value))
		case matches(key, expiryKeys):
			setOnce(&rec.ExpiryDate, normalizeDate(value))
		case matches(key, nameServerKeys):
			ns := strings.ToLower(strings.Fields(value)[0])
			if !seen[ns] {
				seen[ns] = true
				nameServers = append(nameServers, ns)
			}
		}
	}

	registered := rec.DomainName != "" || rec.CreateDate != "" || rec.RegName != ""
	lower := strings.ToLower(raw)
	for _, marker := range notFoundMarkers {
		if strings.Contains(lower, marker) {
			registered = false
			break
		}
	}
	if !registered {
		return entity.WhoisRecord{DomainRegistered: "no"}
	}

	rec.DomainRegistered = "yes"
	rec.DomainName = orNotAvailable(rec.DomainName)
	rec.CreateDate = orNotAvailable(rec.CreateDate)
	rec.UpdateDate = orNotAvailable(rec.UpdateDate)
	rec.ExpiryDate = orNotAvailable(rec.ExpiryDate)
	rec.RegName = orNotAvailable(rec.RegName)
	rec.WhoisServer = orNotAvailable(rec.WhoisServer)
	rec.WebsiteURL = orNotAvailable(rec.WebsiteURL)
	rec.DaysExisted = daysExisted(rec.CreateDate, rec.ExpiryDate)
	if len(nameServers) >= 2 {
		rec.NameServer0 = nameServers[0]
		rec.NameServer1 = nameServers[1]
	}
	return rec
}

func matches(key string, candidates []string) bool {
	for _, c := range candidates {
		if key == c {
			return true
		}
	}
	return false
}

func setOnce(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// normalizeDate reduces timestamps such as 2019-08-13T04:00:00Z to their date part.
func normalizeDate(value string) string {
	if len(value) >= 10 {
		if _, err := time.Parse(dateLayout, value[:10]); err == nil {
			return value[:10]
		}
	}
	return value
}
