package whois

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FreaksClient implements repository.WhoisLookup with the whoisfreaks live lookup API.
type FreaksClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewFreaksClient creates a client; ratePerSecond <= 0 disables limiting.
func NewFreaksClient(baseURL, apiKey string, ratePerSecond float64, timeout time.Duration, logger *zap.Logger) *FreaksClient {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &FreaksClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

type freaksRegistrar struct {
	RegistrarName string `json:"registrar_name"`
	WhoisServer   string `json:"whois_server"`
	WebsiteURL    string `json:"website_url"`
}

type freaksRegistry struct {
	DomainName      string           `json:"domain_name"`
	CreateDate      string           `json:"create_date"`
	UpdateDate      string           `json:"update_date"`
	ExpiryDate      string           `json:"expiry_date"`
	DomainRegistrar *freaksRegistrar `json:"domain_registrar"`
}

type freaksResponse struct {
	QueryTime        string          `json:"query_time"`
	DomainRegistered string          `json:"domain_registered"`
	RegistryData     *freaksRegistry `json:"registry_data"`
	NameServers      []string        `json:"name_servers"`
}

// Lookup fetches the live WHOIS record of domain.
func (c *FreaksClient) Lookup(ctx context.Context, domain string) (entity.WhoisRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.WhoisRecord{}, err
	}

	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("whois", "live")
	q.Set("domainName", domain)
	endpoint := c.baseURL + "/v1.0/whois?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entity.WhoisRecord{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("whois", "failure").Inc()
		return entity.WhoisRecord{}, fmt.Errorf("whois request for %s: %w", domain, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.LookupsTotal.WithLabelValues("whois", "failure").Inc()
		return entity.WhoisRecord{}, fmt.Errorf("whois request for %s: status %d", domain, resp.StatusCode)
	}

	var body freaksResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.LookupsTotal.WithLabelValues("whois", "failure").Inc()
		return entity.WhoisRecord{}, fmt.Errorf("decode whois response for %s: %w", domain, err)
	}

	metrics.LookupsTotal.WithLabelValues("whois", "success").Inc()
	return body.record(), nil
}

func (r freaksResponse) record() entity.WhoisRecord {
	rec := entity.WhoisRecord{
		QueryTime:        r.QueryTime,
		DomainRegistered: r.DomainRegistered,
	}
	if r.DomainRegistered != "yes" || r.RegistryData == nil {
		return rec
	}

	reg := r.RegistryData
	rec.DomainName = orNotAvailable(reg.DomainName)
	rec.CreateDate = orNotAvailable(reg.CreateDate)
	rec.UpdateDate = orNotAvailable(reg.UpdateDate)
	rec.ExpiryDate = orNotAvailable(reg.ExpiryDate)
	rec.DaysExisted = daysExisted(rec.CreateDate, rec.ExpiryDate)

	if reg.DomainRegistrar != nil {
		rec.RegName = orNotAvailable(reg.DomainRegistrar.RegistrarName)
		rec.WhoisServer = orNotAvailable(reg.DomainRegistrar.WhoisServer)
		rec.WebsiteURL = orNotAvailable(reg.DomainRegistrar.WebsiteURL)
	}

	// Name servers are only kept when there are at least two of them.
	if len(r.NameServers) >= 2 {
		rec.NameServer0 = r.NameServers[0]
		rec.NameServer1 = r.NameServers[1]
	}
	return rec
}
