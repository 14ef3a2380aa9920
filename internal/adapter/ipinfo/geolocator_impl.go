package ipinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/repository"
	"github.com/user/phish-dataset/pkg/metrics"
	"github.com/yl2chen/cidranger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// reservedCIDRs are never sent to the API: they have no country.
var reservedCIDRs = []string{
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"192.168.0.0/16",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"224.0.0.0/4",
	"240.0.0.0/4",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
	"2001:db8::/32",
}

const defaultTimeout = 10 * time.Second

// Options configures a Geolocator.
type Options struct {
	BaseURL  string
	Token    string
	Rate     float64 // requests per second, <= 0 disables limiting
	Timeout  time.Duration
	Cache    repository.GeoCacheRepository
	CacheTTL time.Duration
}

// Geolocator implements repository.GeoLocator against the ipinfo.io JSON API.
type Geolocator struct {
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	reserved   cidranger.Ranger
	flight     singleflight.Group
	cache      repository.GeoCacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger
}

func NewGeolocator(opts Options, logger *zap.Logger) (*Geolocator, error) {
	ranger := cidranger.NewPCTrieRanger()
	for _, cidr := range reservedCIDRs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("parse reserved range %s: %w", cidr, err)
		}
		if err := ranger.Insert(cidranger.NewBasicRangerEntry(*network)); err != nil {
			return nil, err
		}
	}

	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Geolocator{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		limiter:    rate.NewLimiter(limit, 1),
		reserved:   ranger,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		logger:     logger,
	}, nil
}

// Country returns the ISO country code of ip, or entity.GeoUnknown.
func (g *Geolocator) Country(ctx context.Context, ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return entity.GeoUnknown
	}
	if reserved, _ := g.reserved.Contains(parsed); reserved {
		return entity.GeoUnknown
	}

	if g.cache != nil {
		country, ok, err := g.cache.Get(ctx, ip)
		if err != nil {
			g.logger.Warn("geolocation cache read failed", zap.String("ip", ip), zap.Error(err))
		} else if ok {
			return country
		}
	}

	// The shared lookup is detached from the caller that started it.
	ch := g.flight.DoChan(ip, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()
		return g.fetch(fetchCtx, ip), nil
	})
	select {
	case res := <-ch:
		return res.Val.(string)
	case <-ctx.Done():
		return entity.GeoUnknown
	}
}

type detailsResponse struct {
	IP      string `json:"ip"`
	Country string `json:"country"`
	Bogon   bool   `json:"bogon"`
}

func (g *Geolocator) fetch(ctx context.Context, ip string) string {
	country, err := g.request(ctx, ip)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("geo", "failure").Inc()
		g.logger.Debug("geolocation lookup failed", zap.String("ip", ip), zap.Error(err))
		return entity.GeoUnknown
	}
	metrics.LookupsTotal.WithLabelValues("geo", "success").Inc()

	if g.cache != nil && country != entity.GeoUnknown {
		if err := g.cache.Set(ctx, ip, country, g.cacheTTL); err != nil {
			g.logger.Warn("geolocation cache write failed", zap.String("ip", ip), zap.Error(err))
		}
	}
	return country
}

func (g *Geolocator) request(ctx context.Context, ip string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s", g.baseURL, url.PathEscape(ip))
	if g.token != "" {
		endpoint += "?token=" + url.QueryEscape(g.token)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ipinfo returned status %d", resp.StatusCode)
	}

	var details detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return "", fmt.Errorf("decode ipinfo response: %w", err)
	}
	if details.Bogon || details.Country == "" {
		return entity.GeoUnknown, nil
	}
	return details.Country, nil
}
