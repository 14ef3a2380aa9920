package dnsresolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/repository"
	"github.com/user/phish-dataset/pkg/metrics"
	"github.com/user/phish-dataset/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxParallelLookups = 8

var errNoAnswer = errors.New("no answer")

// Resolver implements repository.DNSResolver by querying a single upstream server.
type Resolver struct {
	client *dns.Client
	server string
	geo    repository.GeoLocator
	logger *zap.Logger
}

// NewResolver creates a resolver for server ("host:port"; port 53 is assumed when omitted).
func NewResolver(server string, timeout time.Duration, geo repository.GeoLocator, logger *zap.Logger) *Resolver {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	return &Resolver{
		client: &dns.Client{Net: "udp", Timeout: timeout},
		server: server,
		geo:    geo,
		logger: logger,
	}
}

// Resolve looks up the A and MX records of rawURL's registered domain and geolocates
// every address found. A failed stage leaves only its own record set empty.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (entity.DNSRecords, error) {
	records := entity.EmptyDNSRecords()

	domain, err := utils.RegisteredDomain(rawURL)
	if err != nil {
		return records, fmt.Errorf("resolve %q: %w", rawURL, err)
	}

	ips, err := r.lookupA(ctx, domain)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("dns_a", "failure").Inc()
		r.logger.Debug("A lookup failed", zap.String("domain", domain), zap.Error(err))
	} else {
		metrics.LookupsTotal.WithLabelValues("dns_a", "success").Inc()
		records.A = entity.RecordSet{IPs: ips, Geolocations: r.locate(ctx, ips)}
	}

	mx, err := r.resolveMX(ctx, domain)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("dns_mx", "failure").Inc()
		r.logger.Debug("MX lookup failed", zap.String("domain", domain), zap.Error(err))
	} else {
		metrics.LookupsTotal.WithLabelValues("dns_mx", "success").Inc()
		records.MX = mx
	}

	return records, nil
}

func (r *Resolver) resolveMX(ctx context.Context, domain string) (entity.MXRecordSet, error) {
	answers, err := r.query(ctx, domain, dns.TypeMX)
	if err != nil {
		return entity.MXRecordSet{}, err
	}

	var hosts []string
	for _, rr := range answers {
		if mx, ok := rr.(*dns.MX); ok {
			hosts = append(hosts, mx.Mx)
		}
	}
	if len(hosts) == 0 {
		return entity.MXRecordSet{}, errNoAnswer
	}

	// Exchanges that fail to resolve are skipped, the others keep record order.
	perHost := make([][]string, len(hosts))
	var g errgroup.Group
	g.SetLimit(maxParallelLookups)
	for i, host := range hosts {
		i, host := i, host
		g.Go(func() error {
			ips, err := r.lookupA(ctx, host)
			if err != nil {
				r.logger.Debug("MX host lookup failed", zap.String("host", host), zap.Error(err))
				return nil
			}
			perHost[i] = ips
			return nil
		})
	}
	_ = g.Wait()

	ips := []string{}
	for _, list := range perHost {
		ips = append(ips, list...)
	}
	return entity.MXRecordSet{
		MailServers:  hosts,
		IPs:          ips,
		Geolocations: r.locate(ctx, ips),
	}, nil
}

func (r *Resolver) lookupA(ctx context.Context, name string) ([]string, error) {
	answers, err := r.query(ctx, name, dns.TypeA)
	if err != nil {
		return nil, err
	}
	var ips []string
	for _, rr := range answers {
		if a, ok := rr.(*dns.A); ok {
			ips = append(ips, a.A.String())
		}
	}
	if len(ips) == 0 {
		return nil, errNoAnswer
	}
	return ips, nil
}

func (r *Resolver) query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, err
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%s %s: %s", name, dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
	}
	return resp.Answer, nil
}

// locate geolocates ips concurrently, preserving order.
func (r *Resolver) locate(ctx context.Context, ips []string) []string {
	out := make([]string, len(ips))
	var g errgroup.Group
	g.SetLimit(maxParallelLookups)
	for i, ip := range ips {
		i, ip := i, ip
		g.Go(func() error {
			out[i] = r.geo.Country(ctx, ip)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
