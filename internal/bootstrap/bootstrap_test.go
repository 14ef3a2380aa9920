package bootstrap

import (
	"testing"

	"github.com/user/phish-dataset/internal/adapter/whois"
	"github.com/user/phish-dataset/pkg/config"
	"go.uber.org/zap"
)

func TestNewLookupsPicksWhoisSource(t *testing.T) {
	cfg := &config.Config{
		DNSServer:     "127.0.0.1",
		IPInfoBaseURL: "http://127.0.0.1:1",
		WhoisBaseURL:  "http://127.0.0.1:1",
		LookupTimeout: 1,
		DNSTimeout:    1,
	}

	l, err := NewLookups(cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewLookups: %v", err)
	}
	if _, ok := l.Whois.(*whois.RawClient); !ok {
		t.Errorf("without an API key got %T, want *whois.RawClient", l.Whois)
	}

	cfg.WhoisAPIKey = "key"
	l, err = NewLookups(cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewLookups: %v", err)
	}
	if _, ok := l.Whois.(*whois.FreaksClient); !ok {
		t.Errorf("with an API key got %T, want *whois.FreaksClient", l.Whois)
	}
	if l.Resolver == nil {
		t.Error("resolver not wired")
	}
}
