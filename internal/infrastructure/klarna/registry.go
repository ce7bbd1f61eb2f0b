package klarna

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/shared/biztime"
	"github.com/orris-inc/klarnacheckout/internal/shared/config"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

const (
	defaultRegistryTTL  = time.Hour
	defaultRegistrySize = 16
)

type registryEntry struct {
	client   *Client
	lastUsed time.Time
}

// Registry caches clients per credential set. Entries idle longer than the
// TTL are dropped, and the least recently used entry is evicted when the
// registry is full.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	ttl     time.Duration
	maxSize int
	opts    []Option
	logger  logger.Interface
}

func NewRegistry(ttl time.Duration, maxSize int, log logger.Interface, opts ...Option) *Registry {
	if ttl <= 0 {
		ttl = defaultRegistryTTL
	}
	if maxSize <= 0 {
		maxSize = defaultRegistrySize
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Registry{
		entries: make(map[string]*registryEntry),
		ttl:     ttl,
		maxSize: maxSize,
		opts:    opts,
		logger:  log,
	}
}

// ConfigKey hashes everything that makes two clients behave differently.
func ConfigKey(cfg Config) string {
	raw := strings.Join([]string{
		cfg.Username,
		cfg.Password,
		cfg.BaseURL,
		cfg.Timeout.String(),
		fmt.Sprint(cfg.RetryAttempts),
		cfg.RetryWait.String(),
		fmt.Sprint(cfg.LogBodies),
	}, "\x00")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached client for cfg, creating it on first use.
func (r *Registry) Get(cfg Config) (*Client, error) {
	key := ConfigKey(cfg)
	now := biztime.NowUTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpired(now)

	if entry, ok := r.entries[key]; ok {
		entry.lastUsed = now
		return entry.client, nil
	}

	opts := append([]Option{WithLogger(r.logger)}, r.opts...)
	client, err := NewClient(cfg, opts...)
	if err != nil {
		return nil, err
	}

	if len(r.entries) >= r.maxSize {
		r.evictOldest()
	}
	r.entries[key] = &registryEntry{client: client, lastUsed: now}
	r.logger.Debugw("checkout client created", "base_url", cfg.BaseURL, "cached_clients", len(r.entries))
	return client, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) evictExpired(now time.Time) {
	for key, entry := range r.entries {
		if now.Sub(entry.lastUsed) > r.ttl {
			delete(r.entries, key)
		}
	}
}

func (r *Registry) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range r.entries {
		if oldestKey == "" || entry.lastUsed.Before(oldest) {
			oldestKey, oldest = key, entry.lastUsed
		}
	}
	if oldestKey != "" {
		delete(r.entries, oldestKey)
	}
}

// ConfigFromSettings derives the client configuration from the checkout
// settings, choosing the regional endpoint unless base_url overrides it.
func ConfigFromSettings(kc config.KlarnaConfig) (Config, error) {
	if kc.Username == "" || kc.Password == "" {
		return Config{}, apperrors.NewConfigurationError("klarna.username and klarna.password are required")
	}
	if kc.PurchaseCountry == "" {
		return Config{}, apperrors.NewConfigurationError("klarna.purchase_country is required")
	}

	baseURL := kc.BaseURL
	if baseURL == "" {
		baseURL = BaseURL(kc.PurchaseCountry, kc.IsTestMode())
	}

	return Config{
		Username:      kc.Username,
		Password:      kc.Password,
		BaseURL:       baseURL,
		Timeout:       kc.Timeout,
		RetryAttempts: kc.RetryAttempts,
		RetryWait:     kc.RetryWait,
		LogBodies:     kc.LogHTTPBodies,
	}, nil
}

// Provider resolves the client for a fixed configuration through the registry.
type Provider struct {
	registry *Registry
	cfg      Config
}

var _ paymentgateway.ClientProvider = (*Provider)(nil)

func NewProvider(registry *Registry, cfg Config) *Provider {
	return &Provider{registry: registry, cfg: cfg}
}

func (p *Provider) Client() (paymentgateway.SessionClient, error) {
	client, err := p.registry.Get(p.cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}
