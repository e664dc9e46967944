package pool

import (
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PoolConfig defines the transport settings shared by upstream clients
type PoolConfig struct {
	ConnectionTimeout   time.Duration `json:"connection_timeout"`
	IdleTimeout         time.Duration `json:"idle_timeout"`
	MaxIdleConns        int           `json:"max_idle_conns"`
	MaxIdleConnsPerHost int           `json:"max_idle_conns_per_host"`
}

// DefaultPoolConfig returns sensible defaults
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		ConnectionTimeout:   5 * time.Second,
		IdleTimeout:         90 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}
}

// ConnectionPool keeps one keep-alive HTTP client per upstream. Request
// deadlines come from the caller context, so clients carry no overall timeout.
type ConnectionPool struct {
	mu      sync.RWMutex
	clients map[string]*http.Client
	config  PoolConfig
	logger  *zap.Logger
}

func NewConnectionPool(config PoolConfig, logger *zap.Logger) *ConnectionPool {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ConnectionPool{
		clients: make(map[string]*http.Client),
		config:  config,
		logger:  logger,
	}
}

// GetHTTPClient returns the client for the named upstream, creating it once
func (p *ConnectionPool) GetHTTPClient(name string) *http.Client {
	p.mu.RLock()
	client, exists := p.clients[name]
	p.mu.RUnlock()

	if exists {
		return client
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists = p.clients[name]; exists {
		return client
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   p.config.ConnectionTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          p.config.MaxIdleConns,
		MaxIdleConnsPerHost:   p.config.MaxIdleConnsPerHost,
		IdleConnTimeout:       p.config.IdleTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	client = &http.Client{Transport: transport}
	p.clients[name] = client

	p.logger.Debug("Created HTTP client for upstream",
		zap.String("upstream", name),
	)

	return client
}

// CloseAllConnections drops idle connections of every client
func (p *ConnectionPool) CloseAllConnections() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, client := range p.clients {
		client.CloseIdleConnections()
		delete(p.clients, name)
	}
}

// Size reports how many upstream clients exist
func (p *ConnectionPool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}
