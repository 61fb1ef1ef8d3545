package platform

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// HTTP client defaults
const (
	DefaultDialTimeout    = 30 * time.Second
	DefaultTLSHandshake   = 10 * time.Second
	DefaultResponseHeader = 30 * time.Second
	DefaultIdleConnection = 90 * time.Second
)

// HTTPOptions configures the client handed to the media backends
type HTTPOptions struct {
	// InsecureSkipVerify disables TLS certificate verification for this client only
	InsecureSkipVerify bool

	// Timeout bounds the whole request; zero means no limit, which long
	// stream downloads need
	Timeout time.Duration
}

// NewHTTPClient builds an HTTP client for the media backends
func NewHTTPClient(opts HTTPOptions) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   DefaultDialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       DefaultIdleConnection,
		TLSHandshakeTimeout:   DefaultTLSHandshake,
		ResponseHeaderTimeout: DefaultResponseHeader,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: opts.InsecureSkipVerify,
		},
	}

	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
}
