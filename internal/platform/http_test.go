package platform

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPClient_VerifiesByDefault(t *testing.T) {
	client := NewHTTPClient(HTTPOptions{})

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Expected *http.Transport, got %T", client.Transport)
	}
	if transport.TLSClientConfig.InsecureSkipVerify {
		t.Error("Expected certificate verification to be enabled by default")
	}
	if client.Timeout != 0 {
		t.Errorf("Expected no overall timeout, got %v", client.Timeout)
	}
}

func TestNewHTTPClient_InsecureOptIn(t *testing.T) {
	client := NewHTTPClient(HTTPOptions{InsecureSkipVerify: true, Timeout: 5 * time.Second})

	transport := client.Transport.(*http.Transport)
	if !transport.TLSClientConfig.InsecureSkipVerify {
		t.Error("Expected certificate verification to be disabled")
	}
	if client.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", client.Timeout)
	}

	// Opting in on one client must not leak into the default transport
	if dt, ok := http.DefaultTransport.(*http.Transport); ok && dt.TLSClientConfig != nil && dt.TLSClientConfig.InsecureSkipVerify {
		t.Error("Default transport must not be modified")
	}
}
