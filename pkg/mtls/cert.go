package mtls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// LoadServerTLSConfig creates the TLS configuration of the report server.
// When clientCAPath is set, clients must present a certificate signed by it.
func LoadServerTLSConfig(certPath, keyPath, clientCAPath string) (*tls.Config, error) {
	serverCert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificate: %w", err)
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{serverCert},
		ClientAuth:   tls.NoClientCert,
		MinVersion:   tls.VersionTLS12,
	}
	if clientCAPath == "" {
		return cfg, nil
	}

	caCert, err := os.ReadFile(clientCAPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to append CA certificate")
	}

	cfg.ClientCAs = caCertPool
	cfg.ClientAuth = tls.RequireAndVerifyClientCert
	return cfg, nil
}
