package rpc

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// buildTLSConfig returns nil when no TLS option is set
func buildTLSConfig(opts Options) (*tls.Config, error) {
	if opts.CACert == "" && !opts.Insecure {
		return nil, nil
	}

	cfg := &tls.Config{
		InsecureSkipVerify: opts.Insecure,
	}

	if opts.CACert != "" {
		caCert, err := os.ReadFile(opts.CACert)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate %s", opts.CACert)
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}
