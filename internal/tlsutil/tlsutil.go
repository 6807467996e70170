// Package tlsutil provides the TLS configuration used for outbound OTLP
// connections.
// 安全加固：TLS 1.2+，仅 AEAD 密码套件。
package tlsutil

import (
	"crypto/tls"

	"google.golang.org/grpc/credentials"
)

// DefaultTLSConfig returns a hardened TLS configuration.
// MinVersion TLS 1.2, AEAD-only cipher suites.
func DefaultTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
		},
	}
}

// GRPCCredentials wraps DefaultTLSConfig for gRPC exporters. serverName
// overrides the name checked against the collector certificate when set.
func GRPCCredentials(serverName string) credentials.TransportCredentials {
	cfg := DefaultTLSConfig()
	cfg.ServerName = serverName
	return credentials.NewTLS(cfg)
}
