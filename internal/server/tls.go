package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/caddyserver/certmagic"
)

// CertMagicConfig configures automatic certificate management with CertMagic.
type CertMagicConfig struct {
	Domains    []string
	Email      string
	StorageDir string
	CA         string // optional; defaults to Let's Encrypt prod
}

// BuildCertMagicTLS provisions or loads certificates for the domains and
// returns a TLS config plus the HTTP-01 challenge handler for port 80.
func BuildCertMagicTLS(ctx context.Context, cfg CertMagicConfig) (*tls.Config, http.Handler, error) {
	if len(cfg.Domains) == 0 {
		return nil, nil, errors.New("at least one domain is required")
	}
	if cfg.StorageDir == "" {
		return nil, nil, errors.New("cert storage dir is required")
	}
	if err := os.MkdirAll(cfg.StorageDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("cert storage: %w", err)
	}

	cm := certmagic.NewDefault()
	cm.Storage = &certmagic.FileStorage{Path: cfg.StorageDir}
	issuer := certmagic.NewACMEIssuer(cm, certmagic.ACMEIssuer{
		CA:     ifEmpty(cfg.CA, certmagic.LetsEncryptProductionCA),
		Email:  cfg.Email,
		Agreed: true,
	})
	cm.Issuers = []certmagic.Issuer{issuer}

	if err := cm.ManageSync(ctx, cfg.Domains); err != nil {
		return nil, nil, fmt.Errorf("manage certificates: %w", err)
	}

	tlsConf := cm.TLSConfig()
	tlsConf.NextProtos = append([]string{"h2", "http/1.1"}, tlsConf.NextProtos...)
	tlsConf.MinVersion = tls.VersionTLS12
	return tlsConf, issuer.HTTPChallengeHandler(http.HandlerFunc(redirectHTTPS)), nil
}

func redirectHTTPS(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusMovedPermanently)
}

func ifEmpty(s, d string) string {
	if s == "" {
		return d
	}
	return s
}
