package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"time"
)

// shutdownTimeout bounds graceful shutdown once ctx is cancelled.
const shutdownTimeout = 5 * time.Second

// ServeOptions selects plain HTTP or automatic HTTPS.
type ServeOptions struct {
	Addr        string
	ACMEDomains []string
	ACMEEmail   string
	DataDir     string
}

// ListenAndServe serves the API until ctx is cancelled. When ACME domains are
// configured the listener speaks TLS with certificates from CertMagic and an
// HTTP-01 challenge responder runs on :80.
func (s *Server) ListenAndServe(ctx context.Context, opts ServeOptions) error {
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var challenge *http.Server
	if len(opts.ACMEDomains) > 0 {
		tlsConf, h, err := BuildCertMagicTLS(ctx, CertMagicConfig{
			Domains:    opts.ACMEDomains,
			Email:      opts.ACMEEmail,
			StorageDir: filepath.Join(opts.DataDir, "certmagic"),
		})
		if err != nil {
			return err
		}
		srv.TLSConfig = tlsConf
		challenge = &http.Server{Addr: ":80", Handler: h, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := challenge.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Printf("http: challenge listener: %v", err)
			}
		}()
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return err
	}
	s.log.Printf("http: listening addr=%s tls=%t", ln.Addr(), srv.TLSConfig != nil)

	errCh := make(chan error, 1)
	go func() {
		if srv.TLSConfig != nil {
			errCh <- srv.ServeTLS(ln, "", "")
			return
		}
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if challenge != nil {
		_ = challenge.Shutdown(shutCtx)
	}
	s.log.Printf("http: shutting down")
	return srv.Shutdown(shutCtx)
}
