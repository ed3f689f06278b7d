package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fuzzwell/fuzzwell/cli/internal/config"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellnessrpc"
)

const (
	backoffInitial    = 200 * time.Millisecond
	backoffMax        = 5 * time.Second
	backoffMultiplier = 2.0
)

// Client calls WellnessService on a fuzzwell-server.
type Client struct {
	cfg  config.ClientConfig
	conn *grpc.ClientConn // nil when built with New
	rpc  wellnessrpc.WellnessClient

	// wait sleeps between attempts; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// Dial opens a connection to cfg.ServerEndpoint with auth configured from
// cfg. The connection is lazy: an unreachable server surfaces as
// codes.Unavailable on the first call.
func Dial(ctx context.Context, cfg config.ClientConfig) (*Client, error) {
	opts, err := dialOptions(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := grpc.DialContext(ctx, cfg.ServerEndpoint, opts...) //nolint:staticcheck // DialContext kept for compat
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", cfg.ServerEndpoint, err)
	}
	c := New(conn, cfg)
	c.conn = conn
	return c, nil
}

// New wraps an existing connection.
func New(cc grpc.ClientConnInterface, cfg config.ClientConfig) *Client {
	return &Client{
		cfg:  cfg,
		rpc:  wellnessrpc.NewWellnessClient(cc),
		wait: sleepCtx,
	}
}

// Close releases the connection opened by Dial.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Evaluate sends req to the server. Transient failures are retried with
// exponential backoff up to RetryAttempts; the whole call is bounded by
// Timeout.
func (c *Client) Evaluate(ctx context.Context, req *types.EvaluateRequest) (*types.Evaluation, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	// Inject API key header if configured.
	if c.cfg.Auth.Mode == "apikey" && c.cfg.Auth.KeyEnv != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, c.cfg.Auth.EffectiveHeader(), c.cfg.Auth.Key())
	}

	attempts := c.cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	bo := newBackoff()

	var err error
	for i := 1; ; i++ {
		var ev *types.Evaluation
		ev, err = c.rpc.Evaluate(ctx, req)
		if err == nil {
			return ev, nil
		}
		if isPermanentError(err) || i >= attempts {
			break
		}
		d := bo.next()
		slog.Debug("client: evaluate failed, will retry",
			"endpoint", c.cfg.ServerEndpoint, "attempt", i, "err", err, "retry_in", d)
		if werr := c.wait(ctx, d); werr != nil {
			break
		}
	}
	return nil, err
}

// isPermanentError returns true for gRPC errors that retrying cannot fix:
// the request itself is bad or the caller is not allowed.
func isPermanentError(err error) bool {
	switch status.Code(err) {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.Unauthenticated,
		codes.PermissionDenied, codes.Unimplemented, codes.Canceled, codes.DeadlineExceeded:
		return true
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// dialOptions builds grpc.DialOption slice based on the auth config. Every
// call uses the JSON codec of wellnessrpc.
func dialOptions(cfg config.ClientConfig) ([]grpc.DialOption, error) {
	switch cfg.Auth.Mode {
	case "mtls":
		creds, err := buildMTLSCreds(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("client: build mtls creds: %w", err)
		}
		return []grpc.DialOption{grpc.WithTransportCredentials(creds)}, nil

	case "apikey":
		// The key is injected per call in Evaluate.
		return []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, nil

	default: // "none" or empty: insecure for local dev
		return []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, nil
	}
}

// buildMTLSCreds loads the client certificate and optional CA.
func buildMTLSCreds(auth config.AuthConfig) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(auth.CertFile, auth.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load client cert: %w", err)
	}

	tlsCfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	if auth.CAFile != "" {
		caPEM, err := os.ReadFile(auth.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("no valid certs in ca file %q", auth.CAFile)
		}
		tlsCfg.RootCAs = pool
	}

	return credentials.NewTLS(tlsCfg), nil
}

// backoff implements truncated exponential backoff with jitter.
type backoff struct {
	current time.Duration
}

func newBackoff() *backoff {
	return &backoff{current: backoffInitial}
}

// next returns the current backoff duration and advances the internal state.
func (b *backoff) next() time.Duration {
	d := b.current
	// ±25 % jitter.
	jitter := time.Duration(float64(b.current) * 0.25 * (rand.Float64()*2 - 1)) //nolint:gosec // not crypto
	d += jitter
	if d < 0 {
		d = 0
	}

	b.current = time.Duration(float64(b.current) * backoffMultiplier)
	if b.current > backoffMax {
		b.current = backoffMax
	}
	return d
}
