package client

import (
	"context"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fuzzwell/fuzzwell/cli/internal/config"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellnessrpc"
)

// mockServer implements WellnessServer for testing.
type mockServer struct {
	wellnessrpc.UnimplementedWellnessServer

	mu    sync.Mutex
	calls int
	keys  []string // x-api-key values seen

	// failN calls fail with failErr before the server starts answering.
	failN   int
	failErr error
}

func (m *mockServer) Evaluate(ctx context.Context, req *types.EvaluateRequest) (*types.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		m.keys = append(m.keys, md.Get("x-api-key")...)
	}
	if m.failN > 0 {
		m.failN--
		return nil, m.failErr
	}
	return &types.Evaluation{ID: "remote-1", Score: 77, Band: "good"}, nil
}

func (m *mockServer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// startTestServer starts an in-process gRPC server and returns a Client
// connected to it that never sleeps between retries.
func startTestServer(t *testing.T, srv *mockServer, cfg config.ClientConfig) *Client {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	gs := grpc.NewServer()
	wellnessrpc.RegisterWellnessServer(gs, srv)
	go gs.Serve(lis) //nolint:errcheck
	t.Cleanup(gs.Stop)

	conn, err := grpc.Dial(lis.Addr().String(), //nolint:staticcheck
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	c := New(conn, cfg)
	c.wait = func(context.Context, time.Duration) error { return nil }
	return c
}

func baseConfig() config.ClientConfig {
	return config.Defaults().Client
}

func TestEvaluate_Success(t *testing.T) {
	srv := &mockServer{}
	c := startTestServer(t, srv, baseConfig())

	ev, err := c.Evaluate(context.Background(), &types.EvaluateRequest{Sleep: types.Float(8)})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.ID != "remote-1" || ev.Band != "good" {
		t.Errorf("evaluation = %+v", ev)
	}
	if n := srv.callCount(); n != 1 {
		t.Errorf("calls: got %d, want 1", n)
	}
}

func TestEvaluate_RetriesTransient(t *testing.T) {
	srv := &mockServer{failN: 2, failErr: status.Error(codes.Unavailable, "warming up")}
	c := startTestServer(t, srv, baseConfig()) // 3 attempts

	if _, err := c.Evaluate(context.Background(), &types.EvaluateRequest{}); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if n := srv.callCount(); n != 3 {
		t.Errorf("calls: got %d, want 3", n)
	}
}

func TestEvaluate_GivesUpAfterAttempts(t *testing.T) {
	srv := &mockServer{failN: 10, failErr: status.Error(codes.Unavailable, "down")}
	c := startTestServer(t, srv, baseConfig())

	_, err := c.Evaluate(context.Background(), &types.EvaluateRequest{})
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("err = %v, want Unavailable", err)
	}
	if n := srv.callCount(); n != config.DefaultRetryAttempts {
		t.Errorf("calls: got %d, want %d", n, config.DefaultRetryAttempts)
	}
}

func TestEvaluate_PermanentNotRetried(t *testing.T) {
	for _, code := range []codes.Code{codes.InvalidArgument, codes.FailedPrecondition, codes.Unauthenticated} {
		t.Run(code.String(), func(t *testing.T) {
			srv := &mockServer{failN: 10, failErr: status.Error(code, "nope")}
			c := startTestServer(t, srv, baseConfig())

			_, err := c.Evaluate(context.Background(), &types.EvaluateRequest{})
			if status.Code(err) != code {
				t.Fatalf("err = %v, want %v", err, code)
			}
			if n := srv.callCount(); n != 1 {
				t.Errorf("calls: got %d, want 1", n)
			}
		})
	}
}

func TestEvaluate_SendsAPIKey(t *testing.T) {
	t.Setenv("FW_TEST_KEY", "s3cret")
	cfg := baseConfig()
	cfg.Auth = config.AuthConfig{Mode: "apikey", KeyEnv: "FW_TEST_KEY"}

	srv := &mockServer{}
	c := startTestServer(t, srv, cfg)
	if _, err := c.Evaluate(context.Background(), &types.EvaluateRequest{}); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.keys) != 1 || srv.keys[0] != "s3cret" {
		t.Errorf("keys seen: %v, want [s3cret]", srv.keys)
	}
}

func TestDialOptions(t *testing.T) {
	for _, mode := range []string{"", "none", "apikey"} {
		cfg := baseConfig()
		cfg.Auth.Mode = mode
		opts, err := dialOptions(cfg)
		if err != nil || len(opts) != 1 {
			t.Errorf("mode %q: opts=%d err=%v", mode, len(opts), err)
		}
	}

	cfg := baseConfig()
	cfg.Auth = config.AuthConfig{
		Mode:     "mtls",
		CertFile: filepath.Join(t.TempDir(), "missing.crt"),
		KeyFile:  filepath.Join(t.TempDir(), "missing.key"),
	}
	if _, err := dialOptions(cfg); err == nil {
		t.Error("mtls with missing cert: expected error")
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	b := newBackoff()
	prev := time.Duration(0)
	for i := 0; i < 20; i++ {
		d := b.next()
		if d < 0 || d > backoffMax+backoffMax/4 {
			t.Fatalf("step %d: %v out of bounds", i, d)
		}
		if i < 3 && d < prev/2 {
			t.Errorf("step %d: %v did not grow from %v", i, d, prev)
		}
		prev = d
	}
	if b.current != backoffMax {
		t.Errorf("current = %v, want capped at %v", b.current, backoffMax)
	}
}

func TestClose_WithoutDial(t *testing.T) {
	c := New(nil, baseConfig())
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
