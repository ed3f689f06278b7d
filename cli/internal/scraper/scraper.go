package scraper

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/fuzzwell/fuzzwell/cli/internal/config"
)

const defaultScrapeTimeout = 10 * time.Second

// Metric families exported by fuzzwell-server.
const (
	familyEvaluations = "fuzzwell_evaluations_total"
	familyRules       = "fuzzwell_rule_activation_sum"
	familyScore       = "fuzzwell_score"
)

// Bucket is one cumulative histogram bucket.
type Bucket struct {
	UpperBound float64
	Count      uint64
}

// Stats summarises one scrape of the server's /metrics page.
type Stats struct {
	ScrapedAt time.Time

	// Outcomes holds evaluation counts keyed by outcome label.
	Outcomes map[string]float64

	// Rules holds the summed firing strength per rule label.
	Rules map[string]float64

	// Score histogram.
	Count   uint64
	Sum     float64
	Buckets []Bucket
}

// Total returns the number of evaluations of every outcome.
func (s *Stats) Total() float64 {
	var n float64
	for _, v := range s.Outcomes {
		n += v
	}
	return n
}

// Mean returns the average score, or 0 before any scored evaluation.
func (s *Stats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Scraper reads the metrics endpoint of one server.
type Scraper struct {
	url    string
	client *http.Client
}

// New builds a Scraper for cfg.MetricsEndpoint. The HTTP client is built once
// and reused.
func New(cfg config.ClientConfig) (*Scraper, error) {
	if cfg.MetricsEndpoint == "" {
		return nil, fmt.Errorf("scraper: metrics endpoint is empty")
	}
	client, err := buildHTTPClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("scraper: build http client: %w", err)
	}
	return &Scraper{url: cfg.MetricsEndpoint, client: client}, nil
}

// Scrape fetches and summarises the metrics page.
func (s *Scraper) Scrape(ctx context.Context) (*Stats, error) {
	mfs, err := fetchMetrics(ctx, s.client, s.url)
	if err != nil {
		return nil, fmt.Errorf("scraper %s: %w", s.url, err)
	}
	st := Summarize(mfs)
	st.ScrapedAt = time.Now().UTC()
	return st, nil
}

// Summarize extracts fuzzwell statistics from parsed metric families. Absent
// families leave their fields empty.
func Summarize(mfs map[string]*dto.MetricFamily) *Stats {
	st := &Stats{
		Outcomes: labelled(mfs[familyEvaluations], "outcome"),
		Rules:    labelled(mfs[familyRules], "rule"),
	}
	if mf := mfs[familyScore]; mf != nil {
		for _, m := range mf.GetMetric() {
			h := m.GetHistogram()
			if h == nil {
				continue
			}
			st.Count += h.GetSampleCount()
			st.Sum += h.GetSampleSum()
			for _, b := range h.GetBucket() {
				st.Buckets = append(st.Buckets, Bucket{UpperBound: b.GetUpperBound(), Count: b.GetCumulativeCount()})
			}
		}
		sort.Slice(st.Buckets, func(i, j int) bool { return st.Buckets[i].UpperBound < st.Buckets[j].UpperBound })
	}
	return st
}

// labelled sums a family's values per value of label.
func labelled(mf *dto.MetricFamily, label string) map[string]float64 {
	out := make(map[string]float64)
	if mf == nil {
		return out
	}
	for _, m := range mf.GetMetric() {
		key := ""
		for _, lp := range m.GetLabel() {
			if lp.GetName() == label {
				key = lp.GetValue()
			}
		}
		out[key] += value(m)
	}
	return out
}

// value returns a counter, gauge or untyped sample.
func value(m *dto.Metric) float64 {
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	}
	return 0
}

// authRoundTripper injects the API key header into every outgoing request.
type authRoundTripper struct {
	base http.RoundTripper
	auth config.AuthConfig
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.auth.Mode == "apikey" {
		req = req.Clone(req.Context())
		req.Header.Set(t.auth.EffectiveHeader(), t.auth.Key())
	}
	return t.base.RoundTrip(req)
}

// buildHTTPClient constructs an http.Client for the auth settings.
func buildHTTPClient(cfg config.ClientConfig) (*http.Client, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.Auth.Mode == "mtls" {
		cert, err := tls.LoadX509KeyPair(cfg.Auth.CertFile, cfg.Auth.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}

		if cfg.Auth.CAFile != "" {
			caPEM, err := os.ReadFile(cfg.Auth.CAFile)
			if err != nil {
				return nil, fmt.Errorf("read ca file: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caPEM) {
				return nil, fmt.Errorf("no valid certs found in ca file %q", cfg.Auth.CAFile)
			}
			tlsCfg.RootCAs = pool
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultScrapeTimeout
	}
	return &http.Client{
		Transport: &authRoundTripper{
			base: &http.Transport{TLSClientConfig: tlsCfg},
			auth: cfg.Auth,
		},
		Timeout: timeout,
	}, nil
}

// fetchMetrics performs an HTTP GET to url and returns parsed metric families.
func fetchMetrics(ctx context.Context, client *http.Client, url string) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseMetrics(resp.Body)
}

// parseMetrics decodes a Prometheus text exposition from r into metric families.
// A partial result with a non-fatal parse warning is still returned successfully.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}
