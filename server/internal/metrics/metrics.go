package metrics

import (
	"fmt"
	"net/http"
	"slices"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

// Metric family names.
const (
	EvaluationsTotal  = "fuzzwell_evaluations_total"
	RuleActivationSum = "fuzzwell_rule_activation_sum"
	ScoreHistogram    = "fuzzwell_score"
)

// Outcome label values for EvaluationsTotal.
const (
	OutcomeOK           = "ok"
	OutcomeFallback     = "fallback"
	OutcomeInvalidInput = "invalid_input"
	OutcomeNoRuleFired  = "no_rule_fired"
)

// ScoreBuckets are the histogram upper bounds.
var ScoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// Registry accumulates evaluation statistics.
type Registry struct {
	mu       sync.Mutex
	outcomes map[string]uint64
	rules    map[string]float64
	buckets  []uint64 // non-cumulative counts per ScoreBuckets entry
	count    uint64
	sum      float64
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		outcomes: make(map[string]uint64),
		rules:    make(map[string]float64),
		buckets:  make([]uint64, len(ScoreBuckets)),
	}
}

// Observe records a successful assessment.
func (r *Registry) Observe(a *wellness.Assessment) {
	outcome := OutcomeOK
	if a.Fallback {
		outcome = OutcomeFallback
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes[outcome]++
	for _, act := range a.Activations {
		label := act.Label
		if label == "" {
			label = act.Rule
		}
		r.rules[label] += act.Strength
	}
	r.count++
	r.sum += a.Score
	for i, ub := range ScoreBuckets {
		if a.Score <= ub {
			r.buckets[i]++
			break
		}
	}
}

// ObserveFailure counts an evaluation that produced no score.
func (r *Registry) ObserveFailure(outcome string) {
	r.mu.Lock()
	r.outcomes[outcome]++
	r.mu.Unlock()
}

// Gather snapshots the registry as metric families sorted by name.
func (r *Registry) Gather() []*dto.MetricFamily {
	r.mu.Lock()
	defer r.mu.Unlock()

	evals := &dto.MetricFamily{
		Name: proto.String(EvaluationsTotal),
		Help: proto.String("Evaluations by outcome."),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, o := range sortedKeys(r.outcomes) {
		evals.Metric = append(evals.Metric, &dto.Metric{
			Label:   []*dto.LabelPair{{Name: proto.String("outcome"), Value: proto.String(o)}},
			Counter: &dto.Counter{Value: proto.Float64(float64(r.outcomes[o]))},
		})
	}

	rules := &dto.MetricFamily{
		Name: proto.String(RuleActivationSum),
		Help: proto.String("Sum of rule firing strengths over all scored evaluations."),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, l := range sortedKeys(r.rules) {
		rules.Metric = append(rules.Metric, &dto.Metric{
			Label:   []*dto.LabelPair{{Name: proto.String("rule"), Value: proto.String(l)}},
			Counter: &dto.Counter{Value: proto.Float64(r.rules[l])},
		})
	}

	h := &dto.Histogram{
		SampleCount: proto.Uint64(r.count),
		SampleSum:   proto.Float64(r.sum),
	}
	var cum uint64
	for i, ub := range ScoreBuckets {
		cum += r.buckets[i]
		h.Bucket = append(h.Bucket, &dto.Bucket{
			UpperBound:      proto.Float64(ub),
			CumulativeCount: proto.Uint64(cum),
		})
	}
	score := &dto.MetricFamily{
		Name:   proto.String(ScoreHistogram),
		Help:   proto.String("Crisp wellness scores."),
		Type:   dto.MetricType_HISTOGRAM.Enum(),
		Metric: []*dto.Metric{{Histogram: h}},
	}

	return []*dto.MetricFamily{evals, rules, score}
}

// ServeHTTP writes the text exposition of Gather.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range r.Gather() {
		if err := enc.Encode(mf); err != nil {
			http.Error(w, fmt.Sprintf("encode %s: %v", mf.GetName(), err), http.StatusInternalServerError)
			return
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
