package api

import (
	"log/slog"
	"net/http"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/fuzzwell/fuzzwell/pkg/chart"
)

const plotPrefix = "/api/v1/plots/"

// plotCache memoises rendered membership charts by variable name. The System
// is immutable, so entries never go stale.
type plotCache struct {
	cache *lru.Cache // nil when caching is off
	size  chart.Size
}

func newPlotCache(entries int, size chart.Size) (*plotCache, error) {
	pc := &plotCache{size: size}
	if entries > 0 {
		c, err := lru.New(entries)
		if err != nil {
			return nil, err
		}
		pc.cache = c
	}
	return pc, nil
}

func (pc *plotCache) get(name string) ([]byte, bool) {
	if pc.cache == nil {
		return nil, false
	}
	v, ok := pc.cache.Get(name)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (pc *plotCache) add(name string, png []byte) {
	if pc.cache != nil {
		pc.cache.Add(name, png)
	}
}

// plot returns GET /api/v1/plots/{variable}.png: the membership chart.
func (h *Handler) plot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file := strings.TrimPrefix(r.URL.Path, plotPrefix)
	name, ok := strings.CutSuffix(file, ".png")
	if !ok || name == "" {
		jsonErr(w, http.StatusNotFound, "plot not found")
		return
	}
	v, ok := h.sys.Variable(name)
	if !ok {
		jsonErr(w, http.StatusNotFound, "unknown variable")
		return
	}

	data, hit := h.plots.get(name)
	if !hit {
		var err error
		data, err = chart.MembershipPNG(v, h.plots.size)
		if err != nil {
			slog.Error("api: render plot failed", "variable", name, "err", err)
			jsonErr(w, http.StatusInternalServerError, "render failed")
			return
		}
		h.plots.add(name, data)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}
