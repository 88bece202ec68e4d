package omerogw

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type recordedProjection struct {
	Query   string         `json:"query"`
	Params  map[string]any `json:"params"`
	Group   int64          `json:"group"`
	Session string         `json:"-"`
}

// fakeGateway answers projections from a table of query fragments to rows and
// serves objects from a per-class map.
type fakeGateway struct {
	mu          sync.Mutex
	projections []recordedProjection
	rows        map[string][][]any
	objects     map[string][]map[string]any
	fail        bool
}

func newFakeGateway(t *testing.T) (*fakeGateway, *Client) {
	f := &fakeGateway{
		rows:    make(map[string][][]any),
		objects: make(map[string][]map[string]any),
	}

	server := httptest.NewServer(f)
	t.Cleanup(server.Close)

	return f, NewClient(server.URL, "session-key")
}

// on registers rows for any query containing fragment.
func (f *fakeGateway) on(fragment string, rows ...[]any) {
	f.rows[fragment] = rows
}

func (f *fakeGateway) last() recordedProjection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projections[len(f.projections)-1]
}

func (f *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if f.fail {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"SecurityViolation","message":"session expired"}`))
		return
	}

	switch {
	case r.URL.Path == "/api/query/projection":
		var req recordedProjection
		_ = json.NewDecoder(r.Body).Decode(&req)
		req.Session = r.Header.Get(SessionHeader)

		f.mu.Lock()
		f.projections = append(f.projections, req)
		f.mu.Unlock()

		rows := [][]any{}
		for fragment, r := range f.rows {
			if strings.Contains(req.Query, fragment) {
				rows = r
				break
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"rows": rows})

	case strings.HasPrefix(r.URL.Path, "/api/objects/"):
		var req struct {
			IDs []int64 `json:"ids"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		class := strings.TrimPrefix(r.URL.Path, "/api/objects/")
		wanted := make(map[int64]bool)
		for _, id := range req.IDs {
			wanted[id] = true
		}

		objects := []map[string]any{}
		for _, o := range f.objects[class] {
			if id, ok := o["id"].(int); ok && wanted[int64(id)] {
				objects = append(objects, o)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"objects": objects})

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NotFound","message":"no route"}`))
	}
}
