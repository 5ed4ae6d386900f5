package core

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const healthProbeTimeout = 2 * time.Second

// HealthProbe reports the readiness of one server dependency, such as the
// classifier model or the region table.
type HealthProbe interface {
	Name() string
	Healthy(ctx context.Context) error
}

type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// HandleHealth runs all registered probes concurrently and reports overall
// readiness. With no probes registered the server is considered healthy. Any
// failing probe degrades the response to 503 with per-component detail.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if len(s.HealthProbes) == 0 {
		s.JSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	var mu sync.Mutex
	components := make(map[string]string, len(s.HealthProbes))
	healthy := true

	var wg sync.WaitGroup
	for _, probe := range s.HealthProbes {
		probe := probe
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := probe.Healthy(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				components[probe.Name()] = err.Error()
				healthy = false
			} else {
				components[probe.Name()] = "ok"
			}
		}()
	}
	wg.Wait()

	if !healthy {
		s.JSON(w, r, http.StatusServiceUnavailable, healthResponse{
			Status:     "unavailable",
			Components: components,
		})
		return
	}

	s.JSON(w, r, http.StatusOK, healthResponse{Status: "ok", Components: components})
}
