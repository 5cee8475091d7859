package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/response"
)

const probeTimeout = 2 * time.Second

// Probe checks one dependency and returns nil when it is reachable.
type Probe func(ctx context.Context) error

// QueueLength reports the number of pending queued messages.
type QueueLength interface {
	Len(ctx context.Context) (int64, error)
}

// SystemHandler exposes liveness and runtime status.
type SystemHandler struct {
	probes    map[string]Probe
	queue     QueueLength
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a SystemHandler. queue may be nil when mail is
// delivered synchronously.
func NewSystemHandler(probes map[string]Probe, queue QueueLength, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		probes:    probes,
		queue:     queue,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	report, ok := h.runProbes(c.Request.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	response.Success(c, status, report)
}

func (h *SystemHandler) runProbes(ctx context.Context) (healthReport, bool) {
	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	report := healthReport{Status: "ok", Checks: make(map[string]string, len(names))}
	ok := true
	for _, name := range names {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := h.probes[name](pctx)
		cancel()
		if err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("Health probe failed")
			report.Checks[name] = "down"
			ok = false
			continue
		}
		report.Checks[name] = "up"
	}
	if !ok {
		report.Status = "degraded"
	}
	return report, ok
}

type systemStatus struct {
	Timestamp    int64             `json:"timestamp"`
	Uptime       string            `json:"uptime"`
	GoVersion    string            `json:"go_version"`
	NumCPU       int               `json:"num_cpu"`
	Goroutines   int               `json:"goroutines"`
	HeapAllocMB  float64           `json:"heap_alloc_mb"`
	SysMB        float64           `json:"sys_mb"`
	NumGC        uint32            `json:"num_gc"`
	MailQueued   *int64            `json:"mail_queued"`
	Dependencies map[string]string `json:"dependencies"`
	DependencyOK bool              `json:"dependency_ok"`
}

// Status godoc
// GET /api/v1/system/status
func (h *SystemHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	report, ok := h.runProbes(ctx)
	status := systemStatus{
		Timestamp:    time.Now().Unix(),
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		Goroutines:   runtime.NumGoroutine(),
		HeapAllocMB:  float64(ms.HeapAlloc) / 1024 / 1024,
		SysMB:        float64(ms.Sys) / 1024 / 1024,
		NumGC:        ms.NumGC,
		Dependencies: report.Checks,
		DependencyOK: ok,
	}

	if h.queue != nil {
		n, err := h.queue.Len(ctx)
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to read mail queue length")
		} else {
			status.MailQueued = &n
		}
	}

	response.Success(c, http.StatusOK, status)
}
