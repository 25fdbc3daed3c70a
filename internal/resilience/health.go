package resilience

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// HealthLevel is the aggregate state reported by /health
type HealthLevel string

const (
	LevelHealthy   HealthLevel = "healthy"
	LevelDegraded  HealthLevel = "degraded"
	LevelUnhealthy HealthLevel = "unhealthy"
)

// HealthCheckFunc represents a function that checks service health
type HealthCheckFunc func(ctx context.Context) error

// ServiceHealth represents the health status of a dependency
type ServiceHealth struct {
	ServiceName         string        `json:"service_name"`
	Healthy             bool          `json:"healthy"`
	Critical            bool          `json:"critical"`
	Latency             time.Duration `json:"latency_ns"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	LastCheck           time.Time     `json:"last_check"`
	LastErrorTime       time.Time     `json:"last_error_time"`
	StatusMessage       string        `json:"status_message"`
}

// HealthReport is the outcome of one round of checks
type HealthReport struct {
	Status   HealthLevel              `json:"status"`
	Services map[string]ServiceHealth `json:"services"`
}

type registeredService struct {
	check    HealthCheckFunc
	critical bool
	health   ServiceHealth
}

// HealthManager runs dependency checks. A failing critical dependency makes
// the process unhealthy; any other failure only degrades it.
type HealthManager struct {
	timeout  time.Duration
	mutex    sync.RWMutex
	services map[string]*registeredService
}

func NewHealthManager(timeout time.Duration) *HealthManager {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HealthManager{
		timeout:  timeout,
		services: make(map[string]*registeredService),
	}
}

// RegisterService registers a dependency with its health check function
func (hm *HealthManager) RegisterService(name string, critical bool, check HealthCheckFunc) {
	hm.mutex.Lock()
	defer hm.mutex.Unlock()

	hm.services[name] = &registeredService{
		check:    check,
		critical: critical,
		health: ServiceHealth{
			ServiceName:   name,
			Healthy:       true,
			Critical:      critical,
			StatusMessage: "not checked yet",
		},
	}
	slog.Info("Registered service for health checks", "service", name, "critical", critical)
}

// CheckAll runs every registered check concurrently and returns the report.
func (hm *HealthManager) CheckAll(ctx context.Context) HealthReport {
	hm.mutex.RLock()
	names := make([]string, 0, len(hm.services))
	for name := range hm.services {
		names = append(names, name)
	}
	hm.mutex.RUnlock()
	sort.Strings(names)

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			hm.checkOne(ctx, name)
		}(name)
	}
	wg.Wait()

	return hm.Report()
}

func (hm *HealthManager) checkOne(ctx context.Context, name string) {
	hm.mutex.RLock()
	svc, ok := hm.services[name]
	hm.mutex.RUnlock()
	if !ok || svc.check == nil {
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, hm.timeout)
	defer cancel()

	start := time.Now()
	err := svc.check(checkCtx)
	latency := time.Since(start)

	hm.mutex.Lock()
	defer hm.mutex.Unlock()

	h := &svc.health
	h.LastCheck = start
	h.Latency = latency
	if err != nil {
		h.Healthy = false
		h.ConsecutiveFailures++
		h.LastErrorTime = start
		h.StatusMessage = err.Error()
		slog.Warn("Health check failed", "service", name, "error", err, "consecutive_failures", h.ConsecutiveFailures)
		return
	}
	h.Healthy = true
	h.ConsecutiveFailures = 0
	h.StatusMessage = "ok"
}

// Report returns the last known state without running any checks.
func (hm *HealthManager) Report() HealthReport {
	hm.mutex.RLock()
	defer hm.mutex.RUnlock()

	report := HealthReport{
		Status:   LevelHealthy,
		Services: make(map[string]ServiceHealth, len(hm.services)),
	}
	for name, svc := range hm.services {
		report.Services[name] = svc.health
		if svc.health.Healthy {
			continue
		}
		if svc.critical {
			report.Status = LevelUnhealthy
		} else if report.Status == LevelHealthy {
			report.Status = LevelDegraded
		}
	}
	return report
}

// IsServiceAvailable reports the last known health of one dependency
func (hm *HealthManager) IsServiceAvailable(name string) bool {
	hm.mutex.RLock()
	defer hm.mutex.RUnlock()
	svc, ok := hm.services[name]
	return ok && svc.health.Healthy
}

// StartHealthChecks re-runs the checks every interval until ctx is done.
func (hm *HealthManager) StartHealthChecks(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hm.CheckAll(ctx)
		}
	}
}
