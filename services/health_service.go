package services

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"eschool_go/config"
	"eschool_go/database"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusCritical = "critical"

	probeUp       = "up"
	probeDown     = "down"
	probeDisabled = "disabled"

	defaultServiceName  = "eSchool Finance API"
	defaultVersion      = "1.0.0"
	defaultProbeTimeout = 1500 * time.Millisecond
)

// HealthService aggregates application health information for reporting endpoints.
type HealthService struct {
	serviceName string
	version     string
	startTime   time.Time
	timeout     time.Duration
}

// HealthReport represents the JSON response for health endpoints.
type HealthReport struct {
	Status        string        `json:"status"`
	Service       string        `json:"service"`
	Version       string        `json:"version"`
	Environment   string        `json:"environment"`
	Time          time.Time     `json:"time"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Dependencies  []ProbeResult `json:"dependencies"`
	Metrics       HealthMetrics `json:"metrics"`
	System        HealthSystem  `json:"system"`
}

// ProbeResult captures the health of a single external dependency.
type ProbeResult struct {
	Name      string                 `json:"name"`
	Status    string                 `json:"status"`
	LatencyMs int64                  `json:"latency_ms"`
	Error     string                 `json:"error,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// HealthMetrics captures runtime metrics for diagnostics.
type HealthMetrics struct {
	Goroutines  int            `json:"goroutines"`
	AllocBytes  uint64         `json:"alloc_bytes"`
	SysBytes    uint64         `json:"sys_bytes"`
	HeapObjects uint64         `json:"heap_objects"`
	Database    *DatabaseStats `json:"database,omitempty"`
}

// DatabaseStats captures statistics from the SQL connection pool.
type DatabaseStats struct {
	OpenConnections    int   `json:"open_connections"`
	InUse              int   `json:"in_use"`
	Idle               int   `json:"idle"`
	WaitCount          int64 `json:"wait_count"`
	WaitDurationMs     int64 `json:"wait_duration_ms"`
	MaxOpenConnections int   `json:"max_open_connections"`
}

// HealthSystem exposes static information about the running system.
type HealthSystem struct {
	GoVersion string `json:"go_version"`
	GoOS      string `json:"go_os"`
	GoArch    string `json:"go_arch"`
}

// NewHealthService creates a new HealthService with sensible defaults.
func NewHealthService(serviceName, version string) *HealthService {
	if strings.TrimSpace(serviceName) == "" {
		serviceName = defaultServiceName
	}
	if strings.TrimSpace(version) == "" {
		version = defaultVersion
	}

	return &HealthService{
		serviceName: serviceName,
		version:     version,
		startTime:   time.Now(),
		timeout:     defaultProbeTimeout,
	}
}

// GetHealthReport collects the current health information.
func (s *HealthService) GetHealthReport() HealthReport {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report := HealthReport{
		Status:      statusOK,
		Service:     s.serviceName,
		Version:     s.version,
		Environment: currentEnvironment(),
		Time:        time.Now().UTC(),
	}

	uptime := time.Since(s.startTime)
	if uptime < 0 {
		uptime = 0
	}
	report.UptimeSeconds = uptime.Seconds()

	dbProbe, dbStats := s.probeDatabase(ctx)
	redisProbe := s.probeRedis(ctx)
	report.Dependencies = []ProbeResult{dbProbe, redisProbe}

	report.Status = worstStatus(probeSeverity(dbProbe, statusCritical), probeSeverity(redisProbe, statusDegraded))
	report.Metrics = collectRuntimeMetrics(dbStats)
	report.System = HealthSystem{
		GoVersion: runtime.Version(),
		GoOS:      runtime.GOOS,
		GoArch:    runtime.GOARCH,
	}

	return report
}

// HTTPStatusForOverall maps a health status to an HTTP status code.
func (s *HealthService) HTTPStatusForOverall(status string) int {
	if status == statusCritical {
		return 503
	}
	return 200
}

func (s *HealthService) probeDatabase(ctx context.Context) (ProbeResult, *DatabaseStats) {
	probe := ProbeResult{Name: "mysql"}

	if database.DB == nil {
		probe.Status = probeDown
		probe.Error = "database connection not initialised"
		return probe, nil
	}

	sqlDB, err := database.DB.DB()
	if err != nil {
		probe.Status = probeDown
		probe.Error = fmt.Sprintf("sql DB handle error: %v", err)
		return probe, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	start := time.Now()
	err = sqlDB.PingContext(pingCtx)
	cancel()
	probe.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		probe.Status = probeDown
		probe.Error = err.Error()
		return probe, nil
	}

	probe.Status = probeUp
	stats := sqlDB.Stats()
	dbStats := &DatabaseStats{
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDurationMs:     stats.WaitDuration.Milliseconds(),
		MaxOpenConnections: stats.MaxOpenConnections,
	}

	return probe, dbStats
}

func (s *HealthService) probeRedis(ctx context.Context) ProbeResult {
	probe := ProbeResult{Name: "redis"}

	client := database.GetRedisClient()
	required := config.AppConfig != nil && config.AppConfig.UseRedisNotifications

	if client == nil {
		if required {
			probe.Status = probeDown
			probe.Error = "redis client not initialised"
		} else {
			probe.Status = probeDisabled
		}
		return probe
	}

	pingCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	start := time.Now()
	res := client.Ping(pingCtx)
	cancel()
	probe.LatencyMs = time.Since(start).Milliseconds()

	if err := res.Err(); err != nil {
		probe.Status = probeDown
		probe.Error = err.Error()
		return probe
	}

	probe.Status = probeUp
	mode := "optional"
	if required {
		mode = "notifications"
	}
	probe.Details = map[string]interface{}{
		"address": client.Options().Addr,
		"mode":    mode,
	}

	return probe
}

// probeSeverity maps a failed probe to the overall status it should cause.
func probeSeverity(p ProbeResult, onDown string) string {
	if p.Status == probeDown {
		return onDown
	}
	return statusOK
}

func worstStatus(statuses ...string) string {
	order := map[string]int{
		statusOK:       0,
		statusDegraded: 1,
		statusCritical: 2,
	}

	worst := statusOK
	for _, s := range statuses {
		if order[s] > order[worst] {
			worst = s
		}
	}
	return worst
}

func collectRuntimeMetrics(dbStats *DatabaseStats) HealthMetrics {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return HealthMetrics{
		Goroutines:  runtime.NumGoroutine(),
		AllocBytes:  mem.Alloc,
		SysBytes:    mem.Sys,
		HeapObjects: mem.HeapObjects,
		Database:    dbStats,
	}
}

func currentEnvironment() string {
	if config.AppConfig == nil {
		return "unknown"
	}
	env := strings.TrimSpace(config.AppConfig.AppEnv)
	if env == "" {
		return "unknown"
	}
	return env
}
