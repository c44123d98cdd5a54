package infrastructure

import (
	"runtime"
	"time"
)

// RuntimeStats is a point-in-time snapshot reported by the health endpoint
type RuntimeStats struct {
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	SysMB         float64 `json:"sys_mb"`
	NumGC         uint32  `json:"num_gc"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// CollectRuntimeStats reads the Go runtime counters
func CollectRuntimeStats(startTime time.Time) RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	const mb = 1024 * 1024
	return RuntimeStats{
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(m.HeapAlloc) / mb,
		SysMB:         float64(m.Sys) / mb,
		NumGC:         m.NumGC,
		UptimeSeconds: time.Since(startTime).Seconds(),
	}
}
