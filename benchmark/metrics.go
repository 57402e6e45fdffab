// Package benchmark - Functionality for running suppression benchmarks.
package benchmark

import (
	"runtime"
	"time"
)

// PerformanceMetrics captures the performance data of one scenario run.
type PerformanceMetrics struct {
	Scenario         Scenario      `json:"scenario"`
	Timestamp        time.Time     `json:"timestamp"`
	TotalDuration    time.Duration `json:"total_duration"`
	SetupDuration    time.Duration `json:"setup_duration"`
	SuppressDuration time.Duration `json:"suppress_duration"`
	MeanLatency      time.Duration `json:"mean_latency"`
	BoxesPerSecond   float64       `json:"boxes_per_second"`
	RunsPerSecond    float64       `json:"runs_per_second"`
	SurvivorCount    int           `json:"survivor_count"`
	MemoryStats      MemoryMetrics `json:"memory_stats"`
}

// MemoryMetrics captures allocator statistics at the end of a run.
type MemoryMetrics struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	SysBytes        uint64 `json:"sys_bytes"`
	NumGC           uint32 `json:"num_gc"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
	HeapSysBytes    uint64 `json:"heap_sys_bytes"`
}

// captureMemoryMetrics snapshots the runtime allocator counters.
func captureMemoryMetrics() MemoryMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryMetrics{
		AllocBytes:      m.Alloc,
		TotalAllocBytes: m.TotalAlloc,
		SysBytes:        m.Sys,
		NumGC:           m.NumGC,
		HeapAllocBytes:  m.HeapAlloc,
		HeapSysBytes:    m.HeapSys,
	}
}
