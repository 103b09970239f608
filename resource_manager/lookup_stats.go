package resource_manager

import (
	"sync"
	"time"
)

// LookupStats tracks resolution performance metrics
type LookupStats struct {
	TotalRequests int64
	Hits          int64
	Misses        int64
	LastResetTime time.Time
	mutex         sync.RWMutex
}

// recordLookupHit increments the hit counter
func (m *Manager) recordLookupHit() {
	if m.stats == nil {
		return
	}
	m.stats.mutex.Lock()
	defer m.stats.mutex.Unlock()
	m.stats.TotalRequests++
	m.stats.Hits++
}

// recordLookupMiss increments the miss counter
func (m *Manager) recordLookupMiss() {
	if m.stats == nil {
		return
	}
	m.stats.mutex.Lock()
	defer m.stats.mutex.Unlock()
	m.stats.TotalRequests++
	m.stats.Misses++
}

// GetPerformanceStats returns lookup statistics together with index and stream counts
func (m *Manager) GetPerformanceStats() map[string]interface{} {
	stats := map[string]interface{}{
		"indexed_records": m.store.len(),
		"indexed_keys":    len(m.store.records),
		"open_streams":    len(m.streams.open),
	}

	if m.stats == nil {
		stats["total_requests"] = int64(0)
		stats["hits"] = int64(0)
		stats["misses"] = int64(0)
		stats["hit_rate_percent"] = 0.0
		stats["uptime_human"] = "0s"
		return stats
	}

	m.stats.mutex.RLock()
	defer m.stats.mutex.RUnlock()

	hitRate := 0.0
	if m.stats.TotalRequests > 0 {
		hitRate = float64(m.stats.Hits) / float64(m.stats.TotalRequests) * 100
	}

	uptime := time.Since(m.stats.LastResetTime)

	stats["total_requests"] = m.stats.TotalRequests
	stats["hits"] = m.stats.Hits
	stats["misses"] = m.stats.Misses
	stats["hit_rate_percent"] = hitRate
	stats["uptime_human"] = uptime.Round(time.Second).String()
	stats["last_reset"] = m.stats.LastResetTime.Format(time.RFC3339)

	return stats
}

// ResetPerformanceStats resets all lookup counters
func (m *Manager) ResetPerformanceStats() {
	if m.stats == nil {
		return
	}
	m.stats.mutex.Lock()
	defer m.stats.mutex.Unlock()

	m.stats.TotalRequests = 0
	m.stats.Hits = 0
	m.stats.Misses = 0
	m.stats.LastResetTime = time.Now()
}
