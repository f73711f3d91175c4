package service

import (
	"fmt"
	"sync"
	"time"
)

// CycleStats tracks counts for one evaluation cycle
type CycleStats struct {
	mu           sync.RWMutex
	StartTime    time.Time
	Duration     time.Duration
	Quotes       int
	Evaluated    int
	NoCandidates int
	Issued       int
	Suppressed   int
	Errors       int
}

// NewCycleStats creates a new stats tracker
func NewCycleStats(quotes int) *CycleStats {
	return &CycleStats{
		StartTime: time.Now(),
		Quotes:    quotes,
	}
}

// RecordEvaluated increments the evaluated quote count
func (m *CycleStats) RecordEvaluated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Evaluated++
}

// RecordNoCandidates increments the count of quotes with nothing to price
func (m *CycleStats) RecordNoCandidates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NoCandidates++
}

// RecordIssued increments issued recommendation count
func (m *CycleStats) RecordIssued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Issued++
}

// RecordSuppressed increments below-threshold recommendation count
func (m *CycleStats) RecordSuppressed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Suppressed++
}

// RecordError increments error count
func (m *CycleStats) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// Finish stamps the cycle duration
func (m *CycleStats) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// String returns a formatted string representation of the stats
func (m *CycleStats) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	issueRate := float64(0)
	if m.Evaluated > 0 {
		issueRate = float64(m.Issued) / float64(m.Evaluated) * 100
	}

	return fmt.Sprintf(
		"CycleStats{Quotes=%d, Evaluated=%d, Issued=%d (%.1f%%), Suppressed=%d, NoCandidates=%d, Errors=%d, Duration=%v}",
		m.Quotes,
		m.Evaluated,
		m.Issued,
		issueRate,
		m.Suppressed,
		m.NoCandidates,
		m.Errors,
		m.Duration,
	)
}
