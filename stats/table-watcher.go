package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relloyd/lakepipe/logger"
)

// DefaultStatsDumpFrequencySeconds is how often a running TableWatcher logs progress.
var DefaultStatsDumpFrequencySeconds = 30

// TableWatcher periodically logs the progress of a single table extraction.
type TableWatcher struct {
	log             logger.Logger
	tableName       string
	rowCount        func() int64 // reads the row count held by the writer
	frequency       time.Duration
	startTime       time.Time
	rowsPerSecDelta int64
	rowsPerSecAvg   int64
	totalRows       int64
	priorRowCount   int64     // allows us to calculate delta rows per sec between ticks.
	priorTime       time.Time // allows us to calculate delta rows per sec between ticks.
	ticker          *time.Ticker
	tickerDone      chan struct{}
	isRunning       atomic.Bool
	mu              sync.Mutex
}

type Stats struct {
	TableName          string `json:"tableName"`
	StatusText         string `json:"statusText"`
	StatusEmoji        string `json:"statusEmoji"`
	ElapsedTimeSec     int    `json:"elapsedTimeSec"`
	TotalRowsProcessed int    `json:"totalRowsProcessed"`
	RowsPerSecondAvg   int    `json:"rowsPerSecondAvg"`
	RowsPerSecondDelta int    `json:"rowsPerSecondDelta"`
}

// NewTableWatcher returns a watcher that logs every frequencySeconds; use 0 for the default
// or a negative value to only calculate stats when asked.
func NewTableWatcher(log logger.Logger, tableName string, frequencySeconds int) *TableWatcher {
	if frequencySeconds == 0 {
		frequencySeconds = DefaultStatsDumpFrequencySeconds
	}
	return &TableWatcher{
		log:        log,
		tableName:  tableName,
		frequency:  time.Duration(frequencySeconds) * time.Second,
		tickerDone: make(chan struct{}),
	}
}

// StartWatching begins sampling rowCount. It must be paired with StopWatching.
func (n *TableWatcher) StartWatching(rowCount func() int64) {
	n.mu.Lock()
	n.rowCount = rowCount
	n.startTime = time.Now()
	n.priorTime = n.startTime
	n.priorRowCount = 0
	atomic.StoreInt64(&n.totalRows, 0)
	n.mu.Unlock()
	n.isRunning.Store(true)
	if n.frequency <= 0 {
		return
	}
	n.ticker = time.NewTicker(n.frequency)
	go func() {
		for {
			select {
			case <-n.ticker.C:
				n.CalculateStats()
				n.log.Info(n.RenderStats().String())
			case <-n.tickerDone:
				return
			}
		}
	}()
}

// StopWatching stops the ticker and calculates the final stats.
func (n *TableWatcher) StopWatching() {
	if !n.isRunning.Load() {
		return
	}
	if n.ticker != nil {
		n.ticker.Stop()
		n.tickerDone <- struct{}{} // stop the goroutine that calculates stats.
	}
	n.CalculateStats() // force final stats calculation.
	n.isRunning.Store(false)
}

func (n *TableWatcher) CalculateStats() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.rowCount == nil {
		return
	}
	deltaTime := int64(time.Since(n.priorTime).Seconds())
	if deltaTime < 1 { // if we will cause divide by 0 error...
		deltaTime = 1
	}
	rowCount := n.rowCount()
	deltaRowCount := rowCount - n.priorRowCount
	atomic.StoreInt64(&n.rowsPerSecDelta, deltaRowCount/deltaTime)
	n.log.Debug("STATS: ", n.tableName, " processing ", deltaRowCount/deltaTime, " rows per sec")
	n.priorRowCount = rowCount
	n.priorTime = time.Now()
	atomic.StoreInt64(&n.totalRows, rowCount)
	atomic.StoreInt64(&n.rowsPerSecAvg, rowCount/getNumSecondsSinceTimeOrOne(n.startTime))
}

// RenderStats gets a struct filled with stats at the point of time it is called.
func (n *TableWatcher) RenderStats() Stats {
	var statusText, statusEmoji string
	if n.isRunning.Load() {
		statusText = "running"
		statusEmoji = "\U0000231B" // hour glass
	} else {
		statusText = "complete"
		statusEmoji = "\U00002705" // green tick
	}
	n.mu.Lock()
	elapsed := int(time.Since(n.startTime).Seconds())
	n.mu.Unlock()
	return Stats{
		TableName:          n.tableName,
		StatusText:         statusText,
		StatusEmoji:        statusEmoji,
		ElapsedTimeSec:     elapsed,
		TotalRowsProcessed: int(atomic.LoadInt64(&n.totalRows)),
		RowsPerSecondAvg:   int(atomic.LoadInt64(&n.rowsPerSecAvg)),
		RowsPerSecondDelta: int(atomic.LoadInt64(&n.rowsPerSecDelta)),
	}
}

// String will format the stats for general logging.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Stats for %v %v %v "+
			"elapsedTimeSec=%v "+
			"totalRowsProcessed=%v "+
			"rowsPerSecondAvg=%v "+
			"rowsPerSecondDelta=%v",
		s.TableName, s.StatusText, s.StatusEmoji,
		s.ElapsedTimeSec,
		s.TotalRowsProcessed,
		s.RowsPerSecondAvg,
		s.RowsPerSecondDelta,
	)
}

func getNumSecondsSinceTimeOrOne(t time.Time) (seconds int64) {
	seconds = int64(time.Since(t).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return
}
