package stats

import (
	"fmt"
	"sync"
	"time"

	"github.com/cevaris/ordered_map"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/logger"
)

// Result is the outcome of processing one table.
type Result interface {
	TableName() string
	Failed() bool
	RowCount() int64
	String() string
}

// Summary totals the results of a batch.
type Summary struct {
	Tables    int
	Succeeded int
	Failed    int
	Skipped   int // config entries that were never attempted
	Rows      int64
	Elapsed   time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("tables=%v succeeded=%v failed=%v skipped=%v rows=%v elapsedSec=%v",
		s.Tables, s.Succeeded, s.Failed, s.Skipped, s.Rows, int(s.Elapsed.Seconds()))
}

// BatchStats collects table results in the order they are added.
type BatchStats struct {
	mu         sync.Mutex
	log        logger.Logger
	startTime  time.Time
	skipped    int
	mapResults *ordered_map.OrderedMap // "<seq>:<table>" -> Result; a table may appear twice in one batch.
	seq        int
}

func NewBatchStats(log logger.Logger) *BatchStats {
	return &BatchStats{log: log, startTime: time.Now(), mapResults: ordered_map.NewOrderedMap()}
}

// Add saves r and returns the key it was saved under.
func (b *BatchStats) Add(r Result) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	key := resultKey(b.seq, r.TableName())
	b.mapResults.Set(key, r)
	return key
}

func resultKey(seq int, table string) string {
	return fmt.Sprintf("%d:%s", seq, table)
}

// Keys returns the result keys in the order they were added.
func (b *BatchStats) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	retval := make([]string, 0, b.mapResults.Len())
	iter := b.mapResults.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Key.(string))
	}
	return retval
}

// Lookup returns the Result saved under key.
func (b *BatchStats) Lookup(key string) (Result, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.mapResults.Get(key)
	if !ok {
		return nil, false
	}
	return v.(Result), true
}

// AddSkipped counts a table that was never attempted.
func (b *BatchStats) AddSkipped() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.skipped++
}

// Results returns every saved Result in order.
func (b *BatchStats) Results() []Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	retval := make([]Result, 0, b.mapResults.Len())
	iter := b.mapResults.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Value.(Result))
	}
	return retval
}

// Failures returns the number of failed tables.
func (b *BatchStats) Failures() int {
	return b.Summary().Failed
}

func (b *BatchStats) Summary() Summary {
	s := Summary{Elapsed: time.Since(b.startTime)}
	for _, r := range b.Results() {
		s.Tables++
		s.Rows += r.RowCount()
		if r.Failed() {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	b.mu.Lock()
	s.Skipped = b.skipped
	b.mu.Unlock()
	return s
}

// LogSummary logs one line per table, prefixed by its key, followed by the totals.
func (b *BatchStats) LogSummary() {
	for _, key := range b.Keys() {
		r, ok := b.Lookup(key)
		if !ok {
			continue
		}
		if r.Failed() {
			b.log.Error(constants.EmojiBang, " [", key, "] ", r.String())
		} else {
			b.log.Info("[", key, "] ", r.String())
		}
	}
	s := b.Summary()
	if s.Failed > 0 {
		b.log.Warn("Batch finished with ", s.Failed, " failed table(s): ", s.String())
	} else {
		b.log.Info("Batch finished: ", s.String())
	}
}
