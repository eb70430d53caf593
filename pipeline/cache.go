package pipeline

import (
	"time"

	"github.com/RoaringBitmap/roaring"

	"github.com/vegasq/colflow/data"
)

// pullCache memoizes computed column batches for the current pull of an
// operator. advance must be called every time the operator is pulled.
type pullCache struct {
	pull    int
	entries map[int]*cacheEntry
}

type cacheEntry struct {
	pull     int
	computed bool
	batch    data.Batch
	err      error
}

func (c *pullCache) advance() {
	c.pull++
}

// getter returns a Getter that runs compute at most once per pull. All
// getters handed out for the same column share one entry.
func (c *pullCache) getter(column int, compute func() (data.Batch, error)) Getter {
	if c.entries == nil {
		c.entries = make(map[int]*cacheEntry)
	}
	entry, ok := c.entries[column]
	if !ok {
		entry = &cacheEntry{}
		c.entries[column] = entry
	}

	return func() (data.Batch, error) {
		if !entry.computed || entry.pull != c.pull {
			entry.batch, entry.err = compute()
			entry.pull = c.pull
			entry.computed = true
		}
		return entry.batch, entry.err
	}
}

// ColumnBuffer is the scratch storage of one computed column, reused across
// pulls. Stages that produce new values fill it instead of allocating.
type ColumnBuffer struct {
	ints    []int64
	bools   []bool
	times   []time.Time
	strings []string
	nulls   *roaring.Bitmap
}

// Array returns a backing array of the given type with count entries.
func (c *ColumnBuffer) Array(t data.ColumnType, count int) any {
	switch t {
	case data.Int:
		data.Allocate(&c.ints, count)
		return c.ints
	case data.Bool:
		data.Allocate(&c.bools, count)
		return c.bools
	case data.DateTime:
		data.Allocate(&c.times, count)
		return c.times
	default:
		data.Allocate(&c.strings, count)
		return c.strings
	}
}

// ResetNulls clears the null bitmap before a new batch is computed.
func (c *ColumnBuffer) ResetNulls() *roaring.Bitmap {
	if c.nulls == nil {
		c.nulls = roaring.New()
	} else {
		c.nulls.Clear()
	}
	return c.nulls
}

// Batch wraps a filled array, attaching the null bitmap only when needed.
func (c *ColumnBuffer) Batch(array any, count int) data.Batch {
	b := data.All(array, count)
	if c.nulls != nil && !c.nulls.IsEmpty() {
		b.Nulls = c.nulls
	}
	return b
}

// setAt stores a boxed value into a typed backing array.
func setAt(array any, i int, v any) {
	switch a := array.(type) {
	case []int64:
		a[i], _ = v.(int64)
	case []bool:
		a[i], _ = v.(bool)
	case []time.Time:
		a[i], _ = v.(time.Time)
	case []string:
		a[i], _ = v.(string)
	}
}
