package pipeline

import (
	"time"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/hashset"
)

// Distinct keeps the first row for each value of a key column. Seen
// values are tracked in a Robin Hood set for the lifetime of the stage.
type Distinct struct {
	Wrapper

	getter Getter
	admit  func(b data.Batch, i int) bool

	seenNull bool
	matched  []int
	scratch  map[int]*[]int
	cache    pullCache
}

const distinctInitialCapacity = 1024

// instant keys a datetime over its whole range; UnixNano overflows
// outside the years 1678 to 2262.
type instant struct {
	sec  int64
	nsec int32
}

func hashInstant(k instant) uint32 {
	return hashset.Int64(k.sec) ^ hashset.Int64(int64(k.nsec))*31
}

// NewDistinct deduplicates source on column.
func NewDistinct(source Operator, column string) (*Distinct, error) {
	index, err := source.Schema().IndexOf(column)
	if err != nil {
		return nil, err
	}

	d := &Distinct{
		Wrapper: Wrapper{Source: source},
		getter:  source.ColumnGetter(index),
		scratch: make(map[int]*[]int),
	}

	switch source.Schema()[index].Type {
	case data.String8:
		seen := hashset.New(hashset.String, distinctInitialCapacity)
		d.admit = func(b data.Batch, i int) bool { return seen.Add(data.Get[string](b, i)) }
	case data.Int:
		seen := hashset.New(hashset.Int64, distinctInitialCapacity)
		d.admit = func(b data.Batch, i int) bool { return seen.Add(data.Get[int64](b, i)) }
	case data.DateTime:
		seen := hashset.New(hashInstant, distinctInitialCapacity)
		d.admit = func(b data.Batch, i int) bool {
			t := data.Get[time.Time](b, i)
			return seen.Add(instant{sec: t.Unix(), nsec: int32(t.Nanosecond())})
		}
	case data.Bool:
		seen := hashset.New(hashset.Int64, 2)
		d.admit = func(b data.Batch, i int) bool {
			key := int64(0)
			if data.Get[bool](b, i) {
				key = 1
			}
			return seen.Add(key)
		}
	}

	return d, nil
}

// Next pulls upstream until a pull contributes at least one unseen value
// or the upstream is exhausted.
func (d *Distinct) Next(desired int) (int, error) {
	d.cache.advance()
	for {
		count, err := d.Source.Next(desired)
		if err != nil || count == 0 {
			d.matched = d.matched[:0]
			return 0, err
		}

		batch, err := d.getter()
		if err != nil {
			return 0, err
		}

		d.matched = d.matched[:0]
		for i := 0; i < batch.Count; i++ {
			if batch.IsNull(i) {
				if !d.seenNull {
					d.seenNull = true
					d.matched = append(d.matched, i)
				}
				continue
			}
			if d.admit(batch, i) {
				d.matched = append(d.matched, i)
			}
		}
		if len(d.matched) > 0 {
			return len(d.matched), nil
		}
	}
}

// ColumnGetter returns the upstream column seen through the kept rows.
func (d *Distinct) ColumnGetter(index int) Getter {
	upstream := d.Source.ColumnGetter(index)
	scratch, ok := d.scratch[index]
	if !ok {
		scratch = new([]int)
		d.scratch[index] = scratch
	}

	return d.cache.getter(index, func() (data.Batch, error) {
		batch, err := upstream()
		if err != nil {
			return data.Batch{}, err
		}
		return data.Remap(batch, d.matched, scratch), nil
	})
}
