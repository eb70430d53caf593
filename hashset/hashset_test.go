package hashset

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMatchesReferenceMembership(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	set := New(Int64, 8)
	reference := make(map[int64]bool)
	startCapacity := set.Capacity()

	for step := 0; step < 50000; step++ {
		v := rng.Int64N(4000)
		switch rng.IntN(3) {
		case 0, 1:
			added := set.Add(v)
			assert.Equal(t, !reference[v], added, "Add(%d) at step %d", v, step)
			reference[v] = true
		default:
			removed := set.Remove(v)
			assert.Equal(t, reference[v], removed, "Remove(%d) at step %d", v, step)
			delete(reference, v)
		}

		if step%997 == 0 {
			for probe := int64(0); probe < 4000; probe++ {
				if set.Contains(probe) != reference[probe] {
					t.Fatalf("step %d: Contains(%d) = %v, want %v", step, probe, set.Contains(probe), reference[probe])
				}
			}
		}
	}

	assert.Greater(t, set.Capacity(), startCapacity, "expected at least one resize")
	assert.Equal(t, len(reference), set.Len())
	for probe := int64(0); probe < 4000; probe++ {
		assert.Equal(t, reference[probe], set.Contains(probe), "Contains(%d)", probe)
	}
}

func TestSetDuplicates(t *testing.T) {
	const distinct = 1000
	const duplicates = 250

	set := New(String, 0)
	for i := 0; i < distinct; i++ {
		require.True(t, set.Add(fmt.Sprintf("value-%d", i)))
	}
	for i := 0; i < duplicates; i++ {
		assert.False(t, set.Add(fmt.Sprintf("value-%d", i*3)), "duplicate insert must report already present")
	}

	assert.Equal(t, distinct, set.Len())

	var seen []string
	for v := range set.All() {
		seen = append(seen, v)
	}
	assert.Len(t, seen, distinct)

	slices.Sort(seen)
	assert.Equal(t, len(seen), len(slices.Compact(seen)), "enumeration must not repeat values")
}

func TestSetRemoveOnProbePath(t *testing.T) {
	// Every value hashes to the same bucket, so each one is displaced past
	// the ones inserted before it.
	collide := func(int) uint32 { return 0 }
	set := New(collide, 64)

	for i := 1; i <= 10; i++ {
		require.True(t, set.Add(i))
	}

	require.True(t, set.Remove(1))
	require.True(t, set.Remove(4))

	for i := 2; i <= 10; i++ {
		if i == 4 {
			assert.False(t, set.Contains(i))
			continue
		}
		assert.True(t, set.Contains(i), "value %d lost after removing values on its probe path", i)
	}

	// Re-adding a value must not create a second copy in the freed hole.
	assert.False(t, set.Add(7))
	assert.True(t, set.Add(4))
	assert.Equal(t, 9, set.Len())
	assert.True(t, set.Remove(7))
	assert.False(t, set.Contains(7))
}

func TestSetZeroValue(t *testing.T) {
	set := New(Int64, 4)
	assert.False(t, set.Contains(0), "empty slots must not match the zero value")
	assert.False(t, set.Remove(0))

	assert.True(t, set.Add(0))
	assert.True(t, set.Contains(0))
	assert.True(t, set.Remove(0))
	assert.False(t, set.Contains(0))
}

func TestSetDistanceDiagnostics(t *testing.T) {
	set := New(Int64, 16)
	for i := int64(0); i < 5000; i++ {
		set.Add(i * 7919)
	}

	histogram := set.DistanceDistribution()
	total := 0
	weighted := 0
	for distance, n := range histogram {
		total += n
		weighted += distance * n
	}

	assert.Equal(t, set.Len(), total)
	assert.InDelta(t, float64(weighted)/float64(total), set.DistanceMean(), 1e-9)
}

func TestSetEnumerationIsRestartable(t *testing.T) {
	set := New(String, 4)
	for _, v := range []string{"a", "b", "c", "d", "e"} {
		set.Add(v)
	}

	collect := func() []string {
		var out []string
		for v := range set.All() {
			out = append(out, v)
		}
		return out
	}

	first := collect()
	second := collect()
	assert.Equal(t, first, second)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, first)

	// Early exit from a range must not disturb the next one.
	for range set.All() {
		break
	}
	assert.Equal(t, first, collect())
}

func TestSetClear(t *testing.T) {
	set := New(Int64, 4)
	for i := int64(0); i < 100; i++ {
		set.Add(i)
	}
	capacity := set.Capacity()

	set.Clear()
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, capacity, set.Capacity())
	assert.False(t, set.Contains(5))
	assert.True(t, set.Add(5))
}

func TestGrowthFactor(t *testing.T) {
	set := New(Int64, 0)
	sizes := []int{set.Capacity()}
	for i := int64(0); i < 200; i++ {
		set.Add(i)
		if c := set.Capacity(); c != sizes[len(sizes)-1] {
			sizes = append(sizes, c)
		}
	}

	for i := 1; i < len(sizes); i++ {
		prev := sizes[i-1]
		want := prev + prev>>1
		if want == prev {
			want++
		}
		assert.Equal(t, want, sizes[i], "growth from %d", prev)
	}
}
