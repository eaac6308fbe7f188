package fat

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/rstms/fatvol/ff"
	"github.com/stretchr/testify/require"
)

func TestRegistryDistinctSlots(t *testing.T) {
	lib := newRecorder()
	reg := NewRegistry(4)
	a := MustNew("a", lib, reg)
	b := MustNew("b", lib, reg)
	require.Equal(t, 0, a.ID())
	require.Equal(t, 1, b.ID())
	require.Same(t, a, reg.Lookup(0))
	require.Same(t, b, reg.Lookup(1))
	require.Nil(t, reg.Lookup(2))
	require.Nil(t, reg.Lookup(-1))
	require.Nil(t, reg.Lookup(4))
	require.Equal(t, 4, reg.Capacity())
}

func TestRegistryExhausted(t *testing.T) {
	lib := newRecorder()
	reg := NewRegistry(2)
	MustNew("a", lib, reg)
	MustNew("b", lib, reg)

	fsys, err := New("c", lib, reg)
	require.Nil(t, fsys)
	require.True(t, errors.Is(err, ErrNoFreeVolume))
	require.Panics(t, func() { MustNew("d", lib, reg) })

	// no mount was attempted for the failed constructions
	require.Equal(t, 2, lib.count("mount"))
}

func TestRegistryReuse(t *testing.T) {
	lib := newRecorder()
	reg := NewRegistry(2)
	a := MustNew("a", lib, reg)
	MustNew("b", lib, reg)
	require.Nil(t, a.Close())
	require.Nil(t, reg.Lookup(0))

	c := MustNew("c", lib, reg)
	require.Equal(t, 0, c.ID())
}

func TestRegistryReleaseByIdentity(t *testing.T) {
	lib := newRecorder()
	reg := NewRegistry(4)
	a := MustNew("a", lib, reg)
	b := MustNew("b", lib, reg)
	require.Nil(t, reg.Bind(3, a))
	require.Equal(t, []int{0, 3}, reg.Slots(a))

	require.Nil(t, a.Close())
	require.Equal(t, []string{"unmount 0:/", "unmount 3:/"}, lib.ops("unmount"))
	require.Nil(t, reg.Lookup(0))
	require.Nil(t, reg.Lookup(3))
	require.Same(t, b, reg.Lookup(1))

	// a second close finds nothing to release
	require.Nil(t, a.Close())
	require.Equal(t, 2, lib.count("unmount"))
}

func TestRegistryBind(t *testing.T) {
	lib := newRecorder()
	reg := NewRegistry(2)
	a := MustNew("a", lib, reg)
	b := MustNew("b", lib, reg)

	require.Error(t, reg.Bind(2, a))
	require.Error(t, reg.Bind(-1, a))
	require.Error(t, reg.Bind(1, a))
	require.Error(t, reg.Bind(0, nil))
	require.Nil(t, reg.Bind(1, b))

	_, err := reg.Acquire(nil)
	require.Error(t, err)

	require.Equal(t, []int{1}, reg.Release(b, nil))
	require.Nil(t, reg.Release(b, nil))
}

func TestWithSlot(t *testing.T) {
	lib := newRecorder()
	reg := NewRegistry(4)
	c := MustNew("c", lib, reg, WithSlot(2))
	require.Equal(t, 2, c.ID())
	require.Equal(t, []string{"mount 2:/ 0"}, lib.ops("mount"))

	_, err := New("d", lib, reg, WithSlot(2))
	require.Error(t, err)

	a := MustNew("a", lib, reg)
	require.Equal(t, 0, a.ID())
}

func TestRegistryConcurrentAcquire(t *testing.T) {
	const n = 16
	lib := newRecorder(ff.WithVolumes(n))
	reg := NewRegistry(n)

	var wg sync.WaitGroup
	ids := make([]int, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fsys, err := New(fmt.Sprintf("v%d", i), lib, reg)
			errs[i] = err
			if err == nil {
				ids[i] = fsys.ID()
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.Nil(t, err)
	}
	sort.Ints(ids)
	for i, id := range ids {
		require.Equal(t, i, id)
	}

	_, err := New("extra", lib, reg)
	require.ErrorIs(t, err, ErrNoFreeVolume)
}
