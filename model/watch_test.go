package model

import (
	"context"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("watch channel closed unexpectedly")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for watch value")
	}
	var zero T
	return zero
}

func expectClosed[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatalf("expected watch channel to be closed")
		}
	}
}

func TestWatchData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.model")
	defer teardown()
	//
	m := New(MustTag("doc"))
	p, _ := m.CreateDataEntity(MustTag("p"), m.Root(), "a")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := m.WatchData(ctx, p)
	assert.Equal(t, "a", receive(t, ch), "current value first")
	require.NoError(t, m.SetData(p, "b"))
	assert.Equal(t, "b", receive(t, ch))
	require.NoError(t, m.SetData(p, "c"))
	require.NoError(t, m.SetData(p, "d"))
	assert.Equal(t, "d", receive(t, ch), "stale values are replaced")
	cancel()
	expectClosed(t, ch)
}

func TestWatchChildrenAndAttributes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.model")
	defer teardown()
	//
	m := New(MustTag("doc"))
	sec, _ := m.CreateEntity(MustTag("section"), m.Root())
	ctx := context.Background()
	children := m.WatchChildren(ctx, sec)
	attrs := m.WatchAttributes(ctx, sec)
	assert.Empty(t, receive(t, children))
	assert.Equal(t, 0, receive(t, attrs).Len())
	p, _ := m.CreateEntity(MustTag("p"), sec)
	assert.Equal(t, []Entity{p}, receive(t, children))
	m.SetAttribute(sec, MustKey("id"), MustValue("s1"))
	as := receive(t, attrs)
	v, _ := as.Get(MustKey("id"))
	assert.Equal(t, "s1", v.String())
	// unchanged values are not published
	m.SetAttribute(sec, MustKey("id"), MustValue("s1"))
	select {
	case as = <-attrs:
		t.Errorf("did not expect a notification, got %v", as)
	default:
	}
	// removal of the node ends all watches
	require.NoError(t, m.RemoveEntity(m.Root(), sec))
	expectClosed(t, children)
	expectClosed(t, attrs)
}

func TestWatchOrderUnderLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.model")
	defer teardown()
	//
	m := New(MustTag("doc"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := m.WatchChildren(ctx, m.Root())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			m.CreateEntity(MustTag("p"), m.Root())
		}
	}()
	last := -1
	for last < 100 {
		chs := receive(t, ch)
		if len(chs) < last {
			t.Fatalf("children went backwards: %d after %d", len(chs), last)
		}
		last = len(chs)
	}
	<-done
}
