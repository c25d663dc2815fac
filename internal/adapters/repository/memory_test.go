package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s := NewMemoryStore(context.Background(), WithClock(fixedClock))
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(ctx)
	defer s.Close()

	_, err := s.UpsertProfile(ctx, model.Profile{Email: "a@x.io", Skills: []string{"coding"}})
	require.NoError(t, err)

	p, err := s.GetProfile(ctx, "a@x.io")
	require.NoError(t, err)
	p.Skills[0] = "mutated"

	p, err = s.GetProfile(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "coding", p.Skills[0])

	g, err := s.CreateGroup(ctx, model.Group{Name: "g", CreatorEmail: "a@x.io"})
	require.NoError(t, err)
	g.Members[0] = "mutated"

	g, err = s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", g.Members[0])
}

func TestMemoryStore_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(ctx)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.UpsertProfile(ctx, model.Profile{Email: "same@x.io"})
			_, _ = s.OtherProfiles(ctx, "other@x.io", 10)
		}()
	}
	wg.Wait()

	n, err := s.CountProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_CloseStopsUpdater(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewMemoryStore(context.Background(), WithMetricsUpdateInterval(time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestNew_Drivers(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, "memory", "")
	require.NoError(t, err)
	_, ok := s.(*MemoryStore)
	assert.True(t, ok)
	require.NoError(t, s.Close())

	_, err = New(ctx, "mongo", "mongodb://localhost")
	require.ErrorIs(t, err, ErrUnknownDriver)
}
