package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"beerchek/webapp-svc/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisSessionStore(rdb, time.Hour), mr
}

func TestRedisSessionStore_LoadMissing(t *testing.T) {
	store, _ := setupRedisStore(t)

	state, err := store.Load(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, domain.UiState{}, state)
}

func TestRedisSessionStore_SaveAndLoad(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	state := domain.UiState{
		Query:   "guin",
		Result:  &domain.BeerRecord{Name: "Guinness", ABV: domain.Number(4.2)},
		Average: domain.NewAverage(7.5),
		User:    &domain.HostUser{ID: 42, FirstName: "Ivan"},
	}
	require.NoError(t, store.Save(ctx, "s1", state))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	assert.True(t, mr.Exists("webapp:session:s1"))
	assert.Equal(t, time.Hour, mr.TTL("webapp:session:s1"))
}

func TestRedisSessionStore_Expired(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.UiState{Query: "guin"}))
	mr.FastForward(2 * time.Hour)

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "", state.Query)
}

func TestRedisSessionStore_Corrupt(t *testing.T) {
	store, mr := setupRedisStore(t)
	mr.Set("webapp:session:bad", "{not json")

	_, err := store.Load(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRedisSessionStore_Update(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	next, err := store.Update(ctx, "s1", func(s domain.UiState) (domain.UiState, error) {
		s.FetchSeq++
		return s, nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next.FetchSeq)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), loaded.FetchSeq)
}

func TestRedisSessionStore_UpdateError(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", domain.UiState{Query: "keep"}))

	boom := errors.New("rejected")
	_, err := store.Update(ctx, "s1", func(s domain.UiState) (domain.UiState, error) {
		return domain.UiState{Query: "changed"}, boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, _ := store.Load(ctx, "s1")
	assert.Equal(t, "keep", loaded.Query)
}

func TestRedisSessionStore_ConcurrentUpdates(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(ctx, "s1", func(s domain.UiState) (domain.UiState, error) {
				s.FetchSeq++
				return s, nil
			})
		}()
	}
	wg.Wait()

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, loaded.FetchSeq, uint64(1))
	assert.LessOrEqual(t, loaded.FetchSeq, uint64(4))
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	store.now = func() time.Time { return now }

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.UiState{}, state)

	require.NoError(t, store.Save(ctx, "s1", domain.UiState{Query: "guin"}))
	next, err := store.Update(ctx, "s1", func(s domain.UiState) (domain.UiState, error) {
		s.Message = "Beer not found"
		return s, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "guin", next.Query)
	assert.Equal(t, "Beer not found", next.Message)

	now = now.Add(2 * time.Minute)
	state, _ = store.Load(ctx, "s1")
	assert.Equal(t, domain.UiState{}, state)
}

func TestMemorySessionStore_SweepsAbandonedSessions(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	store.now = func() time.Time { return now }

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, id, domain.UiState{Query: id}))
	}
	assert.Equal(t, 3, store.Len())

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Save(ctx, "fresh", domain.UiState{Query: "guin"}))
	assert.Equal(t, 1, store.Len())

	state, err := store.Load(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "guin", state.Query)
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewKafkaPublisher(writer)

	envelope := domain.BridgeEnvelope{UserID: 42, Data: `{"action":"rate","beer":"Guinness","rating":9}`}
	require.NoError(t, publisher.Publish(context.Background(), envelope))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "42", string(writer.messages[0].Key))

	var decoded domain.BridgeEnvelope
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, envelope.Data, decoded.Data)
}

func TestKafkaPublisher_WriterError(t *testing.T) {
	publisher := NewKafkaPublisher(&fakeWriter{err: errors.New("leader not available")})
	err := publisher.Publish(context.Background(), domain.BridgeEnvelope{UserID: 1})
	assert.Error(t, err)
}
