package cache

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// setupTestStore starts an in-memory Redis and returns a store on top of it.
func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return newStore(client, zerolog.Nop(), &onceFlag{}), mr
}

// deadOptions returns options pointing at a port nothing listens on.
func deadOptions(t *testing.T) Options {
	t.Helper()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	host := mr.Host()
	mr.Close()

	return Options{Host: host, Port: port, DialTimeout: 200 * time.Millisecond}
}

func TestStore_SetAndGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	key := MatchDetailKey("KR_1")

	if !store.Set(ctx, key, `{"matchId":"KR_1"}`, time.Minute) {
		t.Fatal("Set returned false")
	}

	got, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("Get returned miss after Set")
	}
	if got != `{"matchId":"KR_1"}` {
		t.Errorf("Get = %q, want exact value passed to Set", got)
	}
}

func TestStore_Get_Miss(t *testing.T) {
	store, _ := setupTestStore(t)

	if _, ok := store.Get(context.Background(), LeagueKey("nobody")); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	key := RecentMatchIDsKey("puuid-1", 5)

	if !store.Set(ctx, key, `["a","b"]`, RecentMatchIDsTTL) {
		t.Fatal("Set returned false")
	}

	mr.FastForward(RecentMatchIDsTTL - time.Second)
	if _, ok := store.Get(ctx, key); !ok {
		t.Fatal("entry should still be present before TTL")
	}

	mr.FastForward(2 * time.Second)
	if _, ok := store.Get(ctx, key); ok {
		t.Error("entry should be absent after TTL elapsed")
	}
}

func TestStore_Set_NonPositiveTTL(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	key := LeagueKey("p")

	if store.Set(ctx, key, "[]", 0) {
		t.Error("Set with zero TTL should report false")
	}
	if mr.Exists(key.String()) {
		t.Error("zero TTL value must not be stored")
	}
}

func TestStore_JSONRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	key := MatchIDsKey("puuid-1")
	ids := []string{"KR_3", "KR_2", "KR_1"}

	if !SetJSON(ctx, store, key, ids, MatchIDsTTL) {
		t.Fatal("SetJSON returned false")
	}

	got, ok := GetJSON[[]string](ctx, store, key)
	if !ok {
		t.Fatal("GetJSON miss after SetJSON")
	}
	if strings.Join(got, ",") != strings.Join(ids, ",") {
		t.Errorf("GetJSON = %v, want %v", got, ids)
	}
}

func TestStore_GetJSON_CorruptPayload(t *testing.T) {
	store, mr := setupTestStore(t)
	key := MatchDetailKey("KR_9")

	if err := mr.Set(key.String(), "\x00not-json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, ok := GetJSON[map[string]any](context.Background(), store, key); ok {
		t.Error("corrupt payload should read as a miss")
	}
}

func TestStore_Lookup(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	key := MatchIDsKey("puuid-1")

	if _, ok := store.Lookup(ctx, key); ok {
		t.Error("Lookup on empty store should miss")
	}

	store.Set(ctx, key, `["x"]`, MatchIDsTTL)
	entry, ok := store.Lookup(ctx, key)
	if !ok {
		t.Fatal("Lookup miss after Set")
	}
	if entry.Value != `["x"]` {
		t.Errorf("Value = %q", entry.Value)
	}
	if ttl := entry.TTL(); ttl < MatchIDsTTL-time.Minute || ttl > MatchIDsTTL {
		t.Errorf("TTL = %v, want about %v", ttl, MatchIDsTTL)
	}

	// keys without expiry were not written by the store
	mr.Set("match_ids:foreign", `["y"]`)
	if _, ok := store.Lookup(ctx, MatchIDsKey("foreign")); ok {
		t.Error("Lookup should ignore keys without TTL")
	}
}

func TestStore_BackendFailureAfterConstruction(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	mr.Close()

	if store.Set(ctx, LeagueKey("p"), "[]", time.Minute) {
		t.Error("Set should report false when backend is gone")
	}
	if _, ok := store.Get(ctx, LeagueKey("p")); ok {
		t.Error("Get should miss when backend is gone")
	}
}

func TestConnect_Disabled(t *testing.T) {
	ctx := context.Background()
	store := connect(ctx, deadOptions(t), zerolog.Nop(), &onceFlag{})

	if store.Available() {
		t.Fatal("store should be disabled when Redis is unreachable")
	}
	if store.Ping(ctx) {
		t.Error("disabled store should not ping")
	}
	if store.Set(ctx, LeagueKey("p"), "[]", time.Hour) {
		t.Error("disabled Set should return false")
	}
	if _, ok := store.Get(ctx, LeagueKey("p")); ok {
		t.Error("disabled Get should miss")
	}
	if SetJSON(ctx, store, LeagueKey("p"), []int{1}, time.Hour) {
		t.Error("disabled SetJSON should return false")
	}
	if err := store.Close(); err != ErrDisabled {
		t.Errorf("Close() = %v, want ErrDisabled", err)
	}
}

func TestConnect_UnavailableLoggedOnce(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)
	flag := &onceFlag{}
	opts := deadOptions(t)

	for i := 0; i < 3; i++ {
		store := connect(ctx, opts, logger, flag)
		store.Get(ctx, LeagueKey("p"))
		store.Set(ctx, LeagueKey("p"), "[]", time.Hour)
	}
	newStore(nil, logger, flag)

	if n := strings.Count(buf.String(), "running without cache"); n != 1 {
		t.Errorf("unavailable warning logged %d times, want 1", n)
	}
}

func TestConnect_Available(t *testing.T) {
	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())

	store := connect(context.Background(), Options{Host: mr.Host(), Port: port}, zerolog.Nop(), &onceFlag{})
	defer store.Close()

	if !store.Available() {
		t.Fatal("store should be available")
	}
	if !store.Ping(context.Background()) {
		t.Error("Ping should succeed")
	}
}

func TestNewStore_NilClient(t *testing.T) {
	store := newStore(nil, zerolog.Nop(), &onceFlag{})
	if store.Available() {
		t.Error("nil client should yield a disabled store")
	}
}

func TestOnceFlag(t *testing.T) {
	var f onceFlag
	if !f.first() {
		t.Fatal("first call should report true")
	}
	for i := 0; i < 5; i++ {
		if f.first() {
			t.Fatalf("call %d reported true again", i+2)
		}
	}
}

func TestOptions_Addr(t *testing.T) {
	if got := DefaultOptions().Addr(); got != "localhost:6379" {
		t.Errorf("Addr() = %q, want localhost:6379", got)
	}
}
