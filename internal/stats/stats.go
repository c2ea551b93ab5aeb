// Package stats keeps site usage counters in Redis.
package stats

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "stats:"

// Counter names tracked on the landing page.
var counterNames = []string{
	"visitors",
	"files_processed",
	"charts_generated",
	"reports_exported",
}

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// Store wraps Redis for usage counters.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Incr bumps a counter. Failures are logged and swallowed: counters are
// never worth failing a request over.
func (s *Store) Incr(name string) {
	if err := s.rdb.Incr(context.Background(), keyPrefix+name).Err(); err != nil {
		log.Printf("stats incr %s: %v", name, err)
	}
}

// IncrAndGet bumps a counter and returns the new value.
func (s *Store) IncrAndGet(ctx context.Context, name string) (int64, error) {
	return s.rdb.Incr(ctx, keyPrefix+name).Result()
}

// All returns every tracked counter, absent keys as zero.
func (s *Store) All(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(counterNames))
	for _, name := range counterNames {
		val, err := s.rdb.Get(ctx, keyPrefix+name).Int64()
		if err == redis.Nil {
			val = 0
		} else if err != nil {
			return nil, err
		}
		out[name] = val
	}
	return out, nil
}

// Handler serves the stats HTTP surface.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Get returns all counters.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.All(r.Context())
	if err != nil {
		http.Error(w, `{"error":"stats unavailable"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counts)
}

// Visit records a landing-page visit and returns the running total.
func (h *Handler) Visit(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.IncrAndGet(r.Context(), "visitors")
	if err != nil {
		http.Error(w, `{"error":"stats unavailable"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"visitors": count})
}
