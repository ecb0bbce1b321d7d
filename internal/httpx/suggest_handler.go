package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/hqtrung/vnshop/internal/catalog"
	"github.com/hqtrung/vnshop/internal/events"
	kafkax "github.com/hqtrung/vnshop/internal/kafka"
	"github.com/hqtrung/vnshop/internal/redisx"
	"github.com/hqtrung/vnshop/internal/suggest"
)

type SuggestHandler struct {
	Suggester *suggest.Service
	Catalog   *catalog.Repo
	Redis     *redis.Client
	Producer  *kafkax.Producer // topic shop.search.performed
	Service   string
}

const recommendLimit = 10

func (h *SuggestHandler) Register(r *chi.Mux) {
	r.Get("/search/suggest", h.suggestions)
	r.Get("/recommendations", h.recommendations)
}

func (h *SuggestHandler) suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	out, err := h.Suggester.Suggest(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if out == nil {
		out = []string{}
	}
	h.trackSearch(r, q)
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "suggestions": out})
}

func (h *SuggestHandler) trackSearch(r *http.Request, query string) {
	if h.Producer == nil || suggest.Normalize(query) == "" {
		return
	}
	userID := CallerOf(r).UserID
	ev := events.Envelope{
		EventID:      uuid.NewString(),
		EventType:    events.EventSearchPerformed,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     h.Service,
		TraceID:      r.Header.Get("X-Request-Id"),
	}
	ev.Payload = kafkax.MustMarshal(events.SearchPerformedPayload{Query: query, UserID: userID})
	key := userID
	if key == "" {
		key = suggest.Normalize(query)
	}
	h.Producer.Publish(events.PartitionKey(key), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventSearchPerformed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// recommendations returns the most-viewed products, hydrated from Postgres.
// An empty counter (fresh install) falls back to newest products.
func (h *SuggestHandler) recommendations(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Redis.ZRevRange(r.Context(), redisx.KeyProductViews, 0, recommendLimit-1).Result()
	if err != nil || len(ids) == 0 {
		out, err := h.Catalog.ListNewestProducts(r.Context(), recommendLimit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if out == nil {
			out = []catalog.Product{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": out, "source": "newest"})
		return
	}

	byID, err := h.Catalog.GetProductsByID(r.Context(), ids)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// keep the view-count order; products deleted since tracking drop out
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": out, "source": "views"})
}
