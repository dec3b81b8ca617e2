package platform

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TrendCast/internal/domain/models"
	"TrendCast/pkg/cache"
)

func testRange() (time.Time, time.Time) {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
}

func TestFetchDailySortsBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/instruments/AAPL/bars/daily" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("from") != "2025-01-01" || r.URL.Query().Get("to") != "2025-01-31" {
			t.Errorf("unexpected range %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"day":"2025-01-03","close":102,"volume":1200},
			{"day":"2025-01-02","close":101,"volume":1100},
			{"day":"2025-01-06","close":103,"volume":1300}
		]`))
	}))
	defer srv.Close()

	from, to := testRange()
	src := NewBarSource(srv.URL, time.Second)
	bars, err := src.FetchDaily(context.Background(), "AAPL", from, to)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("bars = %d, want 3", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Day.Before(bars[i].Day) {
			t.Fatalf("bars not ascending at %d", i)
		}
	}
	if bars[0].Close != 101 || bars[2].Volume != 1300 {
		t.Fatalf("unexpected bars %+v", bars)
	}
}

func TestFetchDailyMissingClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"day":"2025-01-02","volume":1100}]`))
	}))
	defer srv.Close()

	from, to := testRange()
	src := NewBarSource(srv.URL, time.Second)
	_, err := src.FetchDaily(context.Background(), "AAPL", from, to)
	if !errors.Is(err, models.ErrDataFetch) {
		t.Fatalf("expected data fetch error, got %v", err)
	}
}

func TestFetchDailyEmptyRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	from, to := testRange()
	src := NewBarSource(srv.URL, time.Second)
	_, err := src.FetchDaily(context.Background(), "AAPL", from, to)
	if !errors.Is(err, models.ErrDataFetch) {
		t.Fatalf("expected data fetch error, got %v", err)
	}
}

func TestFetchDailyUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	from, to := testRange()
	src := NewBarSource(srv.URL, time.Second)
	_, err := src.FetchDaily(context.Background(), "AAPL", from, to)
	if !errors.Is(err, models.ErrDataFetch) {
		t.Fatalf("expected data fetch error, got %v", err)
	}
}

func TestFetchDailyUsesCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"day":"2025-01-02","close":101,"volume":1100}]`))
	}))
	defer srv.Close()

	from, to := testRange()
	src := NewBarSource(srv.URL, time.Second, WithCache(cache.NewMemoryCache(), time.Minute))
	ctx := context.Background()

	first, err := src.FetchDaily(ctx, "AAPL", from, to)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := src.FetchDaily(ctx, "AAPL", from, to)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if hits != 1 {
		t.Fatalf("upstream hit %d times, want 1", hits)
	}
	if len(first) != len(second) || !first[0].Day.Equal(second[0].Day) {
		t.Fatalf("cached bars differ: %+v vs %+v", first, second)
	}
}
