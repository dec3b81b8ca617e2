package platform

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"TrendCast/internal/domain/models"
	domrepo "TrendCast/internal/domain/repository"
	"TrendCast/pkg/cache"
	applogger "TrendCast/pkg/logger"
)

// BarSource fetches daily bars from the market-data platform API:
// GET /api/instruments/{symbol}/bars/daily?from=YYYY-MM-DD&to=YYYY-MM-DD
type BarSource struct {
	client   *resty.Client
	cache    cache.Service
	cacheTTL time.Duration
	l        *applogger.Logger
}

// Option configures the bar source.
type Option func(*BarSource)

// WithCache caches fetched ranges; closed trading days never change, so a
// generous TTL is safe.
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(s *BarSource) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(s *BarSource) { s.l = l }
}

// NewBarSource builds a client with a bounded timeout so a stalled platform
// surfaces as an error instead of hanging the caller.
func NewBarSource(baseURL string, timeout time.Duration, opts ...Option) *BarSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	s := &BarSource{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// barDTO is the platform wire format. Only day, close and volume are
// required; open/high/low are carried when present.
type barDTO struct {
	Day    string   `json:"day"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  *float64 `json:"close"`
	Volume float64  `json:"volume"`
}

func (s *BarSource) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	cacheKey := fmt.Sprintf("bars:%s:%s:%s",
		symbol, from.Format(models.DayFormat), to.Format(models.DayFormat))

	if s.cache != nil {
		var cached []models.Bar
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	var dtos []barDTO
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"from": from.Format(models.DayFormat),
			"to":   to.Format(models.DayFormat),
		}).
		SetResult(&dtos).
		Get("/api/instruments/{symbol}/bars/daily")
	if err != nil {
		return nil, models.NewDataFetchError(symbol, "platform unreachable", err)
	}
	if resp.IsError() {
		return nil, models.NewDataFetchError(symbol,
			fmt.Sprintf("platform returned status %d", resp.StatusCode()), nil)
	}
	if len(dtos) == 0 {
		return nil, models.NewDataFetchError(symbol, "no bars in range", nil)
	}

	bars := make([]models.Bar, 0, len(dtos))
	for _, d := range dtos {
		if d.Close == nil {
			return nil, models.NewDataFetchError(symbol, "bar missing close", nil)
		}
		day, err := time.Parse(models.DayFormat, d.Day)
		if err != nil {
			return nil, models.NewDataFetchError(symbol, "bar day not parseable: "+d.Day, err)
		}
		bars = append(bars, models.Bar{
			Day:    day,
			Open:   d.Open,
			High:   d.High,
			Low:    d.Low,
			Close:  *d.Close,
			Volume: d.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Day.Before(bars[j].Day) })

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, bars, s.cacheTTL); err != nil && s.l != nil {
			s.l.Warn("bar cache set failed", applogger.Error(err))
		}
	}
	if s.l != nil {
		s.l.Debug("platform fetch_daily ok",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
		)
	}
	return bars, nil
}

var _ domrepo.BarSource = (*BarSource)(nil)
