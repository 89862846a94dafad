package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"weatherapp/internal/logger"
	"weatherapp/internal/models"
	"weatherapp/internal/repository"
	"weatherapp/internal/weather"

	"github.com/google/uuid"
)

// WeatherFetcher performs one current-weather lookup.
type WeatherFetcher interface {
	FetchCurrent(ctx context.Context, city string) (models.WeatherData, error)
}

var (
	ErrBlankCity        = errors.New("city name is required")
	ErrControllerClosed = errors.New("weather controller is closed")
)

const (
	defaultFetchTimeout = 10 * time.Second
	fallbackErrorText   = "Failed to load weather data"
)

// WeatherController drives the weather screen: it owns the result store,
// issues the network request and publishes every transition.
type WeatherController struct {
	fetcher    WeatherFetcher
	store      *ResultStore
	lookupRepo repository.LookupRepo // optional
	log        *logger.Logger
	timeout    time.Duration
	now        func() time.Time

	mu       sync.Mutex
	seq      uint64
	cancelIn context.CancelFunc // cancels the in-flight request, if any
	closed   bool

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

// NewWeatherController wires a controller. lookupRepo and log may be nil; a
// non-positive timeout falls back to 10s.
func NewWeatherController(fetcher WeatherFetcher, store *ResultStore, lookupRepo repository.LookupRepo, log *logger.Logger, timeout time.Duration) *WeatherController {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	ctx, stop := context.WithCancel(context.Background())
	return &WeatherController{
		fetcher:    fetcher,
		store:      store,
		lookupRepo: lookupRepo,
		log:        log,
		timeout:    timeout,
		now:        func() time.Time { return time.Now().UTC() },
		baseCtx:    ctx,
		stop:       stop,
	}
}

// Fetch submits a city query. The store switches to loading before Fetch
// returns; the outcome is published asynchronously. A newer submission
// cancels the previous in-flight request and its result is discarded.
// ctx only scopes the synchronous bookkeeping, not the network call.
func (c *WeatherController) Fetch(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return ErrBlankCity
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	c.seq++
	seq := c.seq
	if c.cancelIn != nil {
		c.cancelIn()
	}
	fetchCtx, cancel := context.WithTimeout(c.baseCtx, c.timeout)
	c.cancelIn = cancel
	c.wg.Add(1)

	loading := models.Loading(city)
	loading.Seq = seq
	loading.UpdatedAt = c.now()
	// published under c.mu so loading states appear in submission order
	c.store.Publish(loading)
	c.mu.Unlock()

	c.log.Infow("weather_fetch_started", "city", city, "seq", seq)
	c.record(ctx, loading)

	go c.resolve(fetchCtx, cancel, seq, city)
	return nil
}

// Current returns the latest published result.
func (c *WeatherController) Current() models.Result {
	return c.store.Current()
}

// Wait blocks until every in-flight fetch has resolved.
func (c *WeatherController) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight requests, rejects new submissions and waits for
// outstanding goroutines.
func (c *WeatherController) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.stop()
	c.wg.Wait()
}

func (c *WeatherController) resolve(ctx context.Context, cancel context.CancelFunc, seq uint64, city string) {
	defer c.wg.Done()
	defer cancel()

	data, err := c.fetcher.FetchCurrent(ctx, city)

	var res models.Result
	switch {
	case err != nil && c.abandoned(seq):
		c.log.Debugw("weather_fetch_abandoned", "city", city, "seq", seq, "err", err)
		return
	case err != nil:
		c.log.Warnw("weather_fetch_failed", "city", city, "seq", seq, "err", err)
		res = models.Failure(city, userMessage(err))
	default:
		res = models.Success(city, data)
	}
	res.Seq = seq
	res.UpdatedAt = c.now()

	if !c.store.Publish(res) {
		c.log.Debugw("weather_result_superseded", "city", city, "seq", seq)
		return
	}
	c.log.Infow("weather_fetch_resolved", "city", city, "seq", seq, "kind", res.Kind)
	c.record(context.Background(), res)
}

// abandoned reports whether the submission seq was superseded or the
// controller shut down, in which case its failure must not be shown.
func (c *WeatherController) abandoned(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq != c.seq || c.closed
}

// record appends the transition to the lookup log. Failures are logged only.
func (c *WeatherController) record(ctx context.Context, r models.Result) {
	if c.lookupRepo == nil {
		return
	}
	ev := models.LookupEvent{
		EventID:    uuid.NewString(),
		OccurredAt: r.UpdatedAt,
		City:       r.Query,
		Metadata:   map[string]any{"seq": r.Seq},
	}
	switch r.Kind {
	case models.KindLoading:
		ev.Outcome = models.OutcomeLoading
		ev.Message = "Lookup submitted"
	case models.KindError:
		ev.Outcome = models.OutcomeError
		ev.Message = r.Message
	case models.KindSuccess:
		ev.Outcome = models.OutcomeSuccess
		ev.Message = fmt.Sprintf("%s, %s: %g°C %s",
			r.Data.Location.Name, r.Data.Location.Country, r.Data.Current.TempC, r.Data.Current.Condition.Text)
	default:
		return
	}
	if err := c.lookupRepo.Append(ctx, ev); err != nil {
		c.log.Errorw("lookup_log_append_failed", "err", err, "city", r.Query, "outcome", ev.Outcome)
	}
}

// userMessage collapses any fetch failure into one display string.
func userMessage(err error) string {
	var apiErr *weather.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Weather service timed out"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackErrorText
}
