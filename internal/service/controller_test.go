package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"weatherapp/internal/models"
	"weatherapp/internal/repository"
	"weatherapp/internal/weather"
)

// stubFetcher answers lookups from a table; cities listed in block wait for
// their release channel (or ctx cancellation) before answering.
type stubFetcher struct {
	mu      sync.Mutex
	data    map[string]models.WeatherData
	errs    map[string]error
	block   map[string]chan struct{}
	calls   []string
	started chan string
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		data:    map[string]models.WeatherData{},
		errs:    map[string]error{},
		block:   map[string]chan struct{}{},
		started: make(chan string, 16),
	}
}

func (f *stubFetcher) FetchCurrent(ctx context.Context, city string) (models.WeatherData, error) {
	f.mu.Lock()
	f.calls = append(f.calls, city)
	release := f.block[city]
	d, hasData := f.data[city]
	err := f.errs[city]
	f.mu.Unlock()

	f.started <- city
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return models.WeatherData{}, ctx.Err()
		}
	}
	if err != nil {
		return models.WeatherData{}, err
	}
	if !hasData {
		return models.WeatherData{}, &weather.APIError{StatusCode: 400, Code: 1006, Message: "No matching location found."}
	}
	return d, nil
}

// memLookupRepo records appended lookup events.
type memLookupRepo struct {
	mu        sync.Mutex
	events    []models.LookupEvent
	appendErr error
}

func (r *memLookupRepo) Append(ctx context.Context, e models.LookupEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.appendErr
}

func (r *memLookupRepo) List(ctx context.Context, from, to time.Time, outcome string) ([]models.LookupEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.LookupEvent, len(r.events))
	copy(out, r.events)
	return out, nil
}

func (r *memLookupRepo) outcomes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Outcome)
	}
	return out
}

func london() models.WeatherData {
	return models.WeatherData{
		Location: models.Location{Name: "London", Country: "United Kingdom", Localtime: "2024-01-01 13:45"},
		Current: models.Current{
			TempC: 8.2, Humidity: 81, WindKph: 15.1, UV: 2, PrecipMM: 0.3,
			Condition: models.Condition{Text: "Partly cloudy", Icon: "//cdn.weatherapi.com/weather/64x64/day/116.png"},
		},
	}
}

func newTestController(f WeatherFetcher, repo *memLookupRepo) (*WeatherController, *ResultStore) {
	store := NewResultStore()
	var lr repository.LookupRepo
	if repo != nil {
		lr = repo
	}
	return NewWeatherController(f, store, lr, nil, time.Second), store
}

func TestWeatherController_Fetch_KnownCityYieldsSuccess(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	f.data["London"] = london()
	repo := &memLookupRepo{}
	c, _ := newTestController(f, repo)
	defer c.Close()

	if err := c.Fetch(context.Background(), "  London "); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	c.Wait()

	got := c.Current()
	if got.Kind != models.KindSuccess {
		t.Fatalf("want success, got %+v", got)
	}
	if got.Data == nil || got.Data.Location.Name != "London" {
		t.Fatalf("location name should match query, got %+v", got.Data)
	}
	if got.Query != "London" || got.Seq != 1 || got.UpdatedAt.IsZero() {
		t.Fatalf("unexpected metadata: %+v", got)
	}
	if outs := repo.outcomes(); len(outs) != 2 || outs[0] != models.OutcomeLoading || outs[1] != models.OutcomeSuccess {
		t.Fatalf("unexpected lookup log: %v", outs)
	}
}

func TestWeatherController_Fetch_UnknownCityYieldsError(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	c, _ := newTestController(f, nil)
	defer c.Close()

	if err := c.Fetch(context.Background(), "Atlantis"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	c.Wait()

	got := c.Current()
	if got.Kind != models.KindError {
		t.Fatalf("want error, got %+v", got)
	}
	if got.Message != "No matching location found." {
		t.Fatalf("unexpected message %q", got.Message)
	}
	if got.Data != nil {
		t.Fatalf("error result must not carry data: %+v", got.Data)
	}
}

func TestWeatherController_Fetch_TransportErrorCollapsesToMessage(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	f.errs["Paris"] = errors.New("execute request: dial tcp: connection refused")
	c, _ := newTestController(f, nil)
	defer c.Close()

	_ = c.Fetch(context.Background(), "Paris")
	c.Wait()

	got := c.Current()
	if got.Kind != models.KindError || got.Message == "" {
		t.Fatalf("want non-empty error, got %+v", got)
	}
}

func TestWeatherController_Fetch_LoadingBeforeResolution(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	f.data["Oslo"] = london()
	release := make(chan struct{})
	f.block["Oslo"] = release
	c, _ := newTestController(f, nil)
	defer c.Close()

	if err := c.Fetch(context.Background(), "Oslo"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := c.Current(); got.Kind != models.KindLoading || got.Query != "Oslo" {
		t.Fatalf("want loading immediately after submit, got %+v", got)
	}

	<-f.started
	if got := c.Current(); got.Kind != models.KindLoading {
		t.Fatalf("want loading while in flight, got %+v", got)
	}
	close(release)
	c.Wait()

	if got := c.Current(); got.Kind != models.KindSuccess {
		t.Fatalf("want success after release, got %+v", got)
	}
}

func TestWeatherController_Fetch_BlankCityIsRejected(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	c, _ := newTestController(f, nil)
	defer c.Close()

	for _, in := range []string{"", "   ", "\t\n"} {
		if err := c.Fetch(context.Background(), in); !errors.Is(err, ErrBlankCity) {
			t.Fatalf("Fetch(%q): want ErrBlankCity, got %v", in, err)
		}
	}
	if got := c.Current(); got.Kind != models.KindIdle {
		t.Fatalf("state must stay idle, got %+v", got)
	}
	if len(f.calls) != 0 {
		t.Fatalf("no request expected, got %v", f.calls)
	}
}

func TestWeatherController_Fetch_NewerSubmissionWins(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	f.data["Slow"] = london()
	f.data["Fast"] = london()
	f.block["Slow"] = make(chan struct{}) // only released by cancellation
	c, store := newTestController(f, nil)
	defer c.Close()

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	if err := c.Fetch(context.Background(), "Slow"); err != nil {
		t.Fatalf("Fetch Slow: %v", err)
	}
	<-f.started
	if err := c.Fetch(context.Background(), "Fast"); err != nil {
		t.Fatalf("Fetch Fast: %v", err)
	}
	c.Wait()

	got := c.Current()
	if got.Kind != models.KindSuccess || got.Query != "Fast" || got.Seq != 2 {
		t.Fatalf("latest submission should win, got %+v", got)
	}

	// drain: the cancelled Slow request must never surface as an error
	for {
		select {
		case r := <-updates:
			if r.Kind == models.KindError {
				t.Fatalf("superseded request leaked an error: %+v", r)
			}
		default:
			return
		}
	}
}

func TestWeatherController_Fetch_StaleSuccessIsDropped(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	f.data["Late"] = london()
	f.data["Now"] = london()
	c, store := newTestController(f, nil)
	defer c.Close()

	// seq 5 is already showing; an older seq must not overwrite it
	store.Publish(models.Result{Kind: models.KindSuccess, Query: "Now", Seq: 5})
	c.resolveForTest(t, 3, "Late")

	if got := store.Current(); got.Query != "Now" || got.Seq != 5 {
		t.Fatalf("stale result overwrote newer one: %+v", got)
	}
}

func TestWeatherController_LookupLogFailureDoesNotChangeResult(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	f.data["Rome"] = london()
	repo := &memLookupRepo{appendErr: errors.New("db down")}
	c, _ := newTestController(f, repo)
	defer c.Close()

	_ = c.Fetch(context.Background(), "Rome")
	c.Wait()

	if got := c.Current(); got.Kind != models.KindSuccess {
		t.Fatalf("want success despite log failure, got %+v", got)
	}
}

func TestWeatherController_CloseRejectsNewSubmissions(t *testing.T) {
	t.Parallel()

	f := newStubFetcher()
	f.block["Kyiv"] = make(chan struct{})
	c, _ := newTestController(f, nil)

	_ = c.Fetch(context.Background(), "Kyiv")
	<-f.started
	c.Close() // cancels the blocked request

	if got := c.Current(); got.Kind != models.KindLoading {
		t.Fatalf("shutdown must not publish a cancellation error, got %+v", got)
	}
	if err := c.Fetch(context.Background(), "Kyiv"); !errors.Is(err, ErrControllerClosed) {
		t.Fatalf("want ErrControllerClosed, got %v", err)
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"api error message", &weather.APIError{StatusCode: 400, Message: "No matching location found."}, "No matching location found."},
		{"deadline", context.DeadlineExceeded, "Weather service timed out"},
		{"plain error", errors.New("decode response: unexpected EOF"), "decode response: unexpected EOF"},
		{"empty error text", errors.New(""), fallbackErrorText},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := userMessage(tc.err); got != tc.want {
				t.Fatalf("userMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}

// resolveForTest runs one resolution synchronously for an explicit seq.
func (c *WeatherController) resolveForTest(t *testing.T, seq uint64, city string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	c.wg.Add(1)
	c.resolve(ctx, cancel, seq, city)
}
