package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"weatherapp/internal/models"
	"weatherapp/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockWeather struct {
	mu       sync.Mutex
	fetchErr error
	lastCity string
	calls    int
	closed   bool
	onFetch  func(city string) // optional side effect, e.g. publish to a monitoring mock
}

func (m *mockWeather) Fetch(ctx context.Context, city string) error {
	m.mu.Lock()
	m.calls++
	m.lastCity = city
	err, hook := m.fetchErr, m.onFetch
	m.mu.Unlock()
	if err == nil && hook != nil {
		hook(city)
	}
	return err
}

func (m *mockWeather) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *mockWeather) snapshot() (calls int, lastCity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.lastCity
}

type mockMonitoring struct {
	mu      sync.Mutex
	state   models.Result
	updates chan models.Result
}

func newMockMonitoring(state models.Result) *mockMonitoring {
	return &mockMonitoring{state: state, updates: make(chan models.Result, 8)}
}

func (m *mockMonitoring) Current() models.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockMonitoring) Subscribe() (<-chan models.Result, func()) {
	return m.updates, func() {}
}

// push sets the state and delivers it to the (single) subscriber.
func (m *mockMonitoring) push(r models.Result) {
	m.mu.Lock()
	m.state = r
	m.mu.Unlock()
	m.updates <- r
}

type mockLookupLog struct {
	resp        []models.LookupEvent
	err         error
	lastFrom    time.Time
	lastTo      time.Time
	lastOutcome string
}

func (m *mockLookupLog) List(ctx context.Context, f service.LookupFilter) ([]models.LookupEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastOutcome = f.Outcome
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

func jsonHeader() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}
