package service

import (
	"context"
	"time"

	"weatherapp/internal/logger"
	"weatherapp/internal/models"
	"weatherapp/internal/repository"
)

// Weather accepts city submissions from the view.
type Weather interface {
	Fetch(ctx context.Context, city string) error
	Close()
}

// Monitoring exposes the observable result state (read-only).
type Monitoring interface {
	Current() models.Result
	Subscribe() (<-chan models.Result, func())
}

// LookupLog exposes the append-only lookup log with filtering access.
type LookupLog interface {
	List(ctx context.Context, f LookupFilter) ([]models.LookupEvent, error)
}

// Service aggregates all sub-services used by the HTTP layer.
type Service struct {
	Weather
	Monitoring
	LookupLog
}

// NewService wires the repository layer and the weather API client into
// concrete services sharing a single result store.
func NewService(repos *repository.Repository, fetcher WeatherFetcher, log *logger.Logger, fetchTimeout time.Duration) *Service {
	store := NewResultStore()
	return &Service{
		Weather:    NewWeatherController(fetcher, store, repos.LookupRepo, log, fetchTimeout),
		Monitoring: store,
		LookupLog:  NewLookupLogService(repos.LookupRepo),
	}
}
