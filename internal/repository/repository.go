package repository

import (
	"context"
	"database/sql"
	"time"

	"weatherapp/internal/models"
)

type LookupRepo interface {
	Append(ctx context.Context, e models.LookupEvent) error
	List(ctx context.Context, from, to time.Time, outcome string) ([]models.LookupEvent, error)
}

type Repository struct {
	LookupRepo LookupRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		LookupRepo: NewLookupSQLite(db),
	}
}
