package service

import "time"

// LookupFilter supports lookup log filtering by time range and outcome.
type LookupFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Outcome string    // "", "LOADING", "SUCCESS", "ERROR"
}
