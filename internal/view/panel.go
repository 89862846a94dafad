// Package view renders the weather screen from the current result state.
package view

import (
	"fmt"
	"strconv"
	"strings"

	"weatherapp/internal/models"
)

// Labels shown in the details grid.
const (
	LabelHumidity  = "Humidity"
	LabelWind      = "Wind Speed"
	LabelUV        = "UV Index"
	LabelPrecip    = "Precipitation"
	LabelLocalDate = "Local Date"
	LabelLocalTime = "Local Time"

	SearchPlaceholder = "Enter city name..."
	missingDataText   = "No weather data received"
)

type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Details is the success panel.
type Details struct {
	Header        string         `json:"header"`      // "London, United Kingdom"
	Temperature   string         `json:"temperature"` // "8.2°C"
	IconURL       string         `json:"icon_url"`
	ConditionText string         `json:"condition_text"`
	Grid          [2][2]KeyValue `json:"grid"`     // humidity/wind, uv/precipitation
	DateTime      [2]KeyValue    `json:"datetime"` // local date, local time
}

// Panel is the whole rendered screen. Which fields are set depends on Kind.
type Panel struct {
	Kind        models.ResultKind `json:"kind"`
	Query       string            `json:"query,omitempty"`
	Placeholder string            `json:"placeholder"`
	Spinner     bool              `json:"spinner"`
	ErrorText   string            `json:"error_text,omitempty"`
	Details     *Details          `json:"details,omitempty"`
}

// Render is a pure function of the result state.
func Render(r models.Result) Panel {
	p := Panel{Kind: r.Kind, Query: r.Query, Placeholder: SearchPlaceholder}

	switch r.Kind {
	case models.KindLoading:
		p.Spinner = true
	case models.KindError:
		p.ErrorText = r.Message
	case models.KindSuccess:
		if r.Data == nil {
			p.Kind = models.KindError
			p.ErrorText = missingDataText
			break
		}
		d := renderDetails(*r.Data)
		p.Details = &d
	default:
		p.Kind = models.KindIdle
	}
	return p
}

func renderDetails(w models.WeatherData) Details {
	date, clock := SplitLocalTime(w.Location.Localtime)
	return Details{
		Header:        fmt.Sprintf("%s, %s", w.Location.Name, w.Location.Country),
		Temperature:   formatNumber(w.Current.TempC) + "°C",
		IconURL:       IconURL(w.Current.Condition.Icon),
		ConditionText: w.Current.Condition.Text,
		Grid: [2][2]KeyValue{
			{
				{Key: LabelHumidity, Value: strconv.Itoa(w.Current.Humidity) + "%"},
				{Key: LabelWind, Value: formatNumber(w.Current.WindKph) + " km/h"},
			},
			{
				{Key: LabelUV, Value: formatNumber(w.Current.UV)},
				{Key: LabelPrecip, Value: formatNumber(w.Current.PrecipMM) + " mm"},
			},
		},
		DateTime: [2]KeyValue{
			{Key: LabelLocalDate, Value: date},
			{Key: LabelLocalTime, Value: clock},
		},
	}
}

// IconURL turns the API's protocol-relative icon path into an https URL.
// Absolute URLs and the empty string pass through unchanged.
func IconURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

// SplitLocalTime splits "YYYY-MM-DD HH:MM" on its first space. Input
// without a space yields the whole (trimmed) string as the date and an
// empty time.
func SplitLocalTime(s string) (date, clock string) {
	s = strings.TrimSpace(s)
	date, clock, _ = strings.Cut(s, " ")
	return date, strings.TrimSpace(clock)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
