package models

// Condition is the textual and iconographic summary of the current weather.
type Condition struct {
	Text string `json:"text"` // e.g. "Partly cloudy"
	Icon string `json:"icon"` // protocol-relative, e.g. "//cdn.weatherapi.com/weather/64x64/day/116.png"
}

type Location struct {
	Name      string `json:"name"`
	Country   string `json:"country"`
	Localtime string `json:"localtime"` // "YYYY-MM-DD HH:MM"
}

type Current struct {
	TempC     float64   `json:"temp_c"`    // °C
	Humidity  int       `json:"humidity"`  // %
	WindKph   float64   `json:"wind_kph"`  // km/h
	UV        float64   `json:"uv"`        // index
	PrecipMM  float64   `json:"precip_mm"` // mm
	Condition Condition `json:"condition"`
}

// WeatherData is an immutable snapshot of one current-weather API response.
type WeatherData struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
}
