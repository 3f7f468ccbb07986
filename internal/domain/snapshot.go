package domain

import "time"

// WeatherReport is the normalized current-conditions payload for the weather
// category, reduced from the upstream provider's response.
type WeatherReport struct {
	Location    string  `json:"location"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	TempC       float64 `json:"tempC"`
	FeelsLikeC  float64 `json:"feelsLikeC"`
	Humidity    int     `json:"humidity"`
	PressureHPa int     `json:"pressureHPa"`
	WindSpeedMS float64 `json:"windSpeedMS"`
	WindDeg     int     `json:"windDeg"`
	CloudCover  int     `json:"cloudCover"`
	VisibilityM int     `json:"visibilityM"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// HighwayExit is the status of one named exit along a highway.
type HighwayExit struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Traffic string `json:"traffic"`
}

// HighwayStatus describes one monitored highway for the traffic category.
// Status is "passable" or "not-passable"; Traffic is one of light, mild,
// moderate, heavy.
type HighwayStatus struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	FullName string        `json:"fullName"`
	Status   string        `json:"status"`
	Traffic  string        `json:"traffic"`
	Weather  string        `json:"weather,omitempty"`
	Exits    []HighwayExit `json:"exits,omitempty"`
}

// TransitLine is the status of one rail line.
type TransitLine struct {
	Line   string `json:"line"`
	Status string `json:"status"` // operational, maintenance, closed
	Delay  string `json:"delay"`  // "on-time" or a delay range
}

// BusRoute is the status of one monitored bus corridor.
type BusRoute struct {
	Route      string `json:"route"`
	Status     string `json:"status"`
	Congestion string `json:"congestion"`
}

// TransitStatus is the structured payload for the transit category.
type TransitStatus struct {
	Rail  []TransitLine `json:"rail"`
	Buses []BusRoute    `json:"buses"`
}

// Summary is the category-level aggregate over all observations in a flood
// snapshot. OverallTier is derived from OverallScore with the same threshold
// table as per-area tiers.
type Summary struct {
	OverallScore float64          `json:"overallRiskScore"`
	OverallTier  RiskTier         `json:"overallTier"`
	TierCounts   map[RiskTier]int `json:"tierCounts"`
}

// CategorySnapshot is the unit published and cached per category. Exactly one
// of the payload fields is set, matching Category. A snapshot is immutable
// once published; a new tick fully replaces the previous one.
type CategorySnapshot struct {
	Category Category `json:"category"`

	Observations []RiskObservation `json:"areas,omitempty"`
	Weather      *WeatherReport    `json:"weather,omitempty"`
	Highways     []HighwayStatus   `json:"highways,omitempty"`
	Transit      *TransitStatus    `json:"transit,omitempty"`

	Summary       *Summary  `json:"summary,omitempty"`
	ActiveSources []string  `json:"activeSources,omitempty"`
	LastUpdated   time.Time `json:"lastUpdated"`
}
