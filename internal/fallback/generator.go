// Package fallback generates synthetic hazard payloads used whenever a real
// provider is unconfigured or fails. Payloads have the same shape as real
// data and are seeded by time of day and season so the variation stays
// plausible; callers treat them exactly like upstream results.
package fallback

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/riserlabs/hazard-feed/internal/domain"
	"github.com/riserlabs/hazard-feed/internal/scoring"
)

var floodConditions = []string{"sunny", "cloudy", "light-rain", "heavy-rain", "thunderstorm"}

// Generator produces synthetic payloads for every category. Safe for
// concurrent use.
type Generator struct {
	clock  clockwork.Clock
	engine *scoring.Engine
}

// NewGenerator creates a Generator driven by the given clock.
func NewGenerator(clock clockwork.Clock) *Generator {
	return &Generator{
		clock:  clock,
		engine: scoring.NewEngine(clock),
	}
}

// Flood returns synthetic risk observations for one flood source. The source
// determines area coverage; unknown sources use the primary coverage set.
func (g *Generator) Flood(source string) []domain.RiskObservation {
	areas, ok := floodAreas[strings.ToLower(source)]
	if !ok {
		areas = floodAreas["pagasa"]
	}

	// One condition per cycle: all areas of a source share the same sky.
	condition := floodConditions[rand.IntN(len(floodConditions))]

	observations := make([]domain.RiskObservation, 0, len(areas))
	for _, area := range areas {
		obs := g.engine.Score(area, scoring.Signal{
			Condition: condition,
			Source:    strings.ToUpper(source),
		})
		obs.EvacuationCenters = EvacuationCenters(area.Name)
		obs.EmergencyContacts = EmergencyContacts(area.Name)
		observations = append(observations, obs)
	}
	return observations
}

// Weather returns a synthetic current-conditions report. Afternoon hours
// skew towards rain and thunderstorms.
func (g *Generator) Weather(location string) domain.WeatherReport {
	hour := g.clock.Now().Hour()

	conditions := []string{"Clear", "Clouds", "Rain", "Thunderstorm", "Drizzle"}
	weights := []float64{0.4, 0.35, 0.15, 0.08, 0.02}
	if hour >= 14 && hour <= 18 {
		weights = []float64{0.3, 0.3, 0.25, 0.15, 0.05}
	}
	condition := weightedPick(conditions, weights)
	raining := condition == "Rain" || condition == "Thunderstorm"

	baseTemp := 28 + (rand.Float64()-0.5)*8 // tropical 24-32°C band

	humidity := 50 + rand.Float64()*30
	if raining {
		humidity = 75 + rand.Float64()*20
	}

	visibility := 8000 + rand.Float64()*2000
	if raining {
		visibility = 3000 + rand.Float64()*4000
	}

	windSpeed := 2 + rand.Float64()*5
	if condition == "Thunderstorm" {
		windSpeed = 8 + rand.Float64()*7
	}

	cloudCover := rand.Float64() * 20
	switch condition {
	case "Clouds":
		cloudCover = 40 + rand.Float64()*40
	case "Rain", "Thunderstorm", "Drizzle":
		cloudCover = 60 + rand.Float64()*40
	}

	name := location
	if i := strings.Index(location, ","); i > 0 {
		name = location[:i]
	}

	return domain.WeatherReport{
		Location:    name,
		Condition:   condition,
		Description: describeCondition(condition),
		TempC:       round2(baseTemp),
		FeelsLikeC:  round2(baseTemp + rand.Float64()*2),
		Humidity:    int(math.Round(humidity)),
		PressureHPa: 1010 + rand.IntN(21),
		WindSpeedMS: round2(windSpeed),
		WindDeg:     rand.IntN(360),
		CloudCover:  int(math.Min(math.Round(cloudCover), 100)),
		VisibilityM: int(visibility),
		Lat:         14.5995,
		Lng:         120.9842,
	}
}

// Traffic returns synthetic highway statuses. Rush-hour windows raise
// intensity, night hours damp it, and a simulated rainy spell raises it
// again.
func (g *Generator) Traffic() []domain.HighwayStatus {
	hour := g.clock.Now().Hour()
	rushHour := (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19)
	night := hour >= 22 || hour <= 5

	weather := "clear"
	weatherMult := 1.0
	if rand.Float64() > 0.8 {
		weather = "rainy"
		weatherMult = 1.5
	}

	level := func(base float64) string {
		return trafficLevel(base, rushHour, night, weatherMult)
	}

	return []domain.HighwayStatus{
		{
			ID: "nlex", Name: "NLEX", FullName: "North Luzon Expressway",
			Status:  passableUnless(0.95),
			Traffic: level(0.7),
			Weather: weather,
			Exits: []domain.HighwayExit{
				{Name: "Balintawak", Status: "passable", Traffic: level(0.8)},
				{Name: "Mindanao Ave", Status: "passable", Traffic: level(0.9)},
				{Name: "Karuhatan", Status: "passable", Traffic: level(0.6)},
				{Name: "Meycauayan", Status: "passable", Traffic: level(0.4)},
				{Name: "Marilao", Status: "passable", Traffic: level(0.5)},
			},
		},
		{
			ID: "slex", Name: "SLEX", FullName: "South Luzon Expressway",
			Status:  passableUnless(0.98),
			Traffic: level(0.8),
			Weather: weather,
			Exits: []domain.HighwayExit{
				{Name: "Magallanes", Status: "passable", Traffic: level(0.9)},
				{Name: "Nichols", Status: "passable", Traffic: level(0.9)},
				{Name: "Bicutan", Status: "passable", Traffic: level(0.7)},
				{Name: "Sucat", Status: "passable", Traffic: level(0.8)},
				{Name: "Alabang", Status: "passable", Traffic: level(0.9)},
			},
		},
		{
			ID: "edsa", Name: "EDSA", FullName: "Epifanio de los Santos Avenue",
			Status:  "passable",
			Traffic: level(0.9),
			Weather: weather,
			Exits: []domain.HighwayExit{
				{Name: "North Ave", Status: "passable", Traffic: level(0.9)},
				{Name: "Quezon Ave", Status: "passable", Traffic: level(0.9)},
				{Name: "Timog Ave", Status: "passable", Traffic: level(0.8)},
				{Name: "Cubao", Status: "passable", Traffic: level(0.9)},
				{Name: "Ortigas", Status: "passable", Traffic: level(0.9)},
			},
		},
	}
}

// Transit returns synthetic rail and bus statuses respecting the 05:00-23:00
// operating window.
func (g *Generator) Transit() domain.TransitStatus {
	hour := g.clock.Now().Hour()
	operating := hour >= 5 && hour <= 23

	line := func(name, delayRange string, delayChance, maintenanceChance float64) domain.TransitLine {
		l := domain.TransitLine{Line: name, Status: "closed", Delay: "on-time"}
		if !operating {
			return l
		}
		l.Status = "operational"
		if rand.Float64() < maintenanceChance {
			l.Status = "maintenance"
		}
		if rand.Float64() < delayChance {
			l.Delay = delayRange
		}
		return l
	}

	return domain.TransitStatus{
		Rail: []domain.TransitLine{
			line("MRT Line 1", "5-10 mins", 0.2, 0),
			line("MRT Line 2", "3-7 mins", 0.2, 0),
			line("MRT Line 3", "10-15 mins", 0.3, 0.1),
			line("LRT Line 1", "5-8 mins", 0.2, 0),
			line("LRT Line 2", "3-6 mins", 0.2, 0),
		},
		Buses: []domain.BusRoute{
			{Route: "EDSA Carousel", Status: "operational", Congestion: pick("heavy", "moderate", 0.4)},
			{Route: "Commonwealth", Status: "operational", Congestion: pick("heavy", "light", 0.3)},
		},
	}
}

// trafficLevel buckets an intensity into light/mild/moderate/heavy after
// applying time-of-day and weather factors plus bounded random variation.
func trafficLevel(base float64, rushHour, night bool, weatherMult float64) string {
	intensity := base
	if rushHour {
		intensity *= 1.8
	}
	if night {
		intensity *= 0.3
	}
	intensity *= weatherMult
	intensity *= 0.8 + rand.Float64()*0.4

	switch {
	case intensity > 0.8:
		return "heavy"
	case intensity > 0.5:
		return "moderate"
	case intensity > 0.2:
		return "mild"
	default:
		return "light"
	}
}

func passableUnless(threshold float64) string {
	if rand.Float64() > threshold {
		return "not-passable"
	}
	return "passable"
}

func pick(a, b string, chanceA float64) string {
	if rand.Float64() < chanceA {
		return a
	}
	return b
}

func weightedPick(values []string, weights []float64) string {
	r := rand.Float64()
	var sum float64
	for i, w := range weights {
		sum += w
		if r <= sum {
			return values[i]
		}
	}
	return values[0]
}

func describeCondition(condition string) string {
	switch condition {
	case "Clear":
		return "clear sky"
	case "Clouds":
		return "scattered clouds"
	case "Rain":
		return "moderate rain"
	case "Thunderstorm":
		return "thunderstorm with rain"
	case "Drizzle":
		return "light drizzle"
	default:
		return fmt.Sprintf("unknown (%s)", condition)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
