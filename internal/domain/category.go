package domain

// Category identifies one hazard data domain with its own providers,
// schedule, and cached snapshot.
type Category string

const (
	CategoryFlood   Category = "flood"
	CategoryWeather Category = "weather"
	CategoryTraffic Category = "traffic"
	CategoryTransit Category = "transit"
)

// Categories returns all known categories in their canonical order.
func Categories() []Category {
	return []Category{CategoryFlood, CategoryWeather, CategoryTraffic, CategoryTransit}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFlood, CategoryWeather, CategoryTraffic, CategoryTransit:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }
