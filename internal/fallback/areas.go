package fallback

import "github.com/riserlabs/hazard-feed/internal/domain"

// Static reference data for synthetic flood observations. Each source covers
// a distinct set of areas, mirroring the coverage of the real feeds.
var floodAreas = map[string][]domain.Area{
	"pagasa": {
		{Name: "Marikina", BaseRisk: 0.8, Lat: 14.6507, Lng: 121.1029, Population: 450000},
		{Name: "Pasig", BaseRisk: 0.6, Lat: 14.5764, Lng: 121.0851, Population: 755000},
		{Name: "Mandaluyong", BaseRisk: 0.5, Lat: 14.5794, Lng: 121.0359, Population: 400000},
		{Name: "Quezon City", BaseRisk: 0.7, Lat: 14.6760, Lng: 121.0437, Population: 2900000},
	},
	"noah": {
		{Name: "Cainta", BaseRisk: 0.6, Lat: 14.5781, Lng: 121.1222, Population: 350000},
		{Name: "Antipolo", BaseRisk: 0.5, Lat: 14.5932, Lng: 121.1760, Population: 775000},
		{Name: "Taytay", BaseRisk: 0.4, Lat: 14.5574, Lng: 121.1324, Population: 325000},
	},
	"noaa": {
		{Name: "San Mateo", BaseRisk: 0.3, Lat: 14.6969, Lng: 121.1218, Population: 275000},
		{Name: "Rodriguez", BaseRisk: 0.4, Lat: 14.7230, Lng: 121.2069, Population: 350000},
		{Name: "Montalban", BaseRisk: 0.2, Lat: 14.7286, Lng: 121.1416, Population: 385000},
	},
}

var evacuationCenters = map[string][]string{
	"Marikina": {"Marikina Sports Center", "Nangka Elementary School"},
	"Pasig":    {"Pasig City Hall", "Rainier Townhomes Covered Court"},
	"Cainta":   {"Sts. Peter and Paul Parish Church", "Cainta Catholic College"},
}

var defaultEvacuationCenters = []string{"Municipal Hall", "Public School"}

var localEmergencyNumbers = map[string]string{
	"Marikina": "(02) 8646-1355",
	"Pasig":    "(02) 8641-1111",
	"Cainta":   "(02) 8656-2828",
}

const defaultEmergencyNumber = "(02) 8888-0000"

// EvacuationCenters returns the evacuation centers for an area, falling back
// to generic defaults for unlisted areas.
func EvacuationCenters(areaName string) []string {
	if centers, ok := evacuationCenters[areaName]; ok {
		return centers
	}
	return defaultEvacuationCenters
}

// EmergencyContacts returns the emergency contact numbers for an area.
func EmergencyContacts(areaName string) map[string]string {
	local := localEmergencyNumbers[areaName]
	if local == "" {
		local = defaultEmergencyNumber
	}
	return map[string]string{
		"fire":    "116",
		"police":  "117",
		"medical": "911",
		"rescue":  "143",
		"local":   local,
	}
}
