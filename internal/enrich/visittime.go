package enrich

import "github.com/theweekendworld-engg/trip-gennie/internal/types"

// bestMonthsByCategory is the static recommendation table. Unrecognised
// categories fall back to the cooler half of the year.
var bestMonthsByCategory = map[string][]string{
	types.CategoryHillStation: {"March", "April", "May", "October", "November"},
	types.CategoryBeach:       {"October", "November", "December", "January", "February"},
	types.CategoryWildlife:    {"October", "November", "December", "January", "February", "March"},
	types.CategoryNature:      {"July", "August", "September", "October"},
	"waterfall":               {"July", "August", "September", "October"},
}

var defaultBestMonths = []string{"October", "November", "December", "January", "February", "March"}

// BestVisitTime returns the recommended months for a destination category.
// Always non-empty.
func BestVisitTime(category string) types.BestVisitTime {
	if months, ok := bestMonthsByCategory[category]; ok {
		return types.BestVisitTime{BestMonths: months}
	}
	return types.BestVisitTime{BestMonths: defaultBestMonths}
}
