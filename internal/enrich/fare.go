// Package enrich computes the derived data attached to a city-destination
// link: fare estimates, best-visit-time hints, and live weather/air quality.
package enrich

import "math"

// Per-kilometre rates in rupees. Tuned for Indian intercity travel.
const (
	fuelRatePerKm  = 7
	tollRatePerKm  = 2
	taxiRatePerKm  = 15
	trainRatePerKm = 1.5
	busRatePerKm   = 2.5
)

// Booking link placeholders surfaced next to each fare component.
const (
	rentalLink = "https://www.zoomcar.com"
	taxiLink   = "https://www.uber.com"
	busLink    = "https://www.redbus.in"
	trainLink  = "https://www.irctc.co.in"
)

// TransitFare is the remote-reported transit fare, when the directions
// response carried one. Nil means no reported fare.
type TransitFare struct {
	Value int
}

// FareEstimate is the per-mode cost breakdown plus booking links for each
// component present.
type FareEstimate struct {
	Fare  map[string]int
	Links map[string]string
}

// EstimateFare is deterministic: the same mode, distance, and transit fare
// always produce identical output.
//
// Driving: fuel and toll scale linearly with distance and sum to the total; a
// flat per-km taxi estimate rides along. Transit: a remote-reported fare wins
// when present (bus stays 0 in that case), otherwise train and bus are
// estimated per-km at their own rates.
func EstimateFare(mode string, distanceKm int, transit *TransitFare) FareEstimate {
	if mode == "driving" {
		fuelCost := int(math.Round(float64(distanceKm) * fuelRatePerKm))
		tollCost := int(math.Round(float64(distanceKm) * tollRatePerKm))
		return FareEstimate{
			Fare: map[string]int{
				"fuel":  fuelCost,
				"toll":  tollCost,
				"total": fuelCost + tollCost,
				"taxi":  int(math.Round(float64(distanceKm) * taxiRatePerKm)),
			},
			Links: map[string]string{"rental": rentalLink, "taxi": taxiLink},
		}
	}

	var trainFare, busFare int
	if transit != nil {
		trainFare = transit.Value
	} else {
		trainFare = int(math.Round(float64(distanceKm) * trainRatePerKm))
		busFare = int(math.Round(float64(distanceKm) * busRatePerKm))
	}

	return FareEstimate{
		Fare:  map[string]int{"bus": busFare, "train": trainFare},
		Links: map[string]string{"bus": busLink, "train": trainLink},
	}
}
