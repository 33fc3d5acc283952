package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateFareDriving(t *testing.T) {
	estimate := EstimateFare("driving", 120, nil)

	assert.Equal(t, 840, estimate.Fare["fuel"])
	assert.Equal(t, 240, estimate.Fare["toll"])
	assert.Equal(t, estimate.Fare["fuel"]+estimate.Fare["toll"], estimate.Fare["total"])
	assert.Equal(t, 1800, estimate.Fare["taxi"])
	assert.Equal(t, "https://www.zoomcar.com", estimate.Links["rental"])
	assert.Equal(t, "https://www.uber.com", estimate.Links["taxi"])
}

func TestEstimateFareDrivingTotalIdentity(t *testing.T) {
	for _, km := range []int{0, 1, 37, 250, 999} {
		estimate := EstimateFare("driving", km, nil)
		assert.Equal(t, estimate.Fare["fuel"]+estimate.Fare["toll"], estimate.Fare["total"],
			"total must equal fuel+toll at %d km", km)
	}
}

func TestEstimateFareTransitEstimated(t *testing.T) {
	estimate := EstimateFare("transit", 100, nil)

	assert.Equal(t, 150, estimate.Fare["train"])
	assert.Equal(t, 250, estimate.Fare["bus"])
	assert.Equal(t, "https://www.redbus.in", estimate.Links["bus"])
	assert.Equal(t, "https://www.irctc.co.in", estimate.Links["train"])
}

func TestEstimateFareTransitPrefersReportedFare(t *testing.T) {
	estimate := EstimateFare("transit", 100, &TransitFare{Value: 420})

	assert.Equal(t, 420, estimate.Fare["train"])
	assert.Equal(t, 0, estimate.Fare["bus"], "bus estimate is skipped when a reported fare exists")
}

func TestEstimateFareDeterministic(t *testing.T) {
	a := EstimateFare("driving", 87, nil)
	b := EstimateFare("driving", 87, nil)
	assert.Equal(t, a, b)

	fare := &TransitFare{Value: 99}
	c := EstimateFare("transit", 87, fare)
	d := EstimateFare("transit", 87, fare)
	assert.Equal(t, c, d)
}
