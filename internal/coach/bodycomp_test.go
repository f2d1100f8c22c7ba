package coach

import (
	"testing"
	"time"

	"liftbrain/fitness-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkIn(daysAgo int, weight *float64) domain.ProgressCheckIn {
	return domain.ProgressCheckIn{
		WeightKg:  weight,
		CreatedAt: time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
	}
}

func TestBuildBodyCompContext_Preconditions(t *testing.T) {
	_, err := BuildBodyCompContext(Profile{}, nil)
	assert.ErrorIs(t, err, ErrNoCheckIns)

	_, err = BuildBodyCompContext(Profile{}, []domain.ProgressCheckIn{checkIn(0, nil)})
	assert.ErrorIs(t, err, ErrInsufficientSignal)

	_, err = BuildBodyCompContext(Profile{}, []domain.ProgressCheckIn{checkIn(0, f64(80)), checkIn(3, nil)})
	assert.ErrorIs(t, err, ErrInsufficientSignal)
}

func TestBuildBodyCompContext_PhotoIsEnoughSignal(t *testing.T) {
	c := checkIn(0, f64(80))
	c.PhotoURL = "https://cdn/p.jpg"

	ctx, err := BuildBodyCompContext(Profile{}, []domain.ProgressCheckIn{c})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://cdn/p.jpg"}, ctx.PhotoURLs)
	assert.Len(t, ctx.WeightSeries, 1)
}

func TestBuildBodyCompContext_SeriesAndAverages(t *testing.T) {
	// Newest first, one check-in every two days.
	var checkIns []domain.ProgressCheckIn
	for i := 0; i < 7; i++ {
		checkIns = append(checkIns, checkIn(2*i, f64(80+float64(i))))
	}
	checkIns[0].ReadinessScore = intp(6)
	checkIns[2].ReadinessScore = intp(8)
	checkIns[0].AppetiteScore = intp(5)
	checkIns[1].AppetiteScore = intp(6)
	checkIns[2].AppetiteScore = intp(6)
	checkIns[0].Notes = "felt flat"
	checkIns[3].Notes = "great sleep"

	ctx, err := BuildBodyCompContext(Profile{}, checkIns)
	require.NoError(t, err)

	require.Len(t, ctx.WeightSeries, maxWeightSamples)
	assert.Equal(t, WeightPoint{DateLabel: "Jan 12", WeightKg: 84}, ctx.WeightSeries[0])
	assert.Equal(t, WeightPoint{DateLabel: "Jan 20", WeightKg: 80}, ctx.WeightSeries[4])

	readiness, ok := ctx.ReadinessAvg.Get()
	require.True(t, ok)
	assert.Equal(t, 7.0, readiness)
	appetite, _ := ctx.AppetiteAvg.Get()
	assert.Equal(t, 5.7, appetite)
	assert.False(t, ctx.SorenessAvg.IsSome())

	assert.Equal(t, []string{"felt flat", "great sleep"}, ctx.Notes)
	assert.Empty(t, ctx.PhotoURLs)
}
