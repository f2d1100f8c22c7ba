package coach

import (
	"liftbrain/fitness-coach/internal/domain"
)

const (
	// BodyCompWindow is how many recent check-ins the evaluator reads.
	BodyCompWindow   = 8
	maxWeightSamples = 5
)

// WeightPoint is one entry of the weight series.
type WeightPoint struct {
	DateLabel string  `json:"dateLabel"`
	WeightKg  float64 `json:"weightKg"`
}

// BodyCompContext feeds BuildBodyCompPrompt.
type BodyCompContext struct {
	Profile      Profile        `json:"-"`
	WeightSeries []WeightPoint  `json:"weightSeries"` // Oldest first
	ReadinessAvg Maybe[float64] `json:"readinessAvg"`
	AppetiteAvg  Maybe[float64] `json:"appetiteAvg"`
	SorenessAvg  Maybe[float64] `json:"sorenessAvg"`
	Notes        []string       `json:"notes"`     // Newest first
	PhotoURLs    []string       `json:"photoUrls"` // Newest first
}

// BuildBodyCompContext reduces check-ins (newest first) to the body-composition context.
func BuildBodyCompContext(profile Profile, checkIns []domain.ProgressCheckIn) (*BodyCompContext, error) {
	if len(checkIns) == 0 {
		return nil, ErrNoCheckIns
	}

	var weights []WeightPoint
	var readiness, appetite, soreness []float64
	notes := []string{}
	photos := []string{}
	for _, c := range checkIns {
		if c.WeightKg != nil && len(weights) < maxWeightSamples {
			weights = append(weights, WeightPoint{DateLabel: c.CreatedAt.Format("Jan 2"), WeightKg: *c.WeightKg})
		}
		readiness = appendScore(readiness, c.ReadinessScore)
		appetite = appendScore(appetite, c.AppetiteScore)
		soreness = appendScore(soreness, c.SorenessScore)
		if c.Notes != "" {
			notes = append(notes, c.Notes)
		}
		if c.PhotoURL != "" {
			photos = append(photos, c.PhotoURL)
		}
	}

	if len(weights) < 2 && len(photos) == 0 {
		return nil, ErrInsufficientSignal
	}

	// Present the trend oldest to newest
	series := make([]WeightPoint, len(weights))
	for i, w := range weights {
		series[len(weights)-1-i] = w
	}

	return &BodyCompContext{
		Profile:      profile,
		WeightSeries: series,
		ReadinessAvg: RoundMaybe1(Mean(readiness)),
		AppetiteAvg:  RoundMaybe1(Mean(appetite)),
		SorenessAvg:  RoundMaybe1(Mean(soreness)),
		Notes:        notes,
		PhotoURLs:    photos,
	}, nil
}

func appendScore(values []float64, score *int) []float64 {
	if score == nil {
		return values
	}
	return append(values, float64(*score))
}
