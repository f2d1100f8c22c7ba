package coach

import (
	"fmt"
	"sort"
	"strings"

	"liftbrain/fitness-coach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	adjustmentWeeks  = 4
	maxBaselineLifts = 6
)

// LiftDelta is the week-over-week change of a lift's best estimated 1RM.
type LiftDelta struct {
	Lift  string
	Delta float64
}

// WeekStat summarizes one training week.
type WeekStat struct {
	WeekLabel         string
	SessionsCompleted int
	TotalSets         int
	AvgRPE            Maybe[float64]
	OneRMChanges      []LiftDelta
}

// EstimateOneRM applies the Epley formula. Absent without a load or reps.
func EstimateOneRM(weightKg *float64, reps int) Maybe[float64] {
	if weightKg == nil || *weightKg <= 0 || reps <= 0 {
		return None[float64]()
	}
	return Some(*weightKg * (1 + float64(reps)/30))
}

type weekBucket struct {
	start    string
	label    string
	sessions int
	sets     int
	rpes     []float64
	best     map[string]float64
}

// WeeklyTrainingStats groups sessions by Monday-starting week, newest week
// first, for the last four weeks that have sessions.
func WeeklyTrainingStats(sessions []domain.WorkoutSession, names map[primitive.ObjectID]string) []WeekStat {
	buckets := map[string]*weekBucket{}
	for _, s := range sessions {
		start := StartOfWeek(s.SessionDate)
		key := start.Format("2006-01-02")
		bucket, ok := buckets[key]
		if !ok {
			bucket = &weekBucket{start: key, label: start.Format("Jan 2"), best: map[string]float64{}}
			buckets[key] = bucket
		}
		bucket.sessions++
		bucket.sets += len(s.Sets)
		for _, set := range s.Sets {
			if set.RPE != nil {
				bucket.rpes = append(bucket.rpes, *set.RPE)
			}
			if e1rm, ok := EstimateOneRM(set.WeightKg, set.Reps).Get(); ok {
				name := names[set.ExerciseID]
				if name == "" {
					name = unknownExerciseName
				}
				if e1rm > bucket.best[name] {
					bucket.best[name] = e1rm
				}
			}
		}
	}

	ordered := make([]*weekBucket, 0, len(buckets))
	for _, bucket := range buckets {
		ordered = append(ordered, bucket)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start > ordered[j].start })
	if len(ordered) > adjustmentWeeks+1 {
		ordered = ordered[:adjustmentWeeks+1]
	}

	stats := []WeekStat{}
	for i, bucket := range ordered {
		if i == adjustmentWeeks {
			break
		}
		stat := WeekStat{
			WeekLabel:         bucket.label,
			SessionsCompleted: bucket.sessions,
			TotalSets:         bucket.sets,
			AvgRPE:            RoundMaybe1(Mean(bucket.rpes)),
		}
		if i+1 < len(ordered) {
			stat.OneRMChanges = oneRMChanges(bucket.best, ordered[i+1].best)
		}
		stats = append(stats, stat)
	}
	return stats
}

func oneRMChanges(current, previous map[string]float64) []LiftDelta {
	deltas := []LiftDelta{}
	for lift, best := range current {
		if prev, ok := previous[lift]; ok {
			deltas = append(deltas, LiftDelta{Lift: lift, Delta: Round1(best - prev)})
		}
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Lift < deltas[j].Lift })
	return deltas
}

// BaselineLifts picks the best set (by estimated 1RM) of the strongest lifts.
func BaselineLifts(sessions []domain.WorkoutSession, names map[primitive.ObjectID]string) []BaselineLift {
	type best struct {
		name string
		e1rm float64
		set  domain.SetEntry
	}
	byName := map[string]best{}
	for _, s := range sessions {
		for _, set := range s.Sets {
			e1rm, ok := EstimateOneRM(set.WeightKg, set.Reps).Get()
			name := names[set.ExerciseID]
			if !ok || name == "" {
				continue
			}
			if cur, seen := byName[name]; !seen || e1rm > cur.e1rm {
				byName[name] = best{name: name, e1rm: e1rm, set: set}
			}
		}
	}

	all := make([]best, 0, len(byName))
	for _, b := range byName {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].e1rm != all[j].e1rm {
			return all[i].e1rm > all[j].e1rm
		}
		return all[i].name < all[j].name
	})
	if len(all) > maxBaselineLifts {
		all = all[:maxBaselineLifts]
	}

	lifts := make([]BaselineLift, 0, len(all))
	for _, b := range all {
		lifts = append(lifts, BaselineLift{
			Name:    b.name,
			BestSet: fmt.Sprintf("%s kg x %d (e1RM %s kg)", formatDecimal(*b.set.WeightKg), b.set.Reps, formatDecimal(b.e1rm)),
		})
	}
	return lifts
}

// DescribeTemplate renders a template and its days as prompt text.
func DescribeTemplate(t *domain.WorkoutTemplate, days []domain.TemplateDay) string {
	if t == nil {
		return "No active plan"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (version %d)", t.Name, t.AIVersion)
	if t.Description != "" {
		fmt.Fprintf(&b, ": %s", oneLine(t.Description))
	}
	for _, d := range days {
		lifts := make([]string, 0, len(d.Exercises))
		for _, e := range d.Exercises {
			lifts = append(lifts, fmt.Sprintf("%s %dx%s", e.ExerciseName, e.PrescribedSets, e.PrescribedReps))
		}
		fmt.Fprintf(&b, "\n- %s [%s]: %s", d.DayName, orNA(d.FocusArea), strings.Join(lifts, ", "))
	}
	return b.String()
}
