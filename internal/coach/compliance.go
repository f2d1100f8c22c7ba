package coach

import (
	"fmt"
	"math"
	"sort"

	"liftbrain/fitness-coach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComplianceWindow is how many recent sessions the compliance review reads.
const ComplianceWindow = 7

const (
	laggingCompletionThreshold = 95.0
	laggingRPEDeltaThreshold   = 0.5
	maxLaggingPatterns         = 5
	maxNotedIssues             = 2
	unknownExerciseName        = "Unknown movement"
	adHocSessionName           = "Ad-hoc session"
)

// SessionRecord is one logged session joined with what the aggregator needs:
// the prescribed day it followed, exercise names and its latest check-in.
type SessionRecord struct {
	Session       domain.WorkoutSession
	Day           *domain.TemplateDay // nil for ad-hoc sessions
	ExerciseNames map[primitive.ObjectID]string
	CheckIn       *domain.ProgressCheckIn
}

// ExerciseStat compares prescribed and performed work for one exercise in one session.
type ExerciseStat struct {
	Exercise   string         `json:"exercise"`
	TargetSets int            `json:"targetSets"`
	ActualSets int            `json:"actualSets"`
	AvgRPE     Maybe[float64] `json:"avgRpe"`
	TargetRPE  Maybe[float64] `json:"targetRpe"`
}

// SessionSummary is the per-session breakdown of a compliance context.
type SessionSummary struct {
	DateLabel      string         `json:"dateLabel"`
	TemplateName   string         `json:"templateName"`
	TargetSets     int            `json:"targetSets"`
	ActualSets     int            `json:"actualSets"`
	CompletionRate float64        `json:"completionRate"`
	AvgRPEDelta    Maybe[float64] `json:"avgRpeDelta"`
	VolumeDelta    int            `json:"volumeDelta"`
	ReadinessScore Maybe[int]     `json:"readinessScore"`
	SorenessScore  Maybe[int]     `json:"sorenessScore"`
	Notes          string         `json:"notes,omitempty"`
	NotedIssues    []string       `json:"notedIssues"`
	ExerciseStats  []ExerciseStat `json:"exerciseStats"`
}

// ComplianceAggregate summarizes the whole window.
type ComplianceAggregate struct {
	CompletionRate float64        `json:"completionRate"`
	AvgRPEDelta    Maybe[float64] `json:"avgRpeDelta"`
	AvgVolumeDelta float64        `json:"avgVolumeDelta"`
}

// LaggingPattern is an exercise that is under-completed or off its RPE target across the window.
type LaggingPattern struct {
	Exercise       string         `json:"exercise"`
	CompletionRate float64        `json:"completionRate"`
	AvgRPEDelta    Maybe[float64] `json:"avgRpeDelta"`
}

// ComplianceContext feeds BuildCompliancePrompt.
type ComplianceContext struct {
	Profile         Profile             `json:"-"`
	WindowLabel     string              `json:"windowLabel"`
	Aggregate       ComplianceAggregate `json:"aggregate"`
	Sessions        []SessionSummary    `json:"sessions"`
	LaggingPatterns []LaggingPattern    `json:"laggingPatterns"`
}

// BuildComplianceContext reduces sessions (newest first) to the compliance context.
func BuildComplianceContext(profile Profile, records []SessionRecord) (*ComplianceContext, error) {
	if len(records) == 0 {
		return nil, ErrNoTrainingHistory
	}

	summaries := make([]SessionSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, summarizeSession(rec))
	}

	var completionSum, volumeSum float64
	var rpeDeltas []float64
	for _, s := range summaries {
		completionSum += s.CompletionRate
		volumeSum += float64(s.VolumeDelta)
		if d, ok := s.AvgRPEDelta.Get(); ok {
			rpeDeltas = append(rpeDeltas, d)
		}
	}
	n := float64(len(summaries))

	newest := records[0].Session.SessionDate
	oldest := records[len(records)-1].Session.SessionDate

	return &ComplianceContext{
		Profile:     profile,
		WindowLabel: fmt.Sprintf("%s – %s", oldest.Format("Jan 2"), newest.Format("Jan 2")),
		Aggregate: ComplianceAggregate{
			CompletionRate: completionSum / n,
			AvgRPEDelta:    Mean(rpeDeltas),
			AvgVolumeDelta: volumeSum / n,
		},
		Sessions:        summaries,
		LaggingPatterns: laggingPatterns(summaries),
	}, nil
}

type exerciseAccumulator struct {
	stat       ExerciseStat
	rpeSamples []float64
}

func summarizeSession(rec SessionRecord) SessionSummary {
	session := rec.Session

	var prescribed []domain.TemplateDayExercise
	templateName := adHocSessionName
	if rec.Day != nil {
		prescribed = rec.Day.Exercises
		templateName = rec.Day.DayName
	}
	byExerciseID := make(map[primitive.ObjectID]domain.TemplateDayExercise, len(prescribed))
	targetSets := 0
	var targetRPEs []float64
	for _, p := range prescribed {
		byExerciseID[p.ExerciseID] = p
		targetSets += p.PrescribedSets
		if p.TargetRPE != nil {
			targetRPEs = append(targetRPEs, *p.TargetRPE)
		}
	}

	actualSets := len(session.Sets)
	completion := 100.0
	if targetSets > 0 {
		completion = math.Min(1, float64(actualSets)/float64(targetSets)) * 100
	}

	var actualRPEs []float64
	// Keyed by exercise name, kept in first-seen order
	order := []string{}
	stats := map[string]*exerciseAccumulator{}
	for _, set := range session.Sets {
		name := exerciseName(rec, set.ExerciseID)
		acc, seen := stats[name]
		if !seen {
			acc = &exerciseAccumulator{stat: ExerciseStat{Exercise: name}}
			stats[name] = acc
			order = append(order, name)
		}
		acc.stat.ActualSets++
		if set.RPE != nil {
			acc.rpeSamples = append(acc.rpeSamples, *set.RPE)
			actualRPEs = append(actualRPEs, *set.RPE)
		}
		if acc.stat.TargetSets == 0 {
			if p, ok := byExerciseID[set.ExerciseID]; ok {
				acc.stat.TargetSets = p.PrescribedSets
				acc.stat.TargetRPE = FromPtr(p.TargetRPE)
			}
		}
	}
	for _, p := range prescribed {
		name := p.ExerciseName
		if name == "" {
			name = exerciseName(rec, p.ExerciseID)
		}
		if _, seen := stats[name]; seen {
			continue
		}
		stats[name] = &exerciseAccumulator{stat: ExerciseStat{
			Exercise:   name,
			TargetSets: p.PrescribedSets,
			TargetRPE:  FromPtr(p.TargetRPE),
		}}
		order = append(order, name)
	}

	exerciseStats := make([]ExerciseStat, 0, len(order))
	for _, name := range order {
		acc := stats[name]
		acc.stat.AvgRPE = Mean(acc.rpeSamples)
		exerciseStats = append(exerciseStats, acc.stat)
	}

	rpeDelta := None[float64]()
	actualAvg, okActual := Mean(actualRPEs).Get()
	targetAvg, okTarget := Mean(targetRPEs).Get()
	if okActual && okTarget {
		rpeDelta = Some(actualAvg - targetAvg)
	}

	summary := SessionSummary{
		DateLabel:      session.SessionDate.Format("Mon Jan 2"),
		TemplateName:   templateName,
		TargetSets:     targetSets,
		ActualSets:     actualSets,
		CompletionRate: completion,
		AvgRPEDelta:    rpeDelta,
		VolumeDelta:    actualSets - targetSets,
		ReadinessScore: None[int](),
		SorenessScore:  None[int](),
		Notes:          session.Notes,
		NotedIssues:    notedIssues(exerciseStats),
		ExerciseStats:  exerciseStats,
	}
	if rec.CheckIn != nil {
		summary.ReadinessScore = FromPtr(rec.CheckIn.ReadinessScore)
		summary.SorenessScore = FromPtr(rec.CheckIn.SorenessScore)
	}
	return summary
}

func exerciseName(rec SessionRecord, id primitive.ObjectID) string {
	if name, ok := rec.ExerciseNames[id]; ok && name != "" {
		return name
	}
	return unknownExerciseName
}

// notedIssues returns the two worst-completing exercises that fell short of target.
func notedIssues(stats []ExerciseStat) []string {
	var short []ExerciseStat
	for _, s := range stats {
		if s.TargetSets > 0 && s.ActualSets < s.TargetSets {
			short = append(short, s)
		}
	}
	sort.SliceStable(short, func(i, j int) bool {
		return completionRatio(short[i]) < completionRatio(short[j])
	})
	if len(short) > maxNotedIssues {
		short = short[:maxNotedIssues]
	}

	issues := make([]string, 0, len(short))
	for _, s := range short {
		issues = append(issues, fmt.Sprintf("%s %d/%d sets", s.Exercise, s.ActualSets, s.TargetSets))
	}
	return issues
}

func completionRatio(s ExerciseStat) float64 {
	return float64(s.ActualSets) / float64(max(s.TargetSets, 1))
}

type poolEntry struct {
	actual, target int
	rpeDeltas      []float64
}

// laggingPatterns pools prescribed exercises across sessions and keeps those
// under 95% completion or at least 0.5 RPE off target, worst first, at most 5.
func laggingPatterns(sessions []SessionSummary) []LaggingPattern {
	pool := map[string]*poolEntry{}
	for _, s := range sessions {
		for _, stat := range s.ExerciseStats {
			if stat.TargetSets == 0 {
				continue
			}
			entry, ok := pool[stat.Exercise]
			if !ok {
				entry = &poolEntry{}
				pool[stat.Exercise] = entry
			}
			entry.actual += stat.ActualSets
			entry.target += stat.TargetSets
			avg, okAvg := stat.AvgRPE.Get()
			target, okTarget := stat.TargetRPE.Get()
			if okAvg && okTarget {
				entry.rpeDeltas = append(entry.rpeDeltas, avg-target)
			}
		}
	}

	patterns := []LaggingPattern{}
	for name, entry := range pool {
		p := LaggingPattern{
			Exercise:       name,
			CompletionRate: float64(entry.actual) / float64(entry.target) * 100,
			AvgRPEDelta:    Mean(entry.rpeDeltas),
		}
		delta, hasDelta := p.AvgRPEDelta.Get()
		if p.CompletionRate < laggingCompletionThreshold || (hasDelta && math.Abs(delta) >= laggingRPEDeltaThreshold) {
			patterns = append(patterns, p)
		}
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].CompletionRate != patterns[j].CompletionRate {
			return patterns[i].CompletionRate < patterns[j].CompletionRate
		}
		return patterns[i].Exercise < patterns[j].Exercise
	})
	if len(patterns) > maxLaggingPatterns {
		patterns = patterns[:maxLaggingPatterns]
	}
	return patterns
}
