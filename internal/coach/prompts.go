package coach

import (
	"fmt"
	"strings"
)

const jsonOnly = "Respond ONLY with JSON matching this schema. No prose, no markdown, no code fences."

// BaselineLift is the best recorded set of one exercise.
type BaselineLift struct {
	Name    string
	BestSet string
}

// ProgramContext feeds BuildInitialProgramPrompt.
type ProgramContext struct {
	Profile       Profile
	BaselineLifts []BaselineLift
	Constraints   []string
}

// AdjustmentContext feeds BuildAdjustmentPrompt.
type AdjustmentContext struct {
	Profile     Profile
	CurrentPlan string
	RecentStats []WeekStat // Newest first
	Issues      []string
	Constraints []string
}

// WeeklyPlanContext carries both analyses into the weekly plan prompt.
type WeeklyPlanContext struct {
	Profile    Profile
	WeekLabel  string
	Compliance ComplianceReport
	BodyComp   BodyCompInsight
}

func writeSchema(b *strings.Builder, intro, example string) {
	fmt.Fprintf(b, "%s\n%s\n%s\n", intro, jsonOnly, example)
}

func writeList(b *strings.Builder, title string, items []string, empty string) {
	fmt.Fprintf(b, "\n%s:\n", title)
	if len(items) == 0 {
		fmt.Fprintf(b, "- %s\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func writeGuidelines(b *strings.Builder, guidelines ...string) {
	b.WriteString("\nGuidelines:\n")
	for i, g := range guidelines {
		fmt.Fprintf(b, "%d. %s\n", i+1, g)
	}
}

func writeProfile(b *strings.Builder, p Profile) {
	b.WriteString("\nClient profile:\n")
	fmt.Fprintf(b, "- Name: %s\n", orNA(p.Name))
	fmt.Fprintf(b, "- Age/Sex: %s / %s\n", formatIntPtr(p.Age), orNA(p.Sex))
	fmt.Fprintf(b, "- Bodyweight: %s kg\n", formatFloatPtr(p.BodyweightKg))
	fmt.Fprintf(b, "- Experience: %s\n", orNA(p.ExperienceLevel))
	fmt.Fprintf(b, "- Equipment: %s\n", orNA(p.EquipmentProfile))
	fmt.Fprintf(b, "- Goal focus: %s\n", orNA(p.GoalFocus))
	fmt.Fprintf(b, "- Schedule: %s sessions/week at %s minutes each\n",
		formatIntPtr(p.WorkoutsPerWeek), formatIntPtr(p.MinutesPerSession))
}

func goalLines(p Profile) []string {
	lines := make([]string, 0, len(p.Goals))
	for _, g := range p.Goals {
		by := "flexible"
		if g.TargetDate != nil {
			by = g.TargetDate.Format("2006-01-02")
		}
		lines = append(lines, fmt.Sprintf("%s: %s => %s by %s", orNA(g.Type), orNA(g.TargetMetric), formatFloatPtr(g.TargetValue), by))
	}
	return lines
}

// BuildInitialProgramPrompt asks for a first training block from the profile alone.
func BuildInitialProgramPrompt(ctx ProgramContext) string {
	var b strings.Builder
	writeSchema(&b, "You are LiftBrain, an elite strength coach for recreational lifters.", programSchemaExample)
	writeProfile(&b, ctx.Profile)
	writeList(&b, "Goals", goalLines(ctx.Profile), "None set")

	lifts := make([]string, 0, len(ctx.BaselineLifts))
	for _, l := range ctx.BaselineLifts {
		lifts = append(lifts, fmt.Sprintf("%s: %s", l.Name, l.BestSet))
	}
	writeList(&b, "Baseline lifts", lifts, "No baseline data")
	writeList(&b, "Constraints", ctx.Constraints, "None reported")

	writeGuidelines(&b,
		"Keep total weekly hard sets between 10 and 16 per main muscle group unless the goal requires otherwise.",
		"Favor compound movements first, then accessories.",
		"Respect equipment limitations.",
		"Provide sensible starting loads or RPE-based guidance (target_rpe 5-9).",
		"Explain the plan in plan_summary and the progression in progression_strategy.",
		"Emphasize recovery recommendations in recovery_guidelines.",
	)
	b.WriteString("Remember: JSON only.")
	return b.String()
}

// BuildAdjustmentPrompt asks for changes to the current plan given recent weeks.
func BuildAdjustmentPrompt(ctx AdjustmentContext) string {
	var b strings.Builder
	writeSchema(&b, "You are LiftBrain, an elite strength coach.", adjustmentSchemaExample)
	writeProfile(&b, ctx.Profile)

	fmt.Fprintf(&b, "\nCurrent plan summary:\n%s\n", orNA(ctx.CurrentPlan))

	weeks := make([]string, 0, len(ctx.RecentStats))
	for _, w := range ctx.RecentStats {
		deltas := make([]string, 0, len(w.OneRMChanges))
		for _, d := range w.OneRMChanges {
			deltas = append(deltas, fmt.Sprintf("%s %skg", d.Lift, formatSigned(Some(d.Delta))))
		}
		deltaText := notAvailable
		if len(deltas) > 0 {
			deltaText = strings.Join(deltas, ", ")
		}
		weeks = append(weeks, fmt.Sprintf("Week %s: %d sessions, %d hard sets, avg RPE %s. 1RM deltas: %s",
			w.WeekLabel, w.SessionsCompleted, w.TotalSets, formatMaybe(w.AvgRPE), deltaText))
	}
	writeList(&b, "Recent training (latest first)", weeks, "No sessions logged")
	writeList(&b, "Issues/notable notes", ctx.Issues, "None reported")
	writeList(&b, "Constraints", ctx.Constraints, "None")

	writeGuidelines(&b,
		"Keep load/progression jumps <=10% unless recommending a deload.",
		"Flag deload weeks explicitly with deload_recommended.",
		"Suggest exercise swaps only if justified.",
		"Provide the rationale in changes_explanation.",
	)
	b.WriteString("Remember: JSON only.")
	return b.String()
}

// BuildCompliancePrompt asks for a review of prescribed versus performed work.
func BuildCompliancePrompt(ctx *ComplianceContext) string {
	var b strings.Builder
	writeSchema(&b, "You are LiftBrain, an elite strength coach reviewing how closely a lifter followed the plan.", complianceSchemaExample)
	writeProfile(&b, ctx.Profile)

	fmt.Fprintf(&b, "\nWindow: %s (%d sessions)\n", ctx.WindowLabel, len(ctx.Sessions))
	b.WriteString("\nAggregate:\n")
	fmt.Fprintf(&b, "- Completion rate: %s%%\n", formatDecimal(ctx.Aggregate.CompletionRate))
	fmt.Fprintf(&b, "- Avg RPE delta vs target: %s\n", formatSigned(ctx.Aggregate.AvgRPEDelta))
	fmt.Fprintf(&b, "- Avg volume delta: %s sets\n", formatSigned(Some(ctx.Aggregate.AvgVolumeDelta)))

	b.WriteString("\nSessions (latest first):\n")
	for _, s := range ctx.Sessions {
		issues := notAvailable
		if len(s.NotedIssues) > 0 {
			issues = strings.Join(s.NotedIssues, "; ")
		}
		fmt.Fprintf(&b, "- %s | %s | completion %s%% (%d/%d sets) | RPE delta %s | volume delta %+d | readiness %s | soreness %s | issues: %s | notes: %s\n",
			s.DateLabel, s.TemplateName, formatDecimal(s.CompletionRate), s.ActualSets, s.TargetSets,
			formatSigned(s.AvgRPEDelta), s.VolumeDelta,
			formatMaybeInt(s.ReadinessScore), formatMaybeInt(s.SorenessScore),
			issues, orNA(oneLine(s.Notes)))
	}

	patterns := make([]string, 0, len(ctx.LaggingPatterns))
	for _, p := range ctx.LaggingPatterns {
		patterns = append(patterns, fmt.Sprintf("%s: completion %s%%, RPE delta %s",
			p.Exercise, formatDecimal(p.CompletionRate), formatSigned(p.AvgRPEDelta)))
	}
	writeList(&b, "Lagging patterns", patterns, "None detected")

	writeGuidelines(&b,
		"Reference concrete exercises and sessions from the data above.",
		"List at most 6 issues, 6 set adjustments and 4 day reschedules.",
		"Prefer trimming sets over adding them when RPE runs above target.",
		"Only reschedule a day when readiness or soreness data supports it.",
		"Set priority to low, medium or high on each adjustment.",
	)
	b.WriteString("Remember: JSON only.")
	return b.String()
}

// BuildBodyCompPrompt asks for a body-composition read from recent check-ins.
func BuildBodyCompPrompt(ctx *BodyCompContext) string {
	var b strings.Builder
	writeSchema(&b, "You are LiftBrain, an elite strength and nutrition coach evaluating body-composition progress.", bodyCompSchemaExample)
	writeProfile(&b, ctx.Profile)

	weights := make([]string, 0, len(ctx.WeightSeries))
	for _, w := range ctx.WeightSeries {
		weights = append(weights, fmt.Sprintf("%s: %s kg", w.DateLabel, formatDecimal(w.WeightKg)))
	}
	writeList(&b, "Weight trend (oldest first)", weights, "No weigh-ins")

	b.WriteString("\nCheck-in averages (1-10):\n")
	fmt.Fprintf(&b, "- Readiness: %s\n", formatMaybe(ctx.ReadinessAvg))
	fmt.Fprintf(&b, "- Appetite: %s\n", formatMaybe(ctx.AppetiteAvg))
	fmt.Fprintf(&b, "- Soreness: %s\n", formatMaybe(ctx.SorenessAvg))

	notes := make([]string, 0, len(ctx.Notes))
	for _, n := range ctx.Notes {
		notes = append(notes, oneLine(n))
	}
	writeList(&b, "Check-in notes (latest first)", notes, "None")
	writeList(&b, "Progress photos (latest first)", ctx.PhotoURLs, "None")

	writeGuidelines(&b,
		"Classify trend as leaning, stable or gaining.",
		"Keep calorie_delta within +/-300 kcal of current intake.",
		"Keep protein between 1.6 and 2.4 g per kg bodyweight.",
		"Only add visual_callouts when photos are listed above.",
		"Add caution_notes when weight moves more than 1% per week.",
	)
	b.WriteString("Remember: JSON only.")
	return b.String()
}

// BuildWeeklyPlanPrompt asks for next week's training and meals from both analyses.
func BuildWeeklyPlanPrompt(ctx WeeklyPlanContext) string {
	var b strings.Builder
	writeSchema(&b, "You are LiftBrain, an elite strength and nutrition coach writing next week's plan.", weeklyPlanSchemaExample)
	writeProfile(&b, ctx.Profile)
	fmt.Fprintf(&b, "\nTarget week: %s\n", orNA(ctx.WeekLabel))

	c := ctx.Compliance
	b.WriteString("\nCompliance review:\n")
	fmt.Fprintf(&b, "- Summary: %s\n", orNA(c.TrainingSummary))
	fmt.Fprintf(&b, "- Recovery notes: %s\n", orNA(c.RecoveryNotes))
	writeList(&b, "Compliance issues", c.Issues, "None")
	adjustments := make([]string, 0, len(c.SetAdjustments))
	for _, a := range c.SetAdjustments {
		adjustments = append(adjustments, fmt.Sprintf("%s: %s (%s)", a.Exercise, a.Adjustment, orNA(a.Rationale)))
	}
	writeList(&b, "Set adjustments", adjustments, "None")
	reschedules := make([]string, 0, len(c.DayReschedules))
	for _, r := range c.DayReschedules {
		reschedules = append(reschedules, fmt.Sprintf("%s: %s", r.Day, r.Recommendation))
	}
	writeList(&b, "Day reschedules", reschedules, "None")

	bc := ctx.BodyComp
	m := bc.MacroAdjustments
	b.WriteString("\nBody-composition insight:\n")
	fmt.Fprintf(&b, "- Trend: %s\n", orNA(bc.Trend))
	fmt.Fprintf(&b, "- Weight summary: %s\n", orNA(bc.WeightSummary))
	fmt.Fprintf(&b, "- Macros: Calories %+d vs current; Protein %dg / Carbs %dg / Fats %dg\n", m.CalorieDelta, m.ProteinG, m.CarbsG, m.FatsG)
	fmt.Fprintf(&b, "- Caution: %s\n", orNA(bc.CautionNotes))
	writeList(&b, "Next actions", bc.NextActions, "None")

	writeGuidelines(&b,
		"Schedule the client's sessions per week, never fewer than 3 days; start each day label with the weekday name (e.g. \"Monday - Upper\").",
		"Fit each session inside the client's minutes per session.",
		"Apply the compliance set adjustments and reschedules.",
		"Keep load jumps <=10% and flag a deload in coaching_focus when fatigue is high.",
		"Provide at least 3 meal days whose calories and macros follow the body-composition insight.",
		"Use target_rpe between 5 and 10.",
	)
	b.WriteString("Remember: JSON only.")
	return b.String()
}

func formatMaybeInt(m Maybe[int]) string {
	if v, ok := m.Get(); ok {
		return fmt.Sprintf("%d", v)
	}
	return notAvailable
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
