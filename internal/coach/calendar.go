package coach

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const calendarProductID = "-//LiftBrain//EN"

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DayOffset places a schedule day inside the week starting at weekStart. A
// leading weekday token picks that weekday; anything else keeps its position.
func DayOffset(day string, position int, weekStart time.Time) int {
	token := ""
	if fields := strings.Fields(day); len(fields) > 0 {
		token = strings.ToLower(strings.TrimRight(fields[0], ",:-"))
	}
	weekday, ok := weekdayByName[token]
	if !ok {
		return position
	}
	return (int(weekday) - int(weekStart.Weekday()) + 7) % 7
}

// BuildPlanCalendar renders one all-day event per scheduled day. The output
// depends only on its inputs: UIDs hash the week and day, DTSTAMP is weekOf.
func BuildPlanCalendar(plan *WeeklyPlan, weekOf time.Time) string {
	weekStart := time.Date(weekOf.Year(), weekOf.Month(), weekOf.Day(), 0, 0, 0, 0, time.UTC)

	cal := ics.NewCalendarFor("LiftBrain")
	cal.SetProductId(calendarProductID)
	cal.SetMethod(ics.MethodPublish)

	for i, day := range plan.WorkoutSchedule {
		date := weekStart.AddDate(0, 0, DayOffset(day.Day, i, weekStart))

		event := cal.AddEvent(eventUID(weekStart, i, day.Day))
		event.SetDtStampTime(weekStart)
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))

		summary := day.Day
		if day.Focus != "" {
			summary = fmt.Sprintf("%s – %s", day.Day, day.Focus)
		}
		event.SetSummary(oneLine(summary))

		lifts := make([]string, 0, len(day.KeyLifts))
		for _, lift := range day.KeyLifts {
			lifts = append(lifts, fmt.Sprintf("%s %dx%s", lift.Name, lift.Sets, lift.Reps))
		}
		if description := strings.Join(lifts, " | "); description != "" {
			event.SetDescription(collapseNewlines(description))
		}
	}

	return cal.Serialize(ics.WithNewLineWindows)
}

func eventUID(weekStart time.Time, index int, day string) string {
	name := fmt.Sprintf("%s/%d/%s", weekStart.Format("20060102"), index, day)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String() + "@liftbrain"
}

func collapseNewlines(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
