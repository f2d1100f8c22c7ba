package coach

// JSON shapes embedded in prompts so the model mirrors the exact field names.

const programSchemaExample = `{
  "plan_summary": "string",
  "weekly_schedule": [
    {
      "day_name": "Day 1 - Upper",
      "focus": "Upper Body",
      "exercises": [
        {
          "name": "Barbell Bench Press",
          "sets": 4,
          "reps": "6-8",
          "target_rpe": 8,
          "initial_weight_kg": 80,
          "notes": "Explosive concentric"
        }
      ]
    }
  ],
  "progression_strategy": "string",
  "recovery_guidelines": "string"
}`

const adjustmentSchemaExample = `{
  "summary": "Hold squat volume, trim pressing by one set while shoulder settles.",
  "key_changes": ["Bench Press 4 -> 3 sets", "Add 5 min of hip mobility before lower days"],
  "deload_recommended": false,
  "exercise_swaps": [
    {
      "from": "Overhead Press",
      "to": "Landmine Press",
      "reason": "Shoulder irritation noted twice this week"
    }
  ],
  "changes_explanation": "Estimated 1RM rose on squat while RPE stayed flat, so volume holds there."
}`

const complianceSchemaExample = `{
  "training_summary": "Sets completed at 82% with moderate fatigue rise. Lower volume midweek to hit technique work fresh.",
  "issues": ["Missed rear delt work twice", "Lower day RPE drifting +1.2 above target"],
  "set_adjustments": [
    {
      "exercise": "Romanian Deadlift",
      "adjustment": "Reduce to 3 sets this week and reintroduce paused work next block",
      "rationale": "Athlete overshooting RPE +1.5 with hamstring soreness notes",
      "priority": "high"
    }
  ],
  "day_reschedules": [
    {
      "day": "Friday Lower",
      "recommendation": "Slide to Saturday to create 48h recovery after tempo squats"
    }
  ],
  "recovery_notes": "Add 10 minutes of easy cycling after lower days to drive blood flow."
}`

const bodyCompSchemaExample = `{
  "trend": "leaning",
  "weight_summary": "Down 0.6 kg across two weeks while readiness stayed >7.",
  "visual_callouts": ["Waist taper improved vs earliest photo", "Shoulders still hold water on low sleep days"],
  "macro_adjustments": {
    "calorie_delta": -150,
    "protein_g": 190,
    "carbs_g": 240,
    "fats_g": 60
  },
  "next_actions": ["Add post-training shake on lower days", "Keep sodium steady before photo updates"],
  "caution_notes": "If weight drops >1 kg next week re-feed on Sunday."
}`

const weeklyPlanSchemaExample = `{
  "week_label": "Week of Jan 13",
  "coaching_focus": "Hold pressing volume steady, push lower-body density, tighten macros +150 kcal on rest days.",
  "workout_schedule": [
    {
      "day": "Monday - Upper Power",
      "focus": "Bench priority with accessory shoulders",
      "key_lifts": [
        { "name": "Barbell Bench Press", "sets": 5, "reps": "4-6", "target_rpe": 8, "notes": "Add 2-sec pause on first rep" },
        { "name": "Weighted Pull-up", "sets": 4, "reps": "5-6", "target_rpe": 8 }
      ],
      "accessory_focus": "Cable fly cluster, rear delt swings",
      "recovery_focus": "Post-session breathing drills"
    }
  ],
  "meal_plan": [
    {
      "day": "Monday",
      "calories": 2700,
      "macros": { "protein_g": 190, "carbs_g": 300, "fats_g": 70 },
      "recipe_idea": "Turkey pesto pasta + berry yogurt bowl"
    }
  ],
  "accountability_notes": "Send midweek photo if weight drops >0.8kg."
}`
