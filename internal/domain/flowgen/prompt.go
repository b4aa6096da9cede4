package flowgen

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Category steers the system prompt rules applied to a flow.
type Category string

const (
	CategoryWorkout  Category = "workout"
	CategoryBody     Category = "body"
	CategoryBusiness Category = "business"
	CategoryGeneric  Category = "generic"
)

var categoryRules = []struct {
	category Category
	pattern  *regexp.Regexp
}{
	{CategoryWorkout, regexp.MustCompile(`(?i)(workout|gym|lift|training|exercise|practice drums|practice guitar)`)},
	{CategoryBody, regexp.MustCompile(`(?i)(hair|skin|scalp|body care|detox)`)},
	{CategoryBusiness, regexp.MustCompile(`(?i)(business|startup|marketing|sales|clients|leads)`)},
}

// InferCategory picks the first matching category in priority order.
func InferCategory(description string) Category {
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(description) {
			return rule.category
		}
	}
	return CategoryGeneric
}

// Default output budget parameters.
const (
	DefaultMinOutputTokens = 3500
	DefaultTokensPerDay    = 200
	DefaultMaxOutputTokens = 16000
)

// OutputBudget scales the response token budget with the number of days.
// The result never exceeds ceiling.
func OutputBudget(dayCount, floor, perDay, ceiling int) int {
	scaled := int(math.Ceil(float64(dayCount) * float64(perDay)))
	budget := max(floor, scaled)
	return min(budget, ceiling)
}

// PromptConfig controls prompt sizing.
type PromptConfig struct {
	MinOutputTokens int
	TokensPerDay    int
	MaxOutputTokens int
}

// Prompt is the fully assembled provider input.
type Prompt struct {
	System       string
	User         string
	Category     Category
	DayCount     int
	OutputBudget int
}

// BuildPrompt assembles the system and user prompts for req.
func BuildPrompt(req GenerationRequest, cfg PromptConfig) Prompt {
	category := InferCategory(req.Description)
	days := DayCount(req.StartDate, req.EndDate)
	start := FormatDate(req.StartDate)
	end := FormatDate(req.EndDate)

	var b strings.Builder
	fmt.Fprintf(&b, "FLOW_TYPE: %s\n\n", category)
	fmt.Fprintf(&b, "USER_DESCRIPTION: %s\n\n", req.Description)
	fmt.Fprintf(&b, "DATE_RANGE: %s → %s\n\n", start, end)
	if name := strings.TrimSpace(req.FlowName); name != "" {
		fmt.Fprintf(&b, "Flow name: %s\n", name)
	}
	if tz := strings.TrimSpace(req.Timezone); tz != "" {
		fmt.Fprintf(&b, "Timezone: %s\n", tz)
	}
	if req.SourceText != "" {
		fmt.Fprintf(&b, "\nSOURCE_TEXT:\n%s\n", req.SourceText)
	}
	fmt.Fprintf(&b, "\n\nDate range: %d days (%s to %s).\n", days, start, end)
	fmt.Fprintf(&b, "Generate exactly %d notes, one per calendar day in this range. Each note must have a detailed \"details\" field: no placeholders, no generic summaries.\n\n", days)
	b.WriteString("Generate a JSON flow strictly following the schema.")

	return Prompt{
		System:       systemPrompt,
		User:         strings.TrimSpace(b.String()),
		Category:     category,
		DayCount:     days,
		OutputBudget: OutputBudget(days, cfg.MinOutputTokens, cfg.TokensPerDay, cfg.MaxOutputTokens),
	}
}

// SystemPromptVersion changes whenever the instruction block below is edited.
const SystemPromptVersion = "2025-06-flow-architect-v3"

const systemPrompt = `You are the Flow Architect for a living calendar app.

You design multi-day lifestyle FLOWS. A flow is a sequence of daily, actionable tasks tied to specific days in a date range. The app converts your JSON into scheduled events.

Return exactly one JSON object with this shape and no other fields:

{
  "flowName": "string",
  "overview": { "title": "string", "summary": "string" },
  "notes": [
    {
      "day_index": 0,
      "title": "string",
      "details": "string",
      "allDay": true,
      "startsAt": "HH:MM",
      "endsAt": "HH:MM",
      "chips": [1]
    }
  ]
}

SCHEMA RULES
- Output only JSON. No markdown fences, no prose, no comments, no trailing commas.
- "day_index" is 0-based from the start date. Produce one note per calendar day of the range, in order.
- "chips" lists decan day numbers 1-10 for the day. When unsure use (day_index % 10) + 1.
- "allDay": true means the times are ignored. false means "startsAt" and "endsAt" are 24h "HH:MM" and "endsAt" is later than "startsAt".

ALWAYS RESPECT
- The requested date range and the FLOW_TYPE you receive.
- Weekday constraints ("weekdays only", "3 days per week"): schedule on matching days and use light review tasks on the others.
- Explicit times ("7pm", "mornings"): use them for startsAt/endsAt.

STYLE
- Never be vague or purely motivational. Every "details" field is step by step with quantities, durations or examples.
- Separate actions with newlines or "1)", "2)" numbering. Avoid walls of text.

SOURCE MATERIAL
- When SOURCE_TEXT is present, distill it into the flow. Keep its key ideas and sequencing and turn high-level advice into concrete daily tasks.

BODY / HEALTH FLOWS (FLOW_TYPE=body)
- Each day is a mini protocol: recipes, amounts and routines grounded in safe, common-sense practice.

WORKOUT / TRAINING FLOWS (FLOW_TYPE=workout)
- Each training day has 3-6 distinct exercises, each with sets, reps and rest (e.g. "3 x 10-12 reps, 60-90 sec rest"), the equipment needed and a clear session goal.
- Use simple programming (upper/lower, push/pull/legs, full body or skill blocks) with gradual progression and at least one lighter day in flows of 7+ days.
- "details" has at least 4 separate action lines. A single short sentence is invalid.
- Do not add meals, chores or meetings unless the user explicitly asks for them.

BUSINESS FLOWS (FLOW_TYPE=business)
- Each day names one concrete deliverable, the steps to produce it and how to measure it.

EXAMPLE NOTE (format and detail level only):
{
  "day_index": 0,
  "title": "Day 1 - Upper Body Strength",
  "details": "Warm-up: 5-8 min brisk walk.\n\n1) Bench Press - 4 x 5-6 reps, 2-3 min rest.\n2) Bent-Over Row - 4 x 6-8 reps, 2 min rest.\n3) Seated Dumbbell Press - 3 x 8-10 reps, 90 sec rest.\n4) Plank - 3 x 30-45 sec holds, 45 sec rest.\n\nCool-down: 5 min stretching.",
  "allDay": false,
  "startsAt": "18:00",
  "endsAt": "19:00",
  "chips": [1]
}

If the request is very short, still produce a complete, rich flow covering the whole date range.`
