// Package advice turns raw student attributes into an ordered action plan.
// It never looks at the predicted score, so it still works when the model
// is unavailable.
package advice

import (
	"fmt"

	"github.com/okian/edumetrics/internal/domain/student"
)

// Thresholds used by the default rules.
const (
	MinAttendancePct    = 85.0
	MinWeeklyHours      = 12.0
	MinSleepHours       = 7.0
	TutoringScoreCutoff = 65.0
)

// Rule names of the default table.
const (
	RuleAttendance    = "attendance"
	RuleStudyHours    = "study_hours"
	RuleSleep         = "sleep"
	RuleTutoring      = "tutoring"
	RuleMotivation    = "motivation"
	RuleStrongProfile = "strong_profile"
)

// Item is one actionable diagnostic.
type Item struct {
	Rule  string `json:"rule"`
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Rule pairs a predicate with the item it produces.
type Rule struct {
	Name    string
	Icon    string
	Title   string
	Applies func(student.Record) bool
	Body    func(student.Record) string
}

func (r Rule) item(rec student.Record) Item {
	return Item{Rule: r.Name, Icon: r.Icon, Title: r.Title, Body: r.Body(rec)}
}

// StrongProfile is emitted when no rule fires.
var StrongProfile = Item{
	Rule:  RuleStrongProfile,
	Icon:  "✅",
	Title: "Strong Profile Detected",
	Body:  "Your inputs show a well-balanced academic profile. Consistency is your biggest risk — protect your current habits.",
}

// DefaultRules returns the rule table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    RuleAttendance,
			Icon:    "📅",
			Title:   "Increase Class Attendance",
			Applies: func(r student.Record) bool { return r.AttendancePct < MinAttendancePct },
			Body: func(r student.Record) string {
				return fmt.Sprintf("At %g%%, attendance is below the 85%% threshold. Each missed class compounds into lower retention. Target 90%%+.", r.AttendancePct)
			},
		},
		{
			Name:    RuleStudyHours,
			Icon:    "⏱️",
			Title:   "Add Weekly Study Hours",
			Applies: func(r student.Record) bool { return r.HoursStudied < MinWeeklyHours },
			Body: func(r student.Record) string {
				return fmt.Sprintf("You're studying %gh/week. Research shows 15–20h/week correlates with top-quartile outcomes. Aim to add 3–5h.", r.HoursStudied)
			},
		},
		{
			Name:    RuleSleep,
			Icon:    "🛌",
			Title:   "Optimize Sleep Schedule",
			Applies: func(r student.Record) bool { return r.SleepHours < MinSleepHours },
			Body: func(r student.Record) string {
				return fmt.Sprintf("At %gh/night, cognitive consolidation is impaired. Memory retention peaks above 7.5h. Adjust your routine.", r.SleepHours)
			},
		},
		{
			Name:  RuleTutoring,
			Icon:  "🤝",
			Title: "Start Tutoring Sessions",
			Applies: func(r student.Record) bool {
				return r.PreviousScoreAvg < TutoringScoreCutoff && r.TutoringSessions == 0
			},
			Body: func(r student.Record) string {
				return fmt.Sprintf("With a previous average of %g (below 65) and zero tutoring sessions, targeted support is the highest-leverage intervention available.", r.PreviousScoreAvg)
			},
		},
		{
			Name:    RuleMotivation,
			Icon:    "🔋",
			Title:   "Address Motivation Gap",
			Applies: func(r student.Record) bool { return r.MotivationLevel == student.LevelLow },
			Body: func(student.Record) string {
				return "Low motivation is a leading predictor of dropout behavior. Set weekly micro-goals and track progress visually."
			},
		},
	}
}

// Engine evaluates an ordered rule table.
type Engine struct {
	rules    []Rule
	fallback Item
}

// NewEngine builds an engine over rules, evaluated in the given order.
func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: rules, fallback: StrongProfile}
}

// Generate evaluates every rule against rec. Rules fire independently and
// items keep rule order. When nothing fires the result is the single
// StrongProfile item.
func (e *Engine) Generate(rec student.Record) []Item {
	items := make([]Item, 0, len(e.rules))
	for _, r := range e.rules {
		if r.Applies(rec) {
			items = append(items, r.item(rec))
		}
	}
	if len(items) == 0 {
		items = append(items, e.fallback)
	}
	return items
}

var defaultEngine = NewEngine(DefaultRules())

// Generate runs the default rule table.
func Generate(rec student.Record) []Item {
	return defaultEngine.Generate(rec)
}
