package student

import (
	"fmt"
	"strings"
)

// Draft is user input before it becomes a Record. Every attribute is optional
// here so that absent fields can be told apart from zero values.
type Draft struct {
	HoursStudied          *float64 `json:"hours_studied" yaml:"hours_studied"`
	AttendancePct         *float64 `json:"attendance_pct" yaml:"attendance_pct"`
	PreviousScoreAvg      *float64 `json:"previous_score_avg" yaml:"previous_score_avg"`
	TutoringSessions      *float64 `json:"tutoring_sessions_per_month" yaml:"tutoring_sessions_per_month"`
	SleepHours            *float64 `json:"sleep_hours" yaml:"sleep_hours"`
	PhysicalActivityHours *float64 `json:"physical_activity_hours" yaml:"physical_activity_hours"`

	FamilyIncome        *string `json:"family_income" yaml:"family_income"`
	ParentalInvolvement *string `json:"parental_involvement" yaml:"parental_involvement"`
	TeacherQuality      *string `json:"teacher_quality" yaml:"teacher_quality"`
	MotivationLevel     *string `json:"motivation_level" yaml:"motivation_level"`
	PeerInfluence       *string `json:"peer_influence" yaml:"peer_influence"`

	Extracurricular      *string `json:"extracurricular_activities" yaml:"extracurricular_activities"`
	InternetAccess       *string `json:"internet_access" yaml:"internet_access"`
	LearningDisabilities *string `json:"learning_disabilities" yaml:"learning_disabilities"`

	Gender            *string `json:"gender" yaml:"gender"`
	DistanceFromHome  *string `json:"distance_from_home" yaml:"distance_from_home"`
	ParentalEducation *string `json:"parental_education" yaml:"parental_education"`
	SchoolType        *string `json:"school_type" yaml:"school_type"`
}

// Record converts the draft into a validated Record. Every attribute must be
// present and inside its domain.
func (d Draft) Record() (Record, error) {
	var missing []string
	f := func(name string, p *float64) float64 {
		if p == nil {
			missing = append(missing, name)
			return 0
		}
		return *p
	}
	s := func(name string, p *string) string {
		if p == nil {
			missing = append(missing, name)
			return ""
		}
		return strings.TrimSpace(*p)
	}

	r := Record{
		HoursStudied:          f("hours_studied", d.HoursStudied),
		AttendancePct:         f("attendance_pct", d.AttendancePct),
		PreviousScoreAvg:      f("previous_score_avg", d.PreviousScoreAvg),
		TutoringSessions:      f("tutoring_sessions_per_month", d.TutoringSessions),
		SleepHours:            f("sleep_hours", d.SleepHours),
		PhysicalActivityHours: f("physical_activity_hours", d.PhysicalActivityHours),
		FamilyIncome:          Level(s("family_income", d.FamilyIncome)),
		ParentalInvolvement:   Level(s("parental_involvement", d.ParentalInvolvement)),
		TeacherQuality:        Level(s("teacher_quality", d.TeacherQuality)),
		MotivationLevel:       Level(s("motivation_level", d.MotivationLevel)),
		PeerInfluence:         Influence(s("peer_influence", d.PeerInfluence)),
		Extracurricular:       YesNo(s("extracurricular_activities", d.Extracurricular)),
		InternetAccess:        YesNo(s("internet_access", d.InternetAccess)),
		LearningDisabilities:  YesNo(s("learning_disabilities", d.LearningDisabilities)),
		Gender:                Gender(s("gender", d.Gender)),
		DistanceFromHome:      Distance(s("distance_from_home", d.DistanceFromHome)),
		ParentalEducation:     Education(s("parental_education", d.ParentalEducation)),
		SchoolType:            SchoolType(s("school_type", d.SchoolType)),
	}
	if len(missing) > 0 {
		return Record{}, fmt.Errorf("%w: missing %s", ErrInvalidRecord, strings.Join(missing, ", "))
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}
