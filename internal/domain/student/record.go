// Package student defines the feature record a forecast is computed from.
package student

import "fmt"

// Level is the Low/Medium/High ordinal used by several attributes.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Influence describes how peers affect study habits.
type Influence string

const (
	InfluenceNegative Influence = "Negative"
	InfluenceNeutral  Influence = "Neutral"
	InfluencePositive Influence = "Positive"
)

// YesNo is a boolean answer encoded the way the training data spells it.
type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// Gender values seen at training time.
type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

// Distance from home to school.
type Distance string

const (
	DistanceNear     Distance = "Near"
	DistanceModerate Distance = "Moderate"
	DistanceFar      Distance = "Far"
)

// Education is the highest parental education level.
type Education string

const (
	EducationHighSchool   Education = "High School"
	EducationCollege      Education = "College"
	EducationPostgraduate Education = "Postgraduate"
)

// SchoolType distinguishes public and private schools.
type SchoolType string

const (
	SchoolPublic  SchoolType = "Public"
	SchoolPrivate SchoolType = "Private"
)

// AccessToResources is fixed for every record; users cannot edit it.
const AccessToResources = LevelMedium

// Record is one prediction request. It is passed by value and has no setters,
// so a built record never changes underneath the pipeline.
type Record struct {
	HoursStudied          float64 `json:"hours_studied"`
	AttendancePct         float64 `json:"attendance_pct"`
	PreviousScoreAvg      float64 `json:"previous_score_avg"`
	TutoringSessions      float64 `json:"tutoring_sessions_per_month"`
	SleepHours            float64 `json:"sleep_hours"`
	PhysicalActivityHours float64 `json:"physical_activity_hours"`

	FamilyIncome        Level     `json:"family_income"`
	ParentalInvolvement Level     `json:"parental_involvement"`
	TeacherQuality      Level     `json:"teacher_quality"`
	MotivationLevel     Level     `json:"motivation_level"`
	PeerInfluence       Influence `json:"peer_influence"`

	Extracurricular      YesNo `json:"extracurricular_activities"`
	InternetAccess       YesNo `json:"internet_access"`
	LearningDisabilities YesNo `json:"learning_disabilities"`

	Gender            Gender     `json:"gender"`
	DistanceFromHome  Distance   `json:"distance_from_home"`
	ParentalEducation Education  `json:"parental_education"`
	SchoolType        SchoolType `json:"school_type"`
}

// Value is a single record attribute addressed by its training column name.
// Exactly one of Number or Category is meaningful, depending on Kind.
type Value struct {
	Name     string
	Kind     Kind
	Number   float64
	Category string
}

// Values returns the record's attributes in training column order, including
// the fixed Access_to_Resources column.
func (r Record) Values() []Value {
	return []Value{
		num(FieldHoursStudied, r.HoursStudied),
		num(FieldAttendance, r.AttendancePct),
		cat(FieldParentalInvolvement, string(r.ParentalInvolvement)),
		cat(FieldAccessToResources, string(AccessToResources)),
		cat(FieldExtracurricular, string(r.Extracurricular)),
		num(FieldSleepHours, r.SleepHours),
		num(FieldPreviousScores, r.PreviousScoreAvg),
		cat(FieldMotivationLevel, string(r.MotivationLevel)),
		cat(FieldInternetAccess, string(r.InternetAccess)),
		num(FieldTutoringSessions, r.TutoringSessions),
		cat(FieldFamilyIncome, string(r.FamilyIncome)),
		cat(FieldTeacherQuality, string(r.TeacherQuality)),
		cat(FieldSchoolType, string(r.SchoolType)),
		cat(FieldPeerInfluence, string(r.PeerInfluence)),
		num(FieldPhysicalActivity, r.PhysicalActivityHours),
		cat(FieldLearningDisabilities, string(r.LearningDisabilities)),
		cat(FieldParentalEducation, string(r.ParentalEducation)),
		cat(FieldDistanceFromHome, string(r.DistanceFromHome)),
		cat(FieldGender, string(r.Gender)),
	}
}

// Validate reports the first attribute that is outside its declared domain.
func (r Record) Validate() error {
	for _, v := range r.Values() {
		f, ok := Lookup(v.Name)
		if !ok {
			return fmt.Errorf("%w: unknown field %s", ErrInvalidRecord, v.Name)
		}
		if err := f.check(v); err != nil {
			return err
		}
	}
	return nil
}

func num(name string, v float64) Value {
	return Value{Name: name, Kind: KindNumeric, Number: v}
}

func cat(name, v string) Value {
	return Value{Name: name, Kind: KindCategorical, Category: v}
}
