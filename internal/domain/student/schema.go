package student

import (
	"fmt"
	"math"
	"slices"
)

// Training column names. Order and spelling must match the model artifact.
const (
	FieldHoursStudied         = "Hours_Studied"
	FieldAttendance           = "Attendance"
	FieldParentalInvolvement  = "Parental_Involvement"
	FieldAccessToResources    = "Access_to_Resources"
	FieldExtracurricular      = "Extracurricular_Activities"
	FieldSleepHours           = "Sleep_Hours"
	FieldPreviousScores       = "Previous_Scores"
	FieldMotivationLevel      = "Motivation_Level"
	FieldInternetAccess       = "Internet_Access"
	FieldTutoringSessions     = "Tutoring_Sessions"
	FieldFamilyIncome         = "Family_Income"
	FieldTeacherQuality       = "Teacher_Quality"
	FieldSchoolType           = "School_Type"
	FieldPeerInfluence        = "Peer_Influence"
	FieldPhysicalActivity     = "Physical_Activity"
	FieldLearningDisabilities = "Learning_Disabilities"
	FieldParentalEducation    = "Parental_Education_Level"
	FieldDistanceFromHome     = "Distance_from_Home"
	FieldGender               = "Gender"
)

// Kind tells whether a field carries a number or a category.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Field describes one column of the training schema.
type Field struct {
	Name       string   `json:"name"`
	Kind       Kind     `json:"kind"`
	Min        float64  `json:"min,omitempty"`
	Max        float64  `json:"max,omitempty"`
	Categories []string `json:"categories,omitempty"`
	// Fixed marks a column the user cannot edit.
	Fixed bool `json:"fixed,omitempty"`
}

var (
	levels     = []string{string(LevelLow), string(LevelMedium), string(LevelHigh)}
	influences = []string{string(InfluenceNegative), string(InfluenceNeutral), string(InfluencePositive)}
	yesNo      = []string{string(No), string(Yes)}
)

var schema = []Field{
	{Name: FieldHoursStudied, Kind: KindNumeric, Min: 0, Max: 40},
	{Name: FieldAttendance, Kind: KindNumeric, Min: 0, Max: 100},
	{Name: FieldParentalInvolvement, Kind: KindCategorical, Categories: levels},
	{Name: FieldAccessToResources, Kind: KindCategorical, Categories: []string{string(AccessToResources)}, Fixed: true},
	{Name: FieldExtracurricular, Kind: KindCategorical, Categories: yesNo},
	{Name: FieldSleepHours, Kind: KindNumeric, Min: 4, Max: 12},
	{Name: FieldPreviousScores, Kind: KindNumeric, Min: 0, Max: 100},
	{Name: FieldMotivationLevel, Kind: KindCategorical, Categories: levels},
	{Name: FieldInternetAccess, Kind: KindCategorical, Categories: yesNo},
	{Name: FieldTutoringSessions, Kind: KindNumeric, Min: 0, Max: 10},
	{Name: FieldFamilyIncome, Kind: KindCategorical, Categories: levels},
	{Name: FieldTeacherQuality, Kind: KindCategorical, Categories: levels},
	{Name: FieldSchoolType, Kind: KindCategorical, Categories: []string{string(SchoolPublic), string(SchoolPrivate)}},
	{Name: FieldPeerInfluence, Kind: KindCategorical, Categories: influences},
	{Name: FieldPhysicalActivity, Kind: KindNumeric, Min: 0, Max: 20},
	{Name: FieldLearningDisabilities, Kind: KindCategorical, Categories: yesNo},
	{Name: FieldParentalEducation, Kind: KindCategorical, Categories: []string{
		string(EducationHighSchool), string(EducationCollege), string(EducationPostgraduate),
	}},
	{Name: FieldDistanceFromHome, Kind: KindCategorical, Categories: []string{
		string(DistanceNear), string(DistanceModerate), string(DistanceFar),
	}},
	{Name: FieldGender, Kind: KindCategorical, Categories: []string{string(GenderFemale), string(GenderMale)}},
}

// Schema returns a copy of the training schema in column order.
func Schema() []Field {
	out := make([]Field, len(schema))
	for i, f := range schema {
		f.Categories = slices.Clone(f.Categories)
		out[i] = f
	}
	return out
}

// FieldNames returns the training column names in order.
func FieldNames() []string {
	names := make([]string, len(schema))
	for i, f := range schema {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a schema field by its training column name.
func Lookup(name string) (Field, bool) {
	for _, f := range schema {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (f Field) check(v Value) error {
	if v.Kind != f.Kind {
		return fmt.Errorf("%w: %s: expected %s value", ErrInvalidRecord, f.Name, f.Kind)
	}
	switch f.Kind {
	case KindNumeric:
		if math.IsNaN(v.Number) || v.Number < f.Min || v.Number > f.Max {
			return fmt.Errorf("%w: %s=%v outside [%v,%v]", ErrInvalidRecord, f.Name, v.Number, f.Min, f.Max)
		}
	case KindCategorical:
		if !slices.Contains(f.Categories, v.Category) {
			return fmt.Errorf("%w: %s=%q not one of %v", ErrInvalidRecord, f.Name, v.Category, f.Categories)
		}
	}
	return nil
}
