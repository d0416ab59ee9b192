package advice_test

import (
	"testing"

	"github.com/okian/edumetrics/internal/domain/advice"
	"github.com/okian/edumetrics/internal/domain/student"
	. "github.com/smartystreets/goconvey/convey"
)

// strongRecord fires no rule.
func strongRecord() student.Record {
	return student.Record{
		HoursStudied:          20,
		AttendancePct:         95,
		PreviousScoreAvg:      80,
		TutoringSessions:      1,
		SleepHours:            8,
		PhysicalActivityHours: 3,
		FamilyIncome:          student.LevelMedium,
		ParentalInvolvement:   student.LevelMedium,
		TeacherQuality:        student.LevelMedium,
		MotivationLevel:       student.LevelMedium,
		PeerInfluence:         student.InfluenceNeutral,
		Extracurricular:       student.Yes,
		InternetAccess:        student.Yes,
		LearningDisabilities:  student.No,
		Gender:                student.GenderMale,
		DistanceFromHome:      student.DistanceNear,
		ParentalEducation:     student.EducationCollege,
		SchoolType:            student.SchoolPublic,
	}
}

func titles(items []advice.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestGenerate(t *testing.T) {
	Convey("Given the default advice rules", t, func() {
		Convey("When no rule fires", func() {
			items := advice.Generate(strongRecord())

			Convey("Then exactly the strong profile item is returned", func() {
				So(len(items), ShouldEqual, 1)
				So(items[0].Title, ShouldEqual, "Strong Profile Detected")
				So(items[0], ShouldResemble, advice.StrongProfile)
			})
		})

		Convey("When attendance and study hours are both low", func() {
			r := strongRecord()
			r.AttendancePct = 70
			r.HoursStudied = 5
			items := advice.Generate(r)

			Convey("Then both rules fire in declaration order", func() {
				So(titles(items), ShouldResemble, []string{"Increase Class Attendance", "Add Weekly Study Hours"})
			})

			Convey("And bodies interpolate the triggering values", func() {
				So(items[0].Body, ShouldStartWith, "At 70%, attendance is below the 85% threshold.")
				So(items[1].Body, ShouldStartWith, "You're studying 5h/week.")
			})
		})

		Convey("When every rule fires", func() {
			r := strongRecord()
			r.AttendancePct = 60
			r.HoursStudied = 4
			r.SleepHours = 5.5
			r.PreviousScoreAvg = 50
			r.TutoringSessions = 0
			r.MotivationLevel = student.LevelLow
			items := advice.Generate(r)

			Convey("Then items follow rule order, not severity", func() {
				So(titles(items), ShouldResemble, []string{
					"Increase Class Attendance",
					"Add Weekly Study Hours",
					"Optimize Sleep Schedule",
					"Start Tutoring Sessions",
					"Address Motivation Gap",
				})
				So(items[2].Body, ShouldContainSubstring, "5.5h/night")
			})

			Convey("And the fallback is absent", func() {
				for _, it := range items {
					So(it.Rule, ShouldNotEqual, advice.StrongProfile.Rule)
				}
			})
		})

		Convey("When thresholds are met exactly", func() {
			r := strongRecord()
			r.AttendancePct = 85
			r.HoursStudied = 12
			r.SleepHours = 7
			r.PreviousScoreAvg = 65
			r.TutoringSessions = 0

			Convey("Then no rule fires", func() {
				So(titles(advice.Generate(r)), ShouldResemble, []string{"Strong Profile Detected"})
			})
		})

		Convey("When previous scores are low but tutoring is in place", func() {
			r := strongRecord()
			r.PreviousScoreAvg = 50
			r.TutoringSessions = 2

			Convey("Then the tutoring rule stays quiet", func() {
				So(titles(advice.Generate(r)), ShouldResemble, []string{"Strong Profile Detected"})
			})
		})

		Convey("When the same record is evaluated repeatedly", func() {
			r := strongRecord()
			r.SleepHours = 6
			first := advice.Generate(r)

			Convey("Then the output is identical every run", func() {
				for i := 0; i < 50; i++ {
					So(advice.Generate(r), ShouldResemble, first)
				}
			})
		})
	})
}

func TestEngine_CustomRules(t *testing.T) {
	Convey("Given an engine over a custom table", t, func() {
		rules := advice.DefaultRules()
		rules[0], rules[4] = rules[4], rules[0]
		engine := advice.NewEngine(rules)

		Convey("When motivation and attendance both fire", func() {
			r := strongRecord()
			r.AttendancePct = 50
			r.MotivationLevel = student.LevelLow
			items := engine.Generate(r)

			Convey("Then reordering the table reorders the output", func() {
				So(titles(items), ShouldResemble, []string{"Address Motivation Gap", "Increase Class Attendance"})
			})
		})

		Convey("When the table is empty", func() {
			items := advice.NewEngine(nil).Generate(strongRecord())
			So(len(items), ShouldEqual, 1)
			So(items[0].Rule, ShouldEqual, "strong_profile")
		})
	})
}
