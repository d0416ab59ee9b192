package grading_test

import (
	"math"
	"testing"

	"github.com/okian/edumetrics/internal/domain/grading"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given raw regression outputs", t, func() {
		Convey("When the value is already a valid score", func() {
			for _, r := range []float64{0, 0.5, 59.999, 72.4, 80, 100} {
				So(grading.Normalize(r), ShouldEqual, r)
			}
		})

		Convey("When the value is below zero", func() {
			So(grading.Normalize(-12.3), ShouldEqual, 0.0)
			So(grading.Normalize(math.Inf(-1)), ShouldEqual, 0.0)
		})

		Convey("When the value is above one hundred", func() {
			So(grading.Normalize(100.0001), ShouldEqual, 100.0)
			So(grading.Normalize(math.Inf(1)), ShouldEqual, 100.0)
		})

		Convey("When the value is NaN", func() {
			So(grading.Normalize(math.NaN()), ShouldEqual, 0.0)
		})

		Convey("Then every output stays inside the score range", func() {
			for r := -500.0; r <= 500; r += 7.3 {
				n := grading.Normalize(r)
				So(n, ShouldBeBetweenOrEqual, grading.MinScore, grading.MaxScore)
			}
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given tier thresholds", t, func() {
		Convey("Then band boundaries include their lower bound", func() {
			So(grading.Classify(80.0), ShouldEqual, grading.TierDistinction)
			So(grading.Classify(79.999), ShouldEqual, grading.TierPass)
			So(grading.Classify(60.0), ShouldEqual, grading.TierPass)
			So(grading.Classify(59.999), ShouldEqual, grading.TierAtRisk)
		})

		Convey("And the extremes classify", func() {
			So(grading.Classify(0), ShouldEqual, grading.TierAtRisk)
			So(grading.Classify(100), ShouldEqual, grading.TierDistinction)
		})

		Convey("And scores map monotonically onto bands", func() {
			rank := map[grading.Tier]int{grading.TierAtRisk: 0, grading.TierPass: 1, grading.TierDistinction: 2}
			prev := rank[grading.Classify(0)]
			for s := 0.0; s <= 100; s += 0.25 {
				cur := rank[grading.Classify(s)]
				So(cur, ShouldBeGreaterThanOrEqualTo, prev)
				prev = cur
			}
		})
	})
}

func TestDescribe(t *testing.T) {
	Convey("Given tier metadata", t, func() {
		Convey("Then at-risk uses a spaced label", func() {
			info := grading.Describe(grading.TierAtRisk)
			So(info.Label, ShouldEqual, "AT RISK")
			So(info.Headline, ShouldEqual, "Intervention recommended.")
			So(info.Severity, ShouldEqual, grading.SeverityDanger)
		})

		Convey("And the list runs from best to worst", func() {
			list := grading.Tiers()
			So(len(list), ShouldEqual, 3)
			So(list[0].Tier, ShouldEqual, grading.TierDistinction)
			So(list[0].MinScore, ShouldEqual, 80.0)
			So(list[2].Tier, ShouldEqual, grading.TierAtRisk)
		})
	})
}
