package stats_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"hrinsight/internal/stats"
)

func TestDescribe(t *testing.T) {
	Convey("Given a salary sample", t, func() {
		values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

		Convey("Then the summary matches hand-computed values", func() {
			s := stats.Describe(values)
			So(s.Count, ShouldEqual, 8)
			So(s.Mean, ShouldEqual, 5)
			So(s.Min, ShouldEqual, 2)
			So(s.Max, ShouldEqual, 9)
			// sample variance = 32/7
			So(s.StdDev, ShouldAlmostEqual, math.Sqrt(32.0/7.0), 1e-9)
		})
	})

	Convey("Given a single value", t, func() {
		s := stats.Describe([]float64{42})
		So(s.Mean, ShouldEqual, 42)
		So(s.StdDev, ShouldEqual, 0)
	})

	Convey("Given no values", t, func() {
		So(stats.Describe(nil), ShouldResemble, stats.Summary{})
	})
}

func TestWelchTTest(t *testing.T) {
	Convey("Given two samples with different means", t, func() {
		a := []float64{27.5, 21.0, 19.0, 23.6, 17.0, 17.9, 16.9, 20.1, 21.9, 22.6, 23.1, 19.6, 19.0, 21.7, 21.4}
		b := []float64{27.1, 22.0, 20.8, 23.4, 23.4, 23.5, 25.8, 22.0, 24.8, 20.2, 21.9, 22.1, 22.9, 20.5, 24.4}

		res, err := stats.WelchTTest(a, b)

		Convey("Then t, df and p agree with reference values", func() {
			So(err, ShouldBeNil)
			So(res.T, ShouldAlmostEqual, -2.46, 0.01)
			So(res.DegreesOfFreedom, ShouldAlmostEqual, 24.99, 0.05)
			So(res.PValue, ShouldAlmostEqual, 0.021, 0.002)
		})
	})

	Convey("Given identical constant samples", t, func() {
		res, err := stats.WelchTTest([]float64{5, 5}, []float64{5, 5, 5})
		So(err, ShouldBeNil)
		So(res.PValue, ShouldEqual, 1)
	})

	Convey("Given distinct constant samples", t, func() {
		res, err := stats.WelchTTest([]float64{6, 6}, []float64{5, 5})
		So(err, ShouldBeNil)
		So(res.PValue, ShouldEqual, 0)
		So(math.IsInf(res.T, 1), ShouldBeTrue)
	})

	Convey("Given a group with one sample", t, func() {
		_, err := stats.WelchTTest([]float64{1}, []float64{1, 2})
		So(err, ShouldEqual, stats.ErrInsufficientSamples)
	})
}

func TestTwoTailedP(t *testing.T) {
	Convey("A zero statistic has p = 1", t, func() {
		So(stats.TwoTailedP(0, 10), ShouldAlmostEqual, 1, 1e-12)
	})
	Convey("The 97.5th percentile of t(10) gives p = 0.05", t, func() {
		So(stats.TwoTailedP(2.228, 10), ShouldAlmostEqual, 0.05, 1e-3)
	})
	Convey("The statistic sign does not matter", t, func() {
		So(stats.TwoTailedP(-1.5, 8), ShouldAlmostEqual, stats.TwoTailedP(1.5, 8), 1e-12)
	})
}

func TestPearson(t *testing.T) {
	Convey("Perfectly linear data correlates at 1", t, func() {
		r, ok := stats.Pearson([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
		So(ok, ShouldBeTrue)
		So(r, ShouldAlmostEqual, 1, 1e-12)
	})
	Convey("Inverse data correlates at -1", t, func() {
		r, ok := stats.Pearson([]float64{1, 2, 3}, []float64{3, 2, 1})
		So(ok, ShouldBeTrue)
		So(r, ShouldAlmostEqual, -1, 1e-12)
	})
	Convey("Constant input has no correlation", t, func() {
		_, ok := stats.Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})
		So(ok, ShouldBeFalse)
	})
	Convey("Mismatched lengths are rejected", t, func() {
		_, ok := stats.Pearson([]float64{1, 2}, []float64{1})
		So(ok, ShouldBeFalse)
	})
}

func TestPercentDiffAndRound(t *testing.T) {
	Convey("PercentDiff is relative to the second value", t, func() {
		So(stats.PercentDiff(110, 100), ShouldAlmostEqual, 10, 1e-12)
		So(stats.PercentDiff(1, 0), ShouldEqual, 0)
	})
	Convey("Round keeps the requested decimals", t, func() {
		So(stats.Round(1.23456, 2), ShouldEqual, 1.23)
		So(stats.Round(-1.005, 1), ShouldEqual, -1.0)
	})
}
