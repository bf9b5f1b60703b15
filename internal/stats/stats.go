// Package stats holds the small set of descriptive and inferential statistics
// used by the salary analytics.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrInsufficientSamples = errors.New("at least two samples per group are required")

// Summary describes one sample.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Describe returns count, mean, sample standard deviation and range. The
// standard deviation is zero for fewer than two values.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	out := Summary{Count: len(values), Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		out.Min = math.Min(out.Min, v)
		out.Max = math.Max(out.Max, v)
	}
	if len(values) == 1 {
		out.Mean = values[0]
		return out
	}
	out.Mean, out.StdDev = stat.MeanStdDev(values, nil)
	return out
}

// TTest is the result of a two-sample comparison.
type TTest struct {
	T                float64 `json:"tStatistic"`
	DegreesOfFreedom float64 `json:"degreesOfFreedom"`
	PValue           float64 `json:"pValue"`
}

// WelchTTest runs an unequal-variance two-sample t-test and returns a
// two-tailed p-value.
func WelchTTest(a, b []float64) (TTest, error) {
	if len(a) < 2 || len(b) < 2 {
		return TTest{}, ErrInsufficientSamples
	}
	ma, va := stat.MeanVariance(a, nil)
	mb, vb := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	sa, sb := va/na, vb/nb
	se := math.Sqrt(sa + sb)
	if se == 0 {
		// Identical constant samples: no evidence of a difference. Distinct
		// constant samples: the difference is certain.
		if ma == mb {
			return TTest{T: 0, DegreesOfFreedom: na + nb - 2, PValue: 1}, nil
		}
		return TTest{T: math.Copysign(math.Inf(1), ma-mb), DegreesOfFreedom: na + nb - 2, PValue: 0}, nil
	}

	t := (ma - mb) / se
	df := (sa + sb) * (sa + sb) / (sa*sa/(na-1) + sb*sb/(nb-1))
	return TTest{T: t, DegreesOfFreedom: df, PValue: TwoTailedP(t, df)}, nil
}

// TwoTailedP returns P(|T| >= |t|) for a Student's t distribution.
func TwoTailedP(t, df float64) float64 {
	if math.IsNaN(t) || df <= 0 {
		return math.NaN()
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	return math.Min(1, math.Max(0, p))
}

// Pearson returns the correlation coefficient of x and y. ok is false when
// the inputs differ in length, have fewer than two points, or either side has
// no variance.
func Pearson(x, y []float64) (r float64, ok bool) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, false
	}
	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// PercentDiff returns (a-b)/b*100, or zero when b is zero.
func PercentDiff(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b * 100
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
