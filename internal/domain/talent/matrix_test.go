package talent

import (
	"testing"

	"hrinsight/internal/domain/employees"
)

func rated(id string, perf, pot float64) employees.Record {
	return employees.Record{ID: id, FirstName: id, PerformanceRating: &perf, PotentialRating: &pot}
}

func TestBand(t *testing.T) {
	cases := map[float64]string{1: BandLow, 2.49: BandLow, 2.5: BandMedium, 3.49: BandMedium, 3.5: BandHigh, 5: BandHigh}
	for rating, want := range cases {
		if got := Band(rating); got != want {
			t.Fatalf("band(%v) = %s, want %s", rating, got, want)
		}
	}
}

func TestBoxNames(t *testing.T) {
	names := map[string]bool{}
	for _, perf := range bandOrder {
		for _, pot := range bandOrder {
			name := BoxName(perf, pot)
			if name == "" || names[name] {
				t.Fatalf("expected unique name for %s/%s, got %q", perf, pot, name)
			}
			names[name] = true
		}
	}
	if BoxName(BandLow, BandHigh) != "Rough Diamond" || BoxName(BandHigh, BandLow) != "Trusted Professional" {
		t.Fatalf("unexpected corner boxes")
	}
}

func TestBuild(t *testing.T) {
	perfOnly := 4.0
	m := Build([]employees.Record{
		rated("a", 4.5, 4.0),
		rated("b", 5.0, 5.0),
		rated("c", 2.0, 2.0),
		rated("d", 3.0, 4.0),
		{ID: "e", PerformanceRating: &perfOnly},
	})
	if len(m.Boxes) != 9 {
		t.Fatalf("expected nine boxes, got %d", len(m.Boxes))
	}
	star := m.Boxes[0]
	if star.Name != "Star" || star.Count != 2 || star.Employees[0].EmployeeID != "b" {
		t.Fatalf("unexpected star box %#v", star)
	}
	if m.Boxes[3].Name != "High Potential" || m.Boxes[3].Count != 1 {
		t.Fatalf("unexpected high potential box %#v", m.Boxes[3])
	}
	if m.Boxes[8].Name != "Underperformer" || m.Boxes[8].Count != 1 {
		t.Fatalf("unexpected underperformer box %#v", m.Boxes[8])
	}
	if m.Rated != 4 || m.Unrated != 1 || m.Missing[0] != "e" {
		t.Fatalf("unexpected counts %#v", m)
	}
}
