package sentiment

import (
	"strings"
	"testing"
)

func TestBuildCommentsQuery(t *testing.T) {
	query, args, err := buildCommentsQuery("t1", Filter{CycleID: "c1", EmployeeID: "e1"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(query, "r.tenant_id = $1") || !strings.Contains(query, "r.cycle_id::text = $2") || !strings.Contains(query, "r.employee_id::text = $3") {
		t.Fatalf("unexpected query %s", query)
	}
	if len(args) != 3 || args[0] != "t1" || args[2] != "e1" {
		t.Fatalf("unexpected args %v", args)
	}

	query, args, err = buildCommentsQuery("t1", Filter{})
	if err != nil || len(args) != 1 || strings.Contains(query, "r.cycle_id::text = $") || strings.Contains(query, "r.employee_id::text = $") {
		t.Fatalf("unexpected unfiltered query %s %v %v", query, args, err)
	}
}
