package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=900&offset=5", nil)
	page := ParsePagination(req, 100, 500)
	if page.Limit != 500 || page.Offset != 5 {
		t.Fatalf("unexpected page %+v", page)
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=-1&offset=x", nil)
	page = ParsePagination(req, 100, 500)
	if page.Limit != 100 || page.Offset != 0 {
		t.Fatalf("unexpected defaults %+v", page)
	}
}

func TestValidatorRejectSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("profileId", " ", "is required")
	v.Enum("attribute", "age", []string{"gender", "department"}, "is not supported")
	v.Range("threshold", 0, 0, 100, "must be in (0, 100]")

	issues := v.Issues()
	if len(issues) != 3 || issues[0].Field != "attribute" || issues[2].Field != "threshold" {
		t.Fatalf("unexpected issues %+v", issues)
	}

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req") {
		t.Fatal("expected reject")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestValidatorEnumAcceptsCaseInsensitive(t *testing.T) {
	v := NewValidator()
	v.Enum("groupBy", "JobTitle", []string{"jobTitle"}, "bad")
	if v.HasIssues() {
		t.Fatalf("unexpected issues %+v", v.Issues())
	}
}
