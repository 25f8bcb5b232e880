package job

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func validParams() Params {
	return Params{
		ID:             "job-1",
		Title:          "Backend Engineer",
		CompanyName:    "Acme",
		Location:       "Bengaluru, Karnataka",
		LocationType:   "Hybrid",
		EmploymentType: "Full-Time",
		Category:       "Engineering",
		Skills:         []string{"Golang", "SQL", "go", " k8s "},
		SalaryMin:      intPtr(100000),
		SalaryMax:      intPtr(150000),
		ExperienceMin:  intPtr(2),
		ExperienceMax:  intPtr(5),
		PostedAt:       time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		Active:         true,
	}
}

func TestNew_Valid(t *testing.T) {
	j, err := New(validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.ID() != "job-1" {
		t.Errorf("expected id job-1, got %s", j.ID())
	}
	if j.LocationType() != Hybrid {
		t.Errorf("expected hybrid, got %s", j.LocationType())
	}
	if j.EmploymentType() != FullTime {
		t.Errorf("expected full-time, got %s", j.EmploymentType())
	}
	if j.Category() != "engineering" {
		t.Errorf("expected lowercase category, got %s", j.Category())
	}
	want := []string{"go", "sql", "kubernetes"}
	if !reflect.DeepEqual(j.Skills(), want) {
		t.Errorf("skills: got %v, want %v", j.Skills(), want)
	}
	if p := j.Place(); p.City != "bangalore" || p.State != "karnataka" {
		t.Errorf("unexpected place: %+v", p)
	}
	if v, ok := j.SalaryMax(); !ok || v != 150000 {
		t.Errorf("salary max: got %d, %v", v, ok)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
		errSub string
	}{
		{"empty id", func(p *Params) { p.ID = " " }, "id is required"},
		{"long id", func(p *Params) { p.ID = strings.Repeat("x", MaxIDLength+1) }, "too long"},
		{"empty title", func(p *Params) { p.Title = "" }, "title is required"},
		{"bad location type", func(p *Params) { p.LocationType = "moon" }, "location_type"},
		{"bad employment type", func(p *Params) { p.EmploymentType = "gig" }, "employment_type"},
		{"salary inverted", func(p *Params) { p.SalaryMin = intPtr(200000) }, "salary_min"},
		{"experience inverted", func(p *Params) { p.ExperienceMax = intPtr(1) }, "experience_min"},
		{"negative experience", func(p *Params) { p.ExperienceMin = intPtr(-1) }, "non-negative"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			_, err := New(p)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errSub) {
				t.Errorf("error %q does not contain %q", err, tc.errSub)
			}
		})
	}
}

func TestNew_EmptyEnumsAllowed(t *testing.T) {
	p := validParams()
	p.LocationType = ""
	p.EmploymentType = ""
	j, err := New(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.LocationType() != "" || j.EmploymentType() != "" {
		t.Error("expected unknown enums to stay empty")
	}
}

func TestJob_IsImmutable(t *testing.T) {
	p := validParams()
	j, _ := New(p)

	*p.SalaryMax = 1
	p.Skills[0] = "cobol"
	skills := j.Skills()
	skills[0] = "cobol"

	if v, _ := j.SalaryMax(); v != 150000 {
		t.Errorf("salary changed through params pointer: %d", v)
	}
	if j.Skills()[0] != "go" {
		t.Errorf("skills changed through returned slice: %v", j.Skills())
	}
}

func TestJob_ParamsRoundTrip(t *testing.T) {
	j, _ := New(validParams())
	again, err := New(j.Params())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(j, again) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", j, again)
	}
}

func TestParseLocationType(t *testing.T) {
	if lt, ok := ParseLocationType(" REMOTE "); !ok || lt != Remote {
		t.Errorf("expected remote, got %q %v", lt, ok)
	}
	if _, ok := ParseLocationType("space"); ok {
		t.Error("expected invalid")
	}
}
