package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/agentjobs/internal/domain"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/filter"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/order"
)

func intPtr(v int) *int { return &v }

func TestNew_Defaults(t *testing.T) {
	r, err := New("  golang  ", filter.Constraints{}, "", 0, 0, DefaultPaging)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Term() != "golang" {
		t.Errorf("Term() = %q", r.Term())
	}
	if r.Order() != order.Relevance {
		t.Errorf("Order() = %q, want relevance (default)", r.Order())
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), DefaultLimit)
	}
	if r.Offset() != 0 {
		t.Errorf("Offset() = %d", r.Offset())
	}
}

func TestNew_EmptyTermAllowed(t *testing.T) {
	if _, err := New("", filter.Constraints{}, order.PostedAt, 10, 0, DefaultPaging); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_LimitClamped(t *testing.T) {
	r, err := New("", filter.Constraints{}, "", 5000, 0, Paging{DefaultLimit: 10, MaxLimit: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != 50 {
		t.Errorf("Limit() = %d, want 50", r.Limit())
	}
}

func TestNew_ZeroPagingUsesDefaults(t *testing.T) {
	r, err := New("", filter.Constraints{}, "", 0, 0, Paging{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), DefaultLimit)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		term   string
		c      filter.Constraints
		o      order.Order
		limit  int
		offset int
		field  string
	}{
		{"term too long", strings.Repeat("a", MaxTermLength+1), filter.Constraints{}, "", 0, 0, "q"},
		{"bad sort", "", filter.Constraints{}, "score", 0, 0, "sort"},
		{"negative limit", "", filter.Constraints{}, "", -1, 0, "limit"},
		{"negative offset", "", filter.Constraints{}, "", 0, -5, "offset"},
		{"huge offset", "", filter.Constraints{}, "", 0, MaxOffset + 1, "offset"},
		{"inverted salary", "", filter.Constraints{SalaryMin: intPtr(10), SalaryMax: intPtr(5)}, "", 0, 0, "salary_min"},
		{"negative salary", "", filter.Constraints{SalaryMax: intPtr(-1)}, "", 0, 0, "salary_max"},
		{"inverted experience", "", filter.Constraints{ExperienceMin: intPtr(5), ExperienceMax: intPtr(2)}, "", 0, 0, "experience_min"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.term, tc.c, tc.o, tc.limit, tc.offset, DefaultPaging)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var fe *domain.FieldError
			if !errors.As(err, &fe) || fe.Field != tc.field {
				t.Errorf("expected field %q, got %v", tc.field, err)
			}
		})
	}
}

func TestNew_InvalidEnumIsNotAnError(t *testing.T) {
	c := filter.Constraints{LocationType: "moon"}
	if _, err := New("", c, "", 0, 0, DefaultPaging); err != nil {
		t.Errorf("enum values degrade in the filter engine, got error %v", err)
	}
}
