package request

import (
	"strings"

	"github.com/kailas-cloud/agentjobs/internal/domain"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/filter"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/order"
)

// Search parameter limits.
const (
	// MaxTermLength is the maximum allowed free-text term length.
	MaxTermLength = 512
	DefaultLimit  = 20
	MaxLimit      = 100
	MaxOffset     = 10000
)

// Paging holds the configured page size bounds.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultPaging is used when no configuration overrides the bounds.
var DefaultPaging = Paging{DefaultLimit: DefaultLimit, MaxLimit: MaxLimit}

// Request is a validated plain search query.
type Request struct {
	term        string
	constraints filter.Constraints
	order       order.Order
	limit       int
	offset      int
}

// New validates and normalizes search parameters.
// Defaults: order=relevance, limit=paging.DefaultLimit. Limit is clamped to paging.MaxLimit.
func New(
	term string,
	constraints filter.Constraints,
	o order.Order,
	limit, offset int,
	paging Paging,
) (Request, error) {
	term = strings.TrimSpace(term)
	if len(term) > MaxTermLength {
		return Request{}, domain.NewFieldError("q", "is too long")
	}
	if o == "" {
		o = order.Relevance
	}
	if !o.IsValid() {
		return Request{}, domain.NewFieldError("sort", "must be one of relevance, posted_at, salary")
	}
	if paging.DefaultLimit <= 0 {
		paging.DefaultLimit = DefaultLimit
	}
	if paging.MaxLimit <= 0 {
		paging.MaxLimit = MaxLimit
	}
	if limit < 0 {
		return Request{}, domain.NewFieldError("limit", "must be positive")
	}
	if limit == 0 {
		limit = paging.DefaultLimit
	}
	if limit > paging.MaxLimit {
		limit = paging.MaxLimit
	}
	if offset < 0 {
		return Request{}, domain.NewFieldError("offset", "must be non-negative")
	}
	if offset > MaxOffset {
		return Request{}, domain.NewFieldError("offset", "is too large")
	}
	if err := ValidateConstraints(&constraints); err != nil {
		return Request{}, err
	}

	return Request{
		term:        term,
		constraints: constraints,
		order:       o,
		limit:       limit,
		offset:      offset,
	}, nil
}

// ValidateConstraints rejects negative numbers and inverted ranges before they reach the filter engine.
func ValidateConstraints(c *filter.Constraints) error {
	for _, v := range []struct {
		field string
		val   *int
	}{
		{"salary_min", c.SalaryMin},
		{"salary_max", c.SalaryMax},
		{"experience_min", c.ExperienceMin},
		{"experience_max", c.ExperienceMax},
	} {
		if v.val != nil && *v.val < 0 {
			return domain.NewFieldError(v.field, "must be non-negative")
		}
	}
	if c.SalaryMin != nil && c.SalaryMax != nil && *c.SalaryMin > *c.SalaryMax {
		return domain.NewFieldError("salary_min", "must not exceed salary_max")
	}
	if c.ExperienceMin != nil && c.ExperienceMax != nil && *c.ExperienceMin > *c.ExperienceMax {
		return domain.NewFieldError("experience_min", "must not exceed experience_max")
	}
	if c.ExperienceYears != nil && *c.ExperienceYears < 0 {
		return domain.NewFieldError("experience_years", "must be non-negative")
	}
	return nil
}

// Term returns the free-text term ("" when absent).
func (r *Request) Term() string { return r.term }

// Constraints returns the structured filter constraints.
func (r *Request) Constraints() filter.Constraints { return r.constraints }

// Order returns the result ordering.
func (r *Request) Order() order.Order { return r.order }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the number of results to skip.
func (r *Request) Offset() int { return r.offset }
