package order

// Order is the result ordering of a plain job search.
type Order string

// Order constants.
const (
	// Relevance keeps text relevance order, or corpus order (newest first) without a term.
	Relevance Order = "relevance"
	PostedAt  Order = "posted_at"
	// Salary orders by the job salary ceiling, highest first; jobs without salary go last.
	Salary Order = "salary"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Relevance || o == PostedAt || o == Salary
}
