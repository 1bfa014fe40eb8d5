package reservation

import "time"

// QueryBuilder fluently constructs a Query. UserID, ResourceID, Status,
// PageSize and Desc default to their zero values (meaning "no filter" /
// "manager default" / "ascending"); Page defaults to 1, and Build resets
// any page below 1 to 1. Start and End are required and Build fails
// without them.
type QueryBuilder struct {
	q         Query
	haveStart bool
	haveEnd   bool
}

// NewQueryBuilder starts a new builder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{q: Query{Page: 1}}
}

func (b *QueryBuilder) UserID(userID string) *QueryBuilder {
	b.q.UserID = userID
	return b
}

func (b *QueryBuilder) ResourceID(resourceID string) *QueryBuilder {
	b.q.ResourceID = resourceID
	return b
}

func (b *QueryBuilder) Status(status Status) *QueryBuilder {
	b.q.Status = status
	return b
}

func (b *QueryBuilder) Start(start time.Time) *QueryBuilder {
	b.q.Start = start.UTC()
	b.haveStart = true
	return b
}

func (b *QueryBuilder) End(end time.Time) *QueryBuilder {
	b.q.End = end.UTC()
	b.haveEnd = true
	return b
}

func (b *QueryBuilder) Page(page int) *QueryBuilder {
	b.q.Page = page
	return b
}

func (b *QueryBuilder) PageSize(pageSize int) *QueryBuilder {
	b.q.PageSize = pageSize
	return b
}

func (b *QueryBuilder) Desc(desc bool) *QueryBuilder {
	b.q.Desc = desc
	return b
}

// Build validates and returns the assembled Query. Start and End must
// both have been set, and must form a valid half-open timespan.
func (b *QueryBuilder) Build() (Query, error) {
	if !b.haveStart || !b.haveEnd {
		return Query{}, NewInvalidTimespanError()
	}
	if b.q.Page < 1 {
		b.q.Page = 1
	}
	if err := b.q.Validate(); err != nil {
		return Query{}, err
	}
	return b.q, nil
}
