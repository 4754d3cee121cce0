package snippet

// SortBy names a sortable snippet column.
type SortBy string

const (
	SortByTrigger   SortBy = "trigger"
	SortByCreatedAt SortBy = "created_at"
	SortByUpdatedAt SortBy = "updated_at"
	SortByUsage     SortBy = "usage_count"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Query selects, orders and pages snippets for listing. The zero
// value of the filter fields means "no filter"; use NewQuery for the
// default ordering.
type Query struct {
	// Search matches a substring of trigger or replacement.
	Search string
	// Tags requires every listed tag to be present.
	Tags []string
	// Active filters on the active flag when non-nil.
	Active *bool

	SortBy    SortBy
	SortOrder SortOrder

	// Limit of 0 means unlimited.
	Limit  int
	Offset int
}

// NewQuery returns a query sorted by most recently updated.
func NewQuery() Query {
	return Query{SortBy: SortByUpdatedAt, SortOrder: SortDesc}
}

// WithSearch filters on a trigger/replacement substring.
func (q Query) WithSearch(search string) Query {
	q.Search = search
	return q
}

// WithTags requires all given tags.
func (q Query) WithTags(tags ...string) Query {
	q.Tags = tags
	return q
}

// WithActive filters on the active flag.
func (q Query) WithActive(active bool) Query {
	q.Active = &active
	return q
}

// WithSort sets the ordering.
func (q Query) WithSort(by SortBy, order SortOrder) Query {
	q.SortBy = by
	q.SortOrder = order
	return q
}

// WithPage sets limit and offset.
func (q Query) WithPage(limit, offset int) Query {
	q.Limit = limit
	q.Offset = offset
	return q
}

// Stats summarizes a snippet collection.
type Stats struct {
	Total      uint64
	Active     uint64
	Inactive   uint64
	TotalUsage uint64
}
