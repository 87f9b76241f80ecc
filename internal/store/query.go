package store

// domain level field names understood by every backend
const (
	FieldUserID      = "userId"
	FieldAssignedTo  = "assignedTo"
	FieldFinalized   = "finalized"
	FieldInterviewID = "interviewId"
	FieldCreatedAt   = "createdAt"
	FieldEmail       = "email"
)

type Op string

const (
	OpEq    Op = "=="
	OpNotEq Op = "!="
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query is a backend neutral equality/inequality query. A zero Query matches
// every document; MatchNone short-circuits to an empty result without
// touching the backend.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
	MatchNone  bool
}

func (q Query) Where(field string, op Op, value any) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}

func (q Query) NewestFirst() Query {
	q.OrderBy = FieldCreatedAt
	q.Descending = true
	return q
}

func (q Query) WithLimit(limit int) Query {
	q.Limit = limit
	return q
}

// None returns a query that matches nothing.
func None() Query {
	return Query{MatchNone: true}
}

// All returns a query that matches every document, newest first.
func All() Query {
	return Query{}.NewestFirst()
}
