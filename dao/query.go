package dao

import "strings"

// Query narrows the rows a list operation reads.
type Query struct {
	where []string
	args  []any
}

// Where adds a condition. Conditions are joined with AND and use `?`
// placeholders for args.
func (q *Query) Where(cond string, args ...any) *Query {
	q.where = append(q.where, cond)
	q.args = append(q.args, args...)
	return q
}

// Args returns the arguments of all conditions.
func (q *Query) Args() []any { return q.args }

// clause renders the WHERE clause, or "" when q has no conditions.
func (q *Query) clause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE (" + strings.Join(q.where, ") AND (") + ")"
}
