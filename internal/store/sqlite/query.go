package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"
)

// predicate is one WHERE condition with its bound arguments.
type predicate struct {
	sql  string
	args []any
}

// query composes a base SELECT with optional predicates. Conditions are
// joined with AND; user input only ever travels as bound arguments.
type query struct {
	base    string
	args    []any
	preds   []predicate
	groupBy string
	orderBy string
	limit   int
}

func newQuery(base string, args ...any) *query {
	return &query{base: base, args: args}
}

func (q *query) where(cond string, args ...any) *query {
	q.preds = append(q.preds, predicate{sql: cond, args: args})
	return q
}

func (q *query) whereIf(ok bool, cond string, args ...any) *query {
	if ok {
		q.where(cond, args...)
	}
	return q
}

func (q *query) group(expr string) *query {
	q.groupBy = expr
	return q
}

func (q *query) order(expr string) *query {
	q.orderBy = expr
	return q
}

func (q *query) max(n int) *query {
	q.limit = n
	return q
}

func (q *query) build() (string, []any) {
	var b strings.Builder
	b.WriteString(q.base)
	args := append([]any(nil), q.args...)

	for i, p := range q.preds {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString("(" + p.sql + ")")
		args = append(args, p.args...)
	}
	if q.groupBy != "" {
		b.WriteString(" GROUP BY " + q.groupBy)
	}
	if q.orderBy != "" {
		b.WriteString(" ORDER BY " + q.orderBy)
	}
	if q.limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.limit)
	}
	return b.String(), args
}

// likeEscaper escapes LIKE wildcards; patterns use ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching s anywhere in the value.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// decodeStrings decodes a json_group_array of text values.
func decodeStrings(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode string array: %w", err)
	}
	return out, nil
}

// decodeIDs decodes a json_group_array of integer ids.
func decodeIDs(raw string) ([]int64, error) {
	out := []int64{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode id array: %w", err)
	}
	return out, nil
}
