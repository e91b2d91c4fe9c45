package query

import (
	"fmt"
	"strings"
)

type operator int

const (
	opEq operator = iota
	opID
	opContainsFold
)

// Predicate filters the rows of a single collection.
type Predicate struct {
	Field string
	Value any
	op    operator
}

func Eq(field string, v any) Predicate {
	return Predicate{Field: field, Value: v, op: opEq}
}

// ContainsFold matches rows whose field contains s, ignoring case.
func ContainsFold(field, s string) Predicate {
	return Predicate{Field: field, Value: s, op: opContainsFold}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *renderer) renderPredicate(alias string, s schema, p Predicate) (string, error) {
	column := p.Field
	if p.op == opID {
		column = s.pk
	}
	f, err := s.field(column)
	if err != nil {
		return "", err
	}
	ref := alias + "." + f.Column

	switch p.op {
	case opID, opEq:
		if f.Array {
			return "", fmt.Errorf("equality on array field %q", f.Column)
		}
		return ref + " = " + r.arg(p.Value), nil
	case opContainsFold:
		term, ok := p.Value.(string)
		if !ok {
			return "", fmt.Errorf("substring match on %q needs a string", f.Column)
		}
		return ref + " ILIKE " + r.arg("%"+likeEscaper.Replace(term)+"%"), nil
	}
	return "", fmt.Errorf("unsupported operator %d", p.op)
}
