package query

import (
	"errors"
	"fmt"
	"strings"
)

type OpKind int

const (
	OpSet OpKind = iota
	OpAddToSet
	OpPull
	OpPush
)

// Op is one field operation of an Update.
type Op struct {
	Kind  OpKind
	Field string
	Value any
}

// Update is an atomic single-row field update: plain sets plus
// add-to-set, pull and push on array fields.
type Update struct {
	collection Collection
	ops        []Op
}

func NewUpdate(c Collection) *Update {
	return &Update{collection: c}
}

func (u *Update) Set(field string, v any) *Update {
	u.ops = append(u.ops, Op{Kind: OpSet, Field: field, Value: v})
	return u
}

// AddToSet appends v to the array field unless it is already present.
func (u *Update) AddToSet(field string, v any) *Update {
	u.ops = append(u.ops, Op{Kind: OpAddToSet, Field: field, Value: v})
	return u
}

// Pull removes every occurrence of v from the array field.
func (u *Update) Pull(field string, v any) *Update {
	u.ops = append(u.ops, Op{Kind: OpPull, Field: field, Value: v})
	return u
}

// Push appends v to the array field unconditionally.
func (u *Update) Push(field string, v any) *Update {
	u.ops = append(u.ops, Op{Kind: OpPush, Field: field, Value: v})
	return u
}

func (u *Update) Collection() Collection {
	return u.collection
}

// Ops returns the operations in the order they were added.
func (u *Update) Ops() []Op {
	return append([]Op(nil), u.ops...)
}

// Build renders UPDATE ... WHERE pk = id RETURNING returning.
func (u *Update) Build(id string, returning ...string) (string, []any, error) {
	if len(u.ops) == 0 {
		return "", nil, errors.New("empty update")
	}
	s, err := lookupSchema(u.collection)
	if err != nil {
		return "", nil, err
	}

	r := &renderer{}
	seen := map[string]bool{}
	var sets []string
	for _, op := range u.ops {
		f, err := s.field(op.Field)
		if err != nil {
			return "", nil, err
		}
		if s.isFixed(f.Column) {
			return "", nil, fmt.Errorf("field %q cannot be updated", f.Column)
		}
		if seen[f.Column] {
			return "", nil, fmt.Errorf("field %q updated twice", f.Column)
		}
		seen[f.Column] = true

		if op.Kind == OpSet {
			if f.Array {
				return "", nil, fmt.Errorf("set on array field %q", f.Column)
			}
			sets = append(sets, f.Column+" = "+r.arg(op.Value))
			continue
		}
		if !f.Array {
			return "", nil, fmt.Errorf("set operation on scalar field %q", f.Column)
		}
		v := r.arg(op.Value) + "::" + f.Type
		switch op.Kind {
		case OpAddToSet:
			sets = append(sets, fmt.Sprintf("%[1]s = CASE WHEN %[2]s = ANY(%[1]s) THEN %[1]s ELSE array_append(%[1]s, %[2]s) END", f.Column, v))
		case OpPull:
			sets = append(sets, fmt.Sprintf("%[1]s = array_remove(%[1]s, %[2]s)", f.Column, v))
		case OpPush:
			sets = append(sets, fmt.Sprintf("%[1]s = array_append(%[1]s, %[2]s)", f.Column, v))
		}
	}

	for _, col := range returning {
		if _, err := s.field(col); err != nil {
			return "", nil, err
		}
		if col == PasswordField {
			return "", nil, ErrUnsafeProjection
		}
	}

	sql := "UPDATE " + s.table + " SET " + strings.Join(sets, ", ") +
		" WHERE " + s.pk + " = " + r.arg(id)
	if len(returning) > 0 {
		sql += " RETURNING " + strings.Join(returning, ", ")
	}
	return sql, r.args, nil
}
