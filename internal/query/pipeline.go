package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsafeProjection is returned when a pipeline that can emit accounts does
// not end with a projection stripping the password hash.
var ErrUnsafeProjection = errors.New("pipeline must end with a projection excluding the password hash")

type stageKind int

const (
	stageMatch stageKind = iota
	stageJoinFirst
	stageJoinMany
	stageProject
	stageSort
	stageSkip
	stageLimit
)

// Stage is one step of a pipeline. Stages are plain values.
type Stage struct {
	kind    stageKind
	pred    Predicate
	local   string
	foreign *Pipeline
	as      string
	exclude []string
	field   string
	desc    bool
	n       int
}

// Pipeline is an ordered list of stages over one collection.
type Pipeline struct {
	collection Collection
	stages     []Stage
}

func New(c Collection) Pipeline {
	return Pipeline{collection: c}
}

// Then returns a new pipeline with stages appended; p is left untouched.
func (p Pipeline) Then(stages ...Stage) Pipeline {
	next := make([]Stage, 0, len(p.stages)+len(stages))
	next = append(next, p.stages...)
	next = append(next, stages...)
	return Pipeline{collection: p.collection, stages: next}
}

func (p Pipeline) Collection() Collection {
	return p.collection
}

func MatchByID(id string) Stage {
	return Stage{kind: stageMatch, pred: Predicate{op: opID, Value: id}}
}

func Match(pred Predicate) Stage {
	return Stage{kind: stageMatch, pred: pred}
}

// JoinFirst hydrates a single-reference field into the first matching
// document of foreign, or null.
func JoinFirst(localField string, foreign Pipeline, as string) Stage {
	return Stage{kind: stageJoinFirst, local: localField, foreign: &foreign, as: as}
}

// JoinMany hydrates an id or id array into the array of matching documents,
// kept in the order of the local array.
func JoinMany(localField string, foreign Pipeline, as string) Stage {
	return Stage{kind: stageJoinMany, local: localField, foreign: &foreign, as: as}
}

func Project(exclude ...string) Stage {
	return Stage{kind: stageProject, exclude: exclude}
}

func SortBy(field string, desc bool) Stage {
	return Stage{kind: stageSort, field: field, desc: desc}
}

func Skip(n int) Stage {
	return Stage{kind: stageSkip, n: n}
}

func Limit(n int) Stage {
	return Stage{kind: stageLimit, n: n}
}

// Build renders the pipeline to a single SELECT statement.
func (p Pipeline) Build() (string, []any, error) {
	r := &renderer{}
	sql, err := r.render(p, false, nil)
	if err != nil {
		return "", nil, err
	}
	return sql, r.args, nil
}

func (p Pipeline) touchesAccounts() bool {
	if p.collection == Users {
		return true
	}
	for _, st := range p.stages {
		if st.foreign != nil && st.foreign.touchesAccounts() {
			return true
		}
	}
	return false
}

func (p Pipeline) validate() error {
	if !p.touchesAccounts() {
		return nil
	}
	if len(p.stages) == 0 {
		return ErrUnsafeProjection
	}
	last := p.stages[len(p.stages)-1]
	if last.kind != stageProject {
		return ErrUnsafeProjection
	}
	if p.collection == Users && !contains(last.exclude, PasswordField) {
		return ErrUnsafeProjection
	}
	return nil
}

type renderer struct {
	args    []any
	aliases int
}

func (r *renderer) arg(v any) string {
	r.args = append(r.args, v)
	return fmt.Sprintf("$%d", len(r.args))
}

func (r *renderer) alias(prefix string) string {
	r.aliases++
	return fmt.Sprintf("%s%d", prefix, r.aliases)
}

type plan struct {
	matches  []Predicate
	joins    []Stage
	excluded map[string]bool
	sorts    []Stage
	skip     int
	limit    int
}

func collect(p Pipeline) plan {
	pl := plan{excluded: map[string]bool{}}
	for _, st := range p.stages {
		switch st.kind {
		case stageMatch:
			pl.matches = append(pl.matches, st.pred)
		case stageJoinFirst, stageJoinMany:
			pl.joins = append(pl.joins, st)
		case stageProject:
			for _, f := range st.exclude {
				pl.excluded[f] = true
			}
		case stageSort:
			pl.sorts = append(pl.sorts, st)
		case stageSkip:
			pl.skip = st.n
		case stageLimit:
			pl.limit = st.n
		}
	}
	return pl
}

// render emits the SELECT for p. Nested renders alias every column by its
// JSON key so to_jsonb produces the embedded document shape. correlate, when
// set, adds the join condition against the parent row.
func (r *renderer) render(p Pipeline, nested bool, correlate func(alias string, s schema) string) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	s, err := lookupSchema(p.collection)
	if err != nil {
		return "", err
	}
	pl := collect(p)
	a := r.alias("t")

	joined := map[string]Stage{}
	for _, j := range pl.joins {
		joined[j.as] = j
	}

	var cols []string
	for _, f := range s.fields {
		if pl.excluded[f.Column] {
			continue
		}
		name := f.Column
		if nested {
			name = quote(f.JSON)
		}
		if j, ok := joined[f.Column]; ok {
			expr, err := r.renderJoin(a, s, j)
			if err != nil {
				return "", err
			}
			cols = append(cols, expr+" AS "+name)
			delete(joined, f.Column)
			continue
		}
		col := a + "." + f.Column
		if nested {
			col += " AS " + name
		}
		cols = append(cols, col)
	}
	for _, j := range pl.joins {
		if _, pending := joined[j.as]; !pending || pl.excluded[j.as] {
			continue
		}
		expr, err := r.renderJoin(a, s, j)
		if err != nil {
			return "", err
		}
		name := j.as
		if nested {
			name = quote(j.as)
		}
		cols = append(cols, expr+" AS "+name)
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("projection of %s leaves no fields", s.table)
	}

	var where []string
	if correlate != nil {
		where = append(where, correlate(a, s))
	}
	for _, pred := range pl.matches {
		cond, err := r.renderPredicate(a, s, pred)
		if err != nil {
			return "", err
		}
		where = append(where, cond)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(s.table)
	b.WriteString(" ")
	b.WriteString(a)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if len(pl.sorts) > 0 {
		var order []string
		for _, st := range pl.sorts {
			if _, err := s.field(st.field); err != nil {
				return "", err
			}
			dir := "ASC"
			if st.desc {
				dir = "DESC"
			}
			order = append(order, a+"."+st.field+" "+dir)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(order, ", "))
	}
	if pl.limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(r.arg(pl.limit))
	}
	if pl.skip > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(r.arg(pl.skip))
	}
	return b.String(), nil
}

func (r *renderer) renderJoin(parent string, s schema, j Stage) (string, error) {
	local, err := s.field(j.local)
	if err != nil {
		return "", err
	}
	fs, err := lookupSchema(j.foreign.collection)
	if err != nil {
		return "", err
	}
	localRef := parent + "." + local.Column
	sub, err := r.render(*j.foreign, true, func(alias string, child schema) string {
		if local.Array {
			return alias + "." + child.pk + " = ANY(" + localRef + ")"
		}
		return alias + "." + child.pk + " = " + localRef
	})
	if err != nil {
		return "", err
	}
	ja := r.alias("j")
	if j.kind == stageJoinFirst {
		return "(SELECT to_jsonb(" + ja + ") FROM (" + sub + ") " + ja + " LIMIT 1)", nil
	}
	order := ""
	if pk, err := fs.field(fs.pk); err == nil && local.Array && !collect(*j.foreign).excluded[fs.pk] {
		order = " ORDER BY array_position(" + localRef + ", " + ja + "." + quote(pk.JSON) + ")"
	}
	return "COALESCE((SELECT jsonb_agg(to_jsonb(" + ja + ")" + order + ") FROM (" + sub + ") " + ja + "), '[]'::jsonb)", nil
}

func quote(name string) string {
	return `"` + name + `"`
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
