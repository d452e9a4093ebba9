// Package updates provides allow-listed field updates. Each entity has a
// builder with one setter per column that may be changed; only columns that
// were set are rendered into the SET clause, always in the same order.
package updates

import (
	"strings"

	"github.com/DioBrando0203/expedientes/internal/common"
)

// Assignment is one "column = ?" pair.
type Assignment struct {
	Column string
	Value  any
}

// Update is implemented by every builder in this package.
type Update interface {
	Assignments() []Assignment
}

// SetClause renders u as "col1 = ?, col2 = ?" with its arguments.
// It returns common.ErrNoFieldsToUpdate when nothing was set.
func SetClause(u Update) (string, []any, error) {
	if u == nil {
		return "", nil, common.ErrNoFieldsToUpdate
	}
	as := u.Assignments()
	if len(as) == 0 {
		return "", nil, common.ErrNoFieldsToUpdate
	}

	parts := make([]string, len(as))
	args := make([]any, len(as))
	for i, a := range as {
		parts[i] = a.Column + " = ?"
		args[i] = a.Value
	}
	return strings.Join(parts, ", "), args, nil
}

// field is a settable column value.
type field struct {
	set   bool
	value any
}

func (f *field) assign(v any) {
	f.set = true
	f.value = v
}

func collect(columns []string, fields []*field) []Assignment {
	var out []Assignment
	for i, f := range fields {
		if f.set {
			out = append(out, Assignment{Column: columns[i], Value: f.value})
		}
	}
	return out
}

// nullable maps "" to SQL NULL.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
