package chunkdex

import (
	"fmt"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/metadata"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/search/filter"
)

// Filter is a metadata predicate for similarity search. Build one with Eq,
// Less, Greater, In, And, and Or; pass it via WithFilter. A nil Filter
// matches every document.
type Filter struct {
	expr filter.Expression
	err  error
}

// expression resolves the filter into the internal form, surfacing any
// construction error deferred by the builders.
func (f *Filter) expression() (*filter.Expression, error) {
	if f == nil {
		return nil, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return &f.expr, nil
}

func leaf(build func(metadata.Value) filter.Expression, value any) *Filter {
	v, err := metadata.FromAny(value)
	if err != nil {
		return &Filter{err: fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)}
	}
	return &Filter{expr: build(v)}
}

// Eq matches documents whose metadata field equals value.
func Eq(field string, value any) *Filter {
	return leaf(func(v metadata.Value) filter.Expression { return filter.Eq(field, v) }, value)
}

// Less matches documents whose metadata field is less than value.
func Less(field string, value any) *Filter {
	return leaf(func(v metadata.Value) filter.Expression { return filter.Compare(filter.OpLess, field, v) }, value)
}

// Greater matches documents whose metadata field is greater than value.
func Greater(field string, value any) *Filter {
	return leaf(func(v metadata.Value) filter.Expression { return filter.Compare(filter.OpGreater, field, v) }, value)
}

// In matches documents whose metadata field equals any of the values.
func In(field string, values ...any) *Filter {
	lits := make([]metadata.Value, len(values))
	for i, raw := range values {
		v, err := metadata.FromAny(raw)
		if err != nil {
			return &Filter{err: fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)}
		}
		lits[i] = v
	}
	return &Filter{expr: filter.In(field, lits...)}
}

func group(build func(...filter.Expression) filter.Expression, filters []*Filter) *Filter {
	children := make([]filter.Expression, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			continue
		}
		if f.err != nil {
			return &Filter{err: f.err}
		}
		children = append(children, f.expr)
	}
	return &Filter{expr: build(children...)}
}

// And matches documents satisfying every child filter.
func And(filters ...*Filter) *Filter {
	return group(filter.And, filters)
}

// Or matches documents satisfying at least one child filter.
func Or(filters ...*Filter) *Filter {
	return group(filter.Or, filters)
}
