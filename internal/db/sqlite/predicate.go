package sqlite

import (
	"fmt"
	"strings"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/metadata"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/search/filter"
)

// CompilePredicate lowers a filter expression into a SQL boolean fragment over
// the metadata column of the row table (aliased "e"), plus its bound
// arguments. Field paths and literals are both passed as parameters; only
// operator tokens and fixed SQL are interpolated. A nil expression compiles to
// the always-true predicate.
func CompilePredicate(expr *filter.Expression) (string, []any, error) {
	if expr == nil {
		return "TRUE", nil, nil
	}
	var sb strings.Builder
	var args []any
	if err := compileNode(*expr, &sb, &args); err != nil {
		return "", nil, err
	}
	return sb.String(), args, nil
}

func compileNode(e filter.Expression, sb *strings.Builder, args *[]any) error {
	switch {
	case e.IsEq():
		return compileCompare(filter.OpEqual, e.Field(), e.Literal(), sb, args)
	case e.IsCompare():
		if !e.Op().Valid() {
			return fmt.Errorf("%w: unknown comparison operator", domain.ErrInvalidFilter)
		}
		return compileCompare(e.Op(), e.Field(), e.Literal(), sb, args)
	case e.IsIn():
		return compileIn(e.Field(), e.Literals(), sb, args)
	case e.IsAnd():
		return compileGroup("AND", e.Children(), sb, args)
	case e.IsOr():
		return compileGroup("OR", e.Children(), sb, args)
	default:
		return fmt.Errorf("%w: unknown expression node", domain.ErrInvalidFilter)
	}
}

// fieldPath builds the json_extract path for a metadata field. The field name
// is validated against the identifier alphabet and still bound as a
// parameter, never spliced into the SQL text.
func fieldPath(field string) (string, error) {
	if err := ValidateFieldName(field); err != nil {
		return "", err
	}
	return `$."` + field + `"`, nil
}

func compileCompare(op filter.CompareOp, field string, lit metadata.Value, sb *strings.Builder, args *[]any) error {
	path, err := fieldPath(field)
	if err != nil {
		return err
	}
	if !lit.IsScalar() {
		return fmt.Errorf("%w: comparison literal must be scalar, got %s", domain.ErrInvalidFilter, lit.Kind())
	}
	switch lit.Kind() {
	case metadata.KindNull:
		if op != filter.OpEqual {
			return fmt.Errorf("%w: null literal only supports equality", domain.ErrInvalidFilter)
		}
		sb.WriteString("json_extract(e.metadata, ?) IS NULL")
		*args = append(*args, path)
	case metadata.KindNumber:
		// CAST keeps "2" and 2 comparable when ingestion stored a string.
		fmt.Fprintf(sb, "CAST(json_extract(e.metadata, ?) AS REAL) %s ?", op)
		*args = append(*args, path, lit.AsNumber())
	case metadata.KindBool:
		if op != filter.OpEqual {
			return fmt.Errorf("%w: bool literal only supports equality", domain.ErrInvalidFilter)
		}
		sb.WriteString("json_extract(e.metadata, ?) = ?")
		*args = append(*args, path, boolArg(lit.AsBool()))
	default:
		fmt.Fprintf(sb, "json_extract(e.metadata, ?) %s ?", op)
		*args = append(*args, path, lit.AsString())
	}
	return nil
}

func compileIn(field string, lits []metadata.Value, sb *strings.Builder, args *[]any) error {
	if len(lits) == 0 {
		return fmt.Errorf("%w: empty membership list", domain.ErrInvalidFilter)
	}
	path, err := fieldPath(field)
	if err != nil {
		return err
	}
	sb.WriteString("json_extract(e.metadata, ?) IN (")
	*args = append(*args, path)
	for i, lit := range lits {
		if !lit.IsScalar() || lit.Kind() == metadata.KindNull {
			return fmt.Errorf("%w: membership literal must be a non-null scalar, got %s", domain.ErrInvalidFilter, lit.Kind())
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('?')
		switch lit.Kind() {
		case metadata.KindNumber:
			*args = append(*args, lit.AsNumber())
		case metadata.KindBool:
			*args = append(*args, boolArg(lit.AsBool()))
		default:
			*args = append(*args, lit.AsString())
		}
	}
	sb.WriteByte(')')
	return nil
}

func compileGroup(op string, children []filter.Expression, sb *strings.Builder, args *[]any) error {
	if len(children) == 0 {
		return fmt.Errorf("%w: empty %s group", domain.ErrInvalidFilter, strings.ToLower(op))
	}
	sb.WriteByte('(')
	for i, child := range children {
		if i > 0 {
			sb.WriteString(" " + op + " ")
		}
		if err := compileNode(child, sb, args); err != nil {
			return err
		}
	}
	sb.WriteByte(')')
	return nil
}

// boolArg matches json_extract output, which surfaces JSON booleans as 0/1.
func boolArg(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
