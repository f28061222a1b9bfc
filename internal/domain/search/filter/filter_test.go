package filter

import (
	"testing"

	"github.com/ridgeline-cloud/chunkdex/internal/domain/metadata"
)

func TestConstructorsSetKinds(t *testing.T) {
	eq := Eq("a", metadata.String("x"))
	if !eq.IsEq() || eq.Field() != "a" || eq.Op() != OpEqual {
		t.Errorf("Eq node malformed: %+v", eq)
	}

	cmp := Compare(OpLess, "n", metadata.Number(5))
	if !cmp.IsCompare() || cmp.Op() != OpLess {
		t.Errorf("Compare node malformed: %+v", cmp)
	}

	in := In("a", metadata.String("x"), metadata.String("y"))
	if !in.IsIn() || len(in.Literals()) != 2 {
		t.Errorf("In node malformed: %+v", in)
	}

	and := And(eq, cmp)
	if !and.IsAnd() || len(and.Children()) != 2 {
		t.Errorf("And node malformed: %+v", and)
	}

	or := Or(eq)
	if !or.IsOr() || len(or.Children()) != 1 {
		t.Errorf("Or node malformed: %+v", or)
	}
}

func TestCompareOp_String(t *testing.T) {
	cases := map[CompareOp]string{OpLess: "<", OpEqual: "=", OpGreater: ">"}
	for op, want := range cases {
		if op.String() != want {
			t.Errorf("%d.String() = %q, want %q", op, op.String(), want)
		}
	}
	if CompareOp(99).Valid() {
		t.Error("out-of-range op reported valid")
	}
}

func TestEmptyGroupsAreConstructible(t *testing.T) {
	// Constructors stay pure; the compiler is where empty groups fail.
	if got := len(And().Children()); got != 0 {
		t.Errorf("And().Children() = %d", got)
	}
	if got := len(Or().Children()); got != 0 {
		t.Errorf("Or().Children() = %d", got)
	}
}
