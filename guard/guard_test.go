package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kodiakgen/errors"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{
			name: "atom",
			expr: Atom("VK_VERSION_1_0"),
			want: "defined(VK_VERSION_1_0)",
		},
		{
			name: "and of atoms",
			expr: And{Atom("A"), Atom("B")},
			want: "defined(A) && defined(B)",
		},
		{
			name: "or inside and is parenthesized",
			expr: And{Atom("A"), Or{Atom("B"), Atom("C")}},
			want: "defined(A) && (defined(B) || defined(C))",
		},
		{
			name: "and inside or is parenthesized",
			expr: Or{And{Atom("A"), Atom("B")}, Atom("C")},
			want: "(defined(A) && defined(B)) || defined(C)",
		},
		{
			name: "union keeps first alternative bare",
			expr: Union{And{Atom("E"), Atom("F")}, Atom("V"), And{Atom("X"), Atom("Y")}},
			want: "defined(E) && defined(F) || (defined(V)) || (defined(X) && defined(Y))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
			assert.Equal(t, tt.want, Key(tt.expr))
		})
	}
}

func TestKeyNil(t *testing.T) {
	assert.Equal(t, "", Key(nil))
}

func TestConjFlattens(t *testing.T) {
	e := Conj(Atom("A"), nil, And{Atom("B"), Atom("C")})
	assert.Equal(t, And{Atom("A"), Atom("B"), Atom("C")}, e)

	assert.Equal(t, Atom("A"), Conj(nil, Atom("A")))
	assert.Nil(t, Conj())
}

func TestDisjFlattens(t *testing.T) {
	e := Disj(Or{Atom("A"), Atom("B")}, Atom("C"))
	assert.Equal(t, Or{Atom("A"), Atom("B"), Atom("C")}, e)
	assert.Nil(t, Disj(nil))
}

func TestMerge(t *testing.T) {
	assert.Nil(t, Merge())
	assert.Equal(t, Atom("A"), Merge(Atom("A")))

	merged := Merge(Atom("V1_0"), Atom("ExtX"))
	assert.Equal(t, "defined(V1_0) || (defined(ExtX))", merged.String())
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(Atom("A")))
	require.NoError(t, Validate(Union{Atom("A"), And{Atom("B"), Atom("C")}}))
	require.NoError(t, Validate(And{Atom("E"), Depends("A+B,C")}))

	for _, bad := range []Expr{nil, Atom(""), Atom("  "), And{}, Or{Atom("A"), Atom("")}, Union{}, Depends(" "), And{Atom("E"), Depends("")}} {
		err := Validate(bad)
		require.Error(t, err, "%#v", bad)
		assert.True(t, errors.Is(err, errors.ErrEmptyGuard))
	}
}
