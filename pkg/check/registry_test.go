package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.datacheck/pkg/check"
	"digital.vasic.datacheck/pkg/table"
)

func TestDefaultRegistry_RegistersAllBuiltins(t *testing.T) {
	r := check.DefaultRegistry()

	builtins := []string{
		"eq", "ne", "gt", "ge", "lt", "le",
		"in_range", "isin", "notin",
		"str_contains", "str_matches",
		"str_startswith", "str_endswith", "str_length",
	}

	for _, name := range builtins {
		assert.True(t, r.Has(name),
			"missing built-in check type: %s", name)
	}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := check.DefaultRegistry()

	err := r.Register("gt", func(
		_ map[string]any, _ ...check.Option,
	) (*check.Check, error) {
		return check.Gt(0), nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_Build_Unknown(t *testing.T) {
	r := check.DefaultRegistry()

	_, err := r.Build("nonexistent", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown check type")
}

func TestRegistry_Build_MissingParam(t *testing.T) {
	r := check.DefaultRegistry()

	_, err := r.Build("gt", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_value")
}

func TestRegistry_Build_EvaluatesLikeFactory(t *testing.T) {
	r := check.DefaultRegistry()

	c, err := r.Build("gt", map[string]any{"min_value": 0})
	require.NoError(t, err)

	col := table.NewColumn("x", []any{1, -1})
	res, err := check.NewBackend(c).Run(col, "")
	require.NoError(t, err)
	assert.False(t, res.Passed)
	require.Len(t, res.FailureCases, 1)
	assert.Equal(t, -1, res.FailureCases[0].Value)
}

func TestRegistry_Build_ThreadsOptions(t *testing.T) {
	r := check.DefaultRegistry()

	c, err := r.Build("gt",
		map[string]any{"min_value": 0},
		check.WithNFailureCases(1),
		check.WithIgnoreNA(true),
	)
	require.NoError(t, err)

	assert.Equal(t, 1, c.NFailureCases())
	assert.True(t, c.IgnoreNA())
}

func TestRegistry_Build_CustomBuilder(t *testing.T) {
	r := check.NewRegistry()

	err := r.Register("always-true", func(
		_ map[string]any, opts ...check.Option,
	) (*check.Check, error) {
		return check.New("always-true",
			func(_ table.Object) (check.Output, error) {
				return check.BoolScalar(true), nil
			}, opts...), nil
	})
	require.NoError(t, err)

	c, err := r.Build("always-true", nil)
	require.NoError(t, err)

	res, err := check.NewBackend(c).Run(
		table.NewColumn("x", []any{1}), "",
	)
	require.NoError(t, err)
	assert.True(t, res.Passed)
}
