package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.datacheck/pkg/check"
	"digital.vasic.datacheck/pkg/schema"
	"digital.vasic.datacheck/pkg/table"
)

func TestField_ValidatePasses(t *testing.T) {
	f := &schema.Field{
		Name:  "age",
		DType: schema.DTypeInt,
		Checks: []*check.Check{
			check.Ge(0),
		},
	}

	col := table.NewColumn("age", []any{18, 42, 7})
	out, err := f.Validate(col)
	require.NoError(t, err)
	assert.True(t, out.Equal(col))
}

func TestField_ValidateWrongName(t *testing.T) {
	f := &schema.Field{Name: "age"}

	col := table.NewColumn("years", []any{1, 2})
	_, err := f.Validate(col)
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, schema.ReasonWrongName, schemaErr.ReasonCode)
	require.Len(t, schemaErr.FailureCases, 1)
	assert.Equal(t, "years", schemaErr.FailureCases[0].Value)
}

func TestField_ValidateNotNullable(t *testing.T) {
	f := &schema.Field{Name: "score"}

	col := table.NewColumn("score", []any{1.0, nil, 3.0})
	_, err := f.Validate(col)
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(
		t, schema.ReasonNotNullable, schemaErr.ReasonCode,
	)
	require.Len(t, schemaErr.FailureCases, 1)
	assert.Equal(t, 1, schemaErr.FailureCases[0].Index)
}

func TestField_ValidateNullableAllowsNA(t *testing.T) {
	f := &schema.Field{Name: "score", Nullable: true}

	col := table.NewColumn("score", []any{1.0, nil, 3.0})
	_, err := f.Validate(col)
	assert.NoError(t, err)
}

func TestField_ValidateUnique(t *testing.T) {
	f := &schema.Field{Name: "id", Unique: true}

	col := table.NewColumn("id", []any{"a", "b", "a", "c", "b"})
	_, err := f.Validate(col)
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(
		t, schema.ReasonDuplicates, schemaErr.ReasonCode,
	)
	// Only the second and later occurrences are duplicates.
	require.Len(t, schemaErr.FailureCases, 2)
	assert.Equal(t, 2, schemaErr.FailureCases[0].Index)
	assert.Equal(t, 4, schemaErr.FailureCases[1].Index)
}

func TestField_ValidateWrongDType(t *testing.T) {
	f := &schema.Field{Name: "count", DType: schema.DTypeInt}

	col := table.NewColumn("count", []any{1, "two", 3})
	_, err := f.Validate(col)
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, schema.ReasonWrongDType, schemaErr.ReasonCode)
	require.Len(t, schemaErr.FailureCases, 1)
	assert.Equal(t, "two", schemaErr.FailureCases[0].Value)
}

func TestField_ValidateCoerce(t *testing.T) {
	f := &schema.Field{
		Name:   "count",
		DType:  schema.DTypeInt,
		Coerce: true,
	}

	col := table.NewColumn("count", []any{"1", 2.0, 3})
	out, err := f.Validate(col)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, out.Values)

	// The input column is untouched.
	assert.Equal(t, "1", col.Values[0])
}

func TestField_ValidateCoerceFailure(t *testing.T) {
	f := &schema.Field{
		Name:   "count",
		DType:  schema.DTypeInt,
		Coerce: true,
	}

	col := table.NewColumn("count", []any{"1", "nope", "3"})
	_, err := f.Validate(col)
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(
		t, schema.ReasonCoerceFailure, schemaErr.ReasonCode,
	)
	require.Len(t, schemaErr.FailureCases, 1)
	assert.Equal(t, "nope", schemaErr.FailureCases[0].Value)
}

func TestField_ValidateCheckFailure(t *testing.T) {
	f := &schema.Field{
		Name: "price",
		Checks: []*check.Check{
			check.Gt(0, check.WithError("price must be positive")),
		},
	}

	col := table.NewColumn("price", []any{10.0, -2.5, 4.0})
	_, err := f.Validate(col)
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(
		t, schema.ReasonCheckFailure, schemaErr.ReasonCode,
	)
	assert.Contains(t, schemaErr.Message, "price must be positive")
	require.Len(t, schemaErr.FailureCases, 1)
	assert.Equal(t, -2.5, schemaErr.FailureCases[0].Value)
}

func TestField_ValidateCheckError(t *testing.T) {
	broken := check.NewElementWise(
		"broken",
		func(v any) (bool, error) {
			return false, errors.New("predicate exploded")
		},
	)
	f := &schema.Field{Name: "x", Checks: []*check.Check{broken}}

	col := table.NewColumn("x", []any{1})
	_, err := f.Validate(col)
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, schema.ReasonCheckError, schemaErr.ReasonCode)
	assert.Contains(t, schemaErr.Message, "predicate exploded")
}

func TestField_ValidateCheckPanicRecovered(t *testing.T) {
	panicky := check.NewElementWise(
		"panicky",
		func(v any) (bool, error) {
			panic("boom")
		},
	)
	f := &schema.Field{Name: "x", Checks: []*check.Check{panicky}}

	col := table.NewColumn("x", []any{1})
	_, err := f.Validate(col)
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, schema.ReasonCheckError, schemaErr.ReasonCode)
	assert.Contains(t, schemaErr.Message, "boom")
}

func TestField_ValidateLazyAggregates(t *testing.T) {
	f := &schema.Field{
		Name:   "n",
		DType:  schema.DTypeInt,
		Unique: true,
		Checks: []*check.Check{check.Gt(0)},
	}

	col := table.NewColumn("n", []any{-1, -1, "x"})
	_, err := f.Validate(col, schema.Lazy())
	require.Error(t, err)

	var agg *schema.Errors
	require.ErrorAs(t, err, &agg)
	reasons := make([]string, 0, len(agg.Errors))
	for _, e := range agg.Errors {
		reasons = append(reasons, e.ReasonCode)
	}
	assert.Contains(t, reasons, schema.ReasonDuplicates)
	assert.Contains(t, reasons, schema.ReasonWrongDType)
	assert.Contains(t, reasons, schema.ReasonCheckFailure)
}

func TestField_ValidateGroupedCheckNeedsTable(t *testing.T) {
	grouped := check.New(
		"per_group",
		func(obj table.Object) (check.Output, error) {
			return check.BoolScalar(true), nil
		},
		check.WithGroupBy(check.ByColumn("dept")),
	)
	f := &schema.Field{
		Name:   "salary",
		Checks: []*check.Check{grouped},
	}

	col := table.NewColumn("salary", []any{1, 2})
	_, err := f.Validate(col)
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, schema.ReasonCheckError, schemaErr.ReasonCode)
	assert.Contains(t, schemaErr.Message, "table context")
}

func TestField_ValidateHeadLimitsScope(t *testing.T) {
	f := &schema.Field{
		Name:   "v",
		Checks: []*check.Check{check.Gt(0)},
	}

	// The failing value sits outside the head window.
	col := table.NewColumn("v", []any{1, 2, -3})
	_, err := f.Validate(col, schema.Head(2))
	assert.NoError(t, err)

	_, err = f.Validate(col, schema.Head(3))
	assert.Error(t, err)
}

func TestField_ValidateTailLimitsScope(t *testing.T) {
	f := &schema.Field{
		Name:   "v",
		Checks: []*check.Check{check.Gt(0)},
	}

	col := table.NewColumn("v", []any{-1, 2, 3})
	_, err := f.Validate(col, schema.Tail(2))
	assert.NoError(t, err)
}

func TestField_ValidateSampleDeterministic(t *testing.T) {
	f := &schema.Field{
		Name:   "v",
		Checks: []*check.Check{check.Gt(0)},
	}

	values := make([]any, 100)
	for i := range values {
		values[i] = 1
	}
	values[37] = -1
	col := table.NewColumn("v", values)

	_, first := f.Validate(col, schema.Sample(20, 7))
	_, second := f.Validate(col, schema.Sample(20, 7))
	assert.Equal(t, first == nil, second == nil)
}

func TestField_ValidateInPlaceMutates(t *testing.T) {
	f := &schema.Field{
		Name:   "n",
		DType:  schema.DTypeFloat,
		Coerce: true,
	}

	col := table.NewColumn("n", []any{1, 2})
	out, err := f.Validate(col, schema.InPlace())
	require.NoError(t, err)
	assert.Same(t, col, out)
	assert.Equal(t, float64(1), col.Values[0])
}
