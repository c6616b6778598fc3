package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.datacheck/pkg/check"
	"digital.vasic.datacheck/pkg/schema"
	"digital.vasic.datacheck/pkg/table"
)

const ordersYAML = `
name: orders
strict: true
fields:
  - name: sku
    dtype: string
    unique: true
  - name: qty
    dtype: int
    coerce: true
    checks:
      - type: gt
        params:
          value: 0
        error: quantity must be positive
  - name: price
    dtype: float
    nullable: true
    checks:
      - type: in_range
        params:
          min_value: 0
          max_value: 10000
        ignore_na: true
        n_failure_cases: 3
`

func TestFromYAML(t *testing.T) {
	s, err := schema.FromYAML(
		[]byte(ordersYAML), check.DefaultRegistry(),
	)
	require.NoError(t, err)

	assert.Equal(t, "orders", s.Name)
	assert.True(t, s.Strict)
	require.Len(t, s.Fields, 3)

	sku := s.Fields[0]
	assert.Equal(t, schema.DTypeString, sku.DType)
	assert.True(t, sku.Unique)

	qty := s.Fields[1]
	assert.True(t, qty.Coerce)
	require.Len(t, qty.Checks, 1)
	assert.Equal(t, "gt", qty.Checks[0].Name())
	assert.Equal(
		t, "quantity must be positive", qty.Checks[0].Error(),
	)

	price := s.Fields[2]
	assert.True(t, price.Nullable)
	require.Len(t, price.Checks, 1)
	assert.True(t, price.Checks[0].IgnoreNA())
	assert.Equal(t, 3, price.Checks[0].NFailureCases())
}

func TestFromYAML_LoadedSchemaValidates(t *testing.T) {
	s, err := schema.FromYAML(
		[]byte(ordersYAML), check.DefaultRegistry(),
	)
	require.NoError(t, err)

	good := table.MustNewTable(
		table.NewColumn("sku", []any{"a-1", "a-2"}),
		table.NewColumn("qty", []any{"2", 5}),
		table.NewColumn("price", []any{9.5, nil}),
	)
	_, err = s.Validate(good)
	assert.NoError(t, err)

	bad := table.MustNewTable(
		table.NewColumn("sku", []any{"a-1", "a-2"}),
		table.NewColumn("qty", []any{0, 5}),
		table.NewColumn("price", []any{9.5, 1.0}),
	)
	_, err = s.Validate(bad)
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(
		t, schemaErr.Message, "quantity must be positive",
	)
}

func TestFromYAML_UnknownCheckType(t *testing.T) {
	doc := `
name: bad
fields:
  - name: x
    checks:
      - type: no_such_check
        params: {}
`
	_, err := schema.FromYAML(
		[]byte(doc), check.DefaultRegistry(),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown check type")
}

func TestFromYAML_UnknownDType(t *testing.T) {
	doc := `
name: bad
fields:
  - name: x
    dtype: decimal
`
	_, err := schema.FromYAML(
		[]byte(doc), check.DefaultRegistry(),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimal")
}

func TestToYAML_RoundTrip(t *testing.T) {
	registry := check.DefaultRegistry()
	s, err := schema.FromYAML([]byte(ordersYAML), registry)
	require.NoError(t, err)

	data, err := s.ToYAML(registry)
	require.NoError(t, err)

	again, err := schema.FromYAML(data, registry)
	require.NoError(t, err)

	assert.Equal(t, s.Name, again.Name)
	assert.Equal(t, s.Strict, again.Strict)
	require.Len(t, again.Fields, len(s.Fields))
	for i, f := range s.Fields {
		assert.Equal(t, f.Name, again.Fields[i].Name)
		assert.Equal(t, f.DType, again.Fields[i].DType)
		assert.Len(t, again.Fields[i].Checks, len(f.Checks))
	}
}

func TestToYAML_UnregisteredCheck(t *testing.T) {
	s := &schema.Table{
		Name: "custom",
		Fields: []*schema.Field{
			{
				Name: "x",
				Checks: []*check.Check{
					check.NewElementWise(
						"homegrown",
						func(v any) (bool, error) {
							return true, nil
						},
					),
				},
			},
		},
	}

	_, err := s.ToYAML(check.DefaultRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "homegrown")
}

func TestLoadFile_YAMLAndJSON(t *testing.T) {
	registry := check.DefaultRegistry()
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "orders.yaml")
	require.NoError(
		t, os.WriteFile(yamlPath, []byte(ordersYAML), 0644),
	)
	s, err := schema.LoadFile(yamlPath, registry)
	require.NoError(t, err)
	assert.Equal(t, "orders", s.Name)

	jsonPath := filepath.Join(dir, "orders.json")
	require.NoError(t, s.SaveFile(jsonPath, registry))
	again, err := schema.LoadFile(jsonPath, registry)
	require.NoError(t, err)
	assert.Equal(t, "orders", again.Name)
	assert.Len(t, again.Fields, 3)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.toml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := schema.LoadFile(path, check.DefaultRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".toml")
}

func TestSaveFile_RoundTripValidates(t *testing.T) {
	registry := check.DefaultRegistry()
	s, err := schema.FromYAML([]byte(ordersYAML), registry)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "orders.yml")
	require.NoError(t, s.SaveFile(path, registry))

	again, err := schema.LoadFile(path, registry)
	require.NoError(t, err)

	data := table.MustNewTable(
		table.NewColumn("sku", []any{"a-1"}),
		table.NewColumn("qty", []any{1}),
		table.NewColumn("price", []any{2.0}),
	)
	_, err = again.Validate(data)
	assert.NoError(t, err)
}
