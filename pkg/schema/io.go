package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"digital.vasic.datacheck/pkg/check"
)

// serializedTable is the on-disk form of a table schema.
type serializedTable struct {
	Name        string             `yaml:"name" json:"name"`
	Title       string             `yaml:"title,omitempty" json:"title,omitempty"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Strict      bool               `yaml:"strict,omitempty" json:"strict,omitempty"`
	Fields      []*serializedField `yaml:"fields" json:"fields"`
	Checks      []*serializedCheck `yaml:"checks,omitempty" json:"checks,omitempty"`
}

type serializedField struct {
	Name        string             `yaml:"name" json:"name"`
	DType       string             `yaml:"dtype,omitempty" json:"dtype,omitempty"`
	Nullable    bool               `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Unique      bool               `yaml:"unique,omitempty" json:"unique,omitempty"`
	Coerce      bool               `yaml:"coerce,omitempty" json:"coerce,omitempty"`
	Optional    bool               `yaml:"optional,omitempty" json:"optional,omitempty"`
	Title       string             `yaml:"title,omitempty" json:"title,omitempty"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Checks      []*serializedCheck `yaml:"checks,omitempty" json:"checks,omitempty"`
}

type serializedCheck struct {
	Type          string         `yaml:"type" json:"type"`
	Params        map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
	Error         string         `yaml:"error,omitempty" json:"error,omitempty"`
	IgnoreNA      bool           `yaml:"ignore_na,omitempty" json:"ignore_na,omitempty"`
	NFailureCases int            `yaml:"n_failure_cases,omitempty" json:"n_failure_cases,omitempty"`
}

// ToYAML serializes the schema, including its registered checks,
// to YAML. Checks that were not built from a registry cannot be
// serialized and produce an error.
func (s *Table) ToYAML(registry *check.Registry) ([]byte, error) {
	st, err := s.serialize(registry)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(st)
}

// ToJSON serializes the schema to indented JSON.
func (s *Table) ToJSON(registry *check.Registry) ([]byte, error) {
	st, err := s.serialize(registry)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(st, "", "  ")
}

// FromYAML deserializes a table schema, rebuilding its checks
// through the registry.
func FromYAML(
	data []byte,
	registry *check.Registry,
) (*Table, error) {
	var st serializedTable
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}
	return st.build(registry)
}

// FromJSON deserializes a table schema from JSON.
func FromJSON(
	data []byte,
	registry *check.Registry,
) (*Table, error) {
	var st serializedTable
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}
	return st.build(registry)
}

// LoadFile reads a schema from a .yaml, .yml or .json file.
func LoadFile(
	path string,
	registry *check.Registry,
) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAML(data, registry)
	case ".json":
		return FromJSON(data, registry)
	default:
		return nil, fmt.Errorf(
			"unsupported schema file extension: %s",
			filepath.Ext(path),
		)
	}
}

// SaveFile writes the schema to a .yaml, .yml or .json file.
func (s *Table) SaveFile(
	path string,
	registry *check.Registry,
) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = s.ToYAML(registry)
	case ".json":
		data, err = s.ToJSON(registry)
	default:
		return fmt.Errorf(
			"unsupported schema file extension: %s",
			filepath.Ext(path),
		)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Table) serialize(
	registry *check.Registry,
) (*serializedTable, error) {
	st := &serializedTable{
		Name:        s.Name,
		Title:       s.Title,
		Description: s.Description,
		Strict:      s.Strict,
	}

	for _, f := range s.Fields {
		sf := &serializedField{
			Name:        f.Name,
			DType:       dtypeName(f.DType),
			Nullable:    f.Nullable,
			Unique:      f.Unique,
			Coerce:      f.Coerce,
			Optional:    f.Optional,
			Title:       f.Title,
			Description: f.Description,
		}
		for _, c := range f.Checks {
			sc, err := serializeCheck(c, registry)
			if err != nil {
				return nil, fmt.Errorf(
					"field %q: %w", f.Name, err,
				)
			}
			sf.Checks = append(sf.Checks, sc)
		}
		st.Fields = append(st.Fields, sf)
	}

	for _, c := range s.Checks {
		sc, err := serializeCheck(c, registry)
		if err != nil {
			return nil, err
		}
		st.Checks = append(st.Checks, sc)
	}
	return st, nil
}

func serializeCheck(
	c *check.Check,
	registry *check.Registry,
) (*serializedCheck, error) {
	if !registry.Has(c.Name()) {
		return nil, fmt.Errorf(
			"check %q is not registered and cannot be serialized",
			c.Name(),
		)
	}
	if c.Statistics() == nil {
		return nil, fmt.Errorf(
			"check %q carries no parameters and cannot be serialized",
			c.Name(),
		)
	}
	return &serializedCheck{
		Type:          c.Name(),
		Params:        c.Statistics(),
		Error:         c.Error(),
		IgnoreNA:      c.IgnoreNA(),
		NFailureCases: c.NFailureCases(),
	}, nil
}

func (st *serializedTable) build(
	registry *check.Registry,
) (*Table, error) {
	s := &Table{
		Name:        st.Name,
		Title:       st.Title,
		Description: st.Description,
		Strict:      st.Strict,
	}

	for _, sf := range st.Fields {
		dtype, err := ParseDType(sf.DType)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", sf.Name, err)
		}
		f := &Field{
			Name:        sf.Name,
			DType:       dtype,
			Nullable:    sf.Nullable,
			Unique:      sf.Unique,
			Coerce:      sf.Coerce,
			Optional:    sf.Optional,
			Title:       sf.Title,
			Description: sf.Description,
		}
		for _, sc := range sf.Checks {
			c, err := sc.build(registry)
			if err != nil {
				return nil, fmt.Errorf(
					"field %q: %w", sf.Name, err,
				)
			}
			f.Checks = append(f.Checks, c)
		}
		s.Fields = append(s.Fields, f)
	}

	for _, sc := range st.Checks {
		c, err := sc.build(registry)
		if err != nil {
			return nil, err
		}
		s.Checks = append(s.Checks, c)
	}
	return s, nil
}

func (sc *serializedCheck) build(
	registry *check.Registry,
) (*check.Check, error) {
	opts := []check.Option{
		check.WithIgnoreNA(sc.IgnoreNA),
		check.WithNFailureCases(sc.NFailureCases),
	}
	if sc.Error != "" {
		opts = append(opts, check.WithError(sc.Error))
	}
	return registry.Build(sc.Type, sc.Params, opts...)
}

// dtypeName renders the dtype for serialization, omitting the
// permissive default.
func dtypeName(d DType) string {
	if d == DTypeAny {
		return ""
	}
	return d.String()
}
