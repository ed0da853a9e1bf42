package querydef

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultAlias is used when a definition does not name one.
const DefaultAlias = "e"

// Definition is one query described in YAML.
type Definition struct {
	// Name uniquely identifies this query.
	Name string `yaml:"name"`

	// Description explains what the query selects.
	Description string `yaml:"description,omitempty"`

	// Entity is the typed entity stored in the collection.
	Entity string `yaml:"entity"`

	// Collection is the keyspace queried.
	Collection string `yaml:"collection"`

	// Alias is the range variable. Defaults to "e".
	Alias string `yaml:"alias,omitempty"`

	// Vars are closed-over variables referenced with {var: name}.
	Vars map[string]any `yaml:"vars,omitempty"`

	// Where holds filter expressions, one top-level AND term each.
	Where []yaml.Node `yaml:"where,omitempty"`

	// Missing lists member paths asserted absent.
	Missing []string `yaml:"missing,omitempty"`

	// OrderBy lists sort keys in precedence order.
	OrderBy []OrderKey `yaml:"order_by,omitempty"`

	// Select is the projection. Empty selects the whole entity.
	Select []SelectField `yaml:"select,omitempty"`

	// Meta includes document metadata.
	Meta bool `yaml:"meta,omitempty"`

	// Take limits the result count.
	Take *int `yaml:"take,omitempty"`

	// Skip skips leading results.
	Skip *int `yaml:"skip,omitempty"`

	// Expect is the statement the query must compile to (scenarios only).
	Expect string `yaml:"expect,omitempty"`

	// ExpectError is the error code compilation must fail with (scenarios only).
	ExpectError string `yaml:"expect_error,omitempty"`

	// Path is the file the definition was loaded from.
	Path string `yaml:"-"`
}

// OrderKey is one sort key.
type OrderKey struct {
	Key yaml.Node `yaml:"key"`
	Dir string    `yaml:"dir,omitempty"`
}

// SelectField is one projected output.
type SelectField struct {
	As    string    `yaml:"as"`
	Value yaml.Node `yaml:"value"`
}

// Parse decodes a definition, rejecting unknown fields.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateDefinition(&def); err != nil {
		return nil, fmt.Errorf("invalid query definition: %w", err)
	}
	return &def, nil
}

// Load reads and parses a definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	def.Path = path
	return def, nil
}

// LoadDir loads every .yaml and .yml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var defs []*Definition
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		def, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// validateDefinition checks that required fields are present.
func validateDefinition(d *Definition) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Collection == "" {
		return fmt.Errorf("collection is required")
	}
	for i, o := range d.OrderBy {
		if !slices.Contains([]string{"", "asc", "desc"}, strings.ToLower(o.Dir)) {
			return fmt.Errorf("order_by[%d]: dir must be asc or desc, got %q", i, o.Dir)
		}
	}
	for i, s := range d.Select {
		if s.As == "" {
			return fmt.Errorf("select[%d]: as is required", i)
		}
	}
	if d.Expect != "" && d.ExpectError != "" {
		return fmt.Errorf("expect and expect_error are mutually exclusive")
	}
	return nil
}
