package fieldmap

import (
	"fmt"
	"maps"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the memo cache of resolved names.
const DefaultCacheSize = 4096

// Resolver resolves the document field name of an entity member.
type Resolver interface {
	FieldName(entity, member string) string
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(entity, member string) string

// FieldName implements Resolver.
func (f ResolverFunc) FieldName(entity, member string) string {
	return f(entity, member)
}

// Entity declares the field mapping of one entity type.
type Entity struct {
	// Name is the entity type name (e.g. "Contact").
	Name string

	// Convention overrides the mapper default for this entity.
	// Empty inherits the default.
	Convention Convention

	// Fields maps member names to explicit field names.
	Fields map[string]string
}

// Mapper is the default Resolver: explicit per-entity overrides over a
// naming convention.
type Mapper struct {
	convention Convention
	entities   map[string]Entity
	cacheSize  int
	cache      *lru.TwoQueueCache[string, string]
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithConvention sets the default convention.
func WithConvention(c Convention) MapperOption {
	return func(m *Mapper) {
		m.convention = c
	}
}

// WithEntity registers an entity mapping. A later registration for the same
// name replaces an earlier one. The Fields map is copied.
func WithEntity(e Entity) MapperOption {
	return func(m *Mapper) {
		e.Fields = maps.Clone(e.Fields)
		m.entities[e.Name] = e
	}
}

// WithEntities registers several entity mappings in order.
func WithEntities(entities ...Entity) MapperOption {
	return func(m *Mapper) {
		for _, e := range entities {
			WithEntity(e)(m)
		}
	}
}

// WithCacheSize sets the memo cache capacity.
func WithCacheSize(n int) MapperOption {
	return func(m *Mapper) {
		m.cacheSize = n
	}
}

// New creates a Mapper. With no options it applies LowerFirst to every
// member.
func New(opts ...MapperOption) (*Mapper, error) {
	m := &Mapper{
		convention: LowerFirst,
		entities:   make(map[string]Entity),
		cacheSize:  DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(m)
	}

	if _, err := ParseConvention(string(m.convention)); err != nil {
		return nil, err
	}
	for _, e := range m.entities {
		if e.Convention == "" {
			continue
		}
		if _, err := ParseConvention(string(e.Convention)); err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.Name, err)
		}
	}

	cache, err := lru.New2Q[string, string](m.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create field name cache: %w", err)
	}
	m.cache = cache
	return m, nil
}

// MustNew is like New but panics on error.
// Use only in tests or with known-good options.
func MustNew(opts ...MapperOption) *Mapper {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// FieldName implements Resolver.
func (m *Mapper) FieldName(entity, member string) string {
	key := entity + "\x00" + member
	if name, ok := m.cache.Get(key); ok {
		return name
	}
	name := m.resolve(entity, member)
	m.cache.Add(key, name)
	return name
}

func (m *Mapper) resolve(entity, member string) string {
	e, ok := m.entities[entity]
	if !ok {
		return m.convention.Apply(member)
	}
	if name, ok := e.Fields[member]; ok {
		return name
	}
	if e.Convention != "" {
		return e.Convention.Apply(member)
	}
	return m.convention.Apply(member)
}

// Convention returns the default convention.
func (m *Mapper) Convention() Convention {
	return m.convention
}

// Entity returns the registered mapping for name.
func (m *Mapper) Entity(name string) (Entity, bool) {
	e, ok := m.entities[name]
	if ok {
		e.Fields = maps.Clone(e.Fields)
	}
	return e, ok
}

// EntityNames returns the registered entity names, sorted.
func (m *Mapper) EntityNames() []string {
	return slices.Sorted(maps.Keys(m.entities))
}
