package fieldmap

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_DefaultLowerFirst(t *testing.T) {
	m := MustNew()

	assert.Equal(t, "firstName", m.FieldName("Contact", "FirstName"))
	assert.Equal(t, "age", m.FieldName("Contact", "Age"))
	assert.Equal(t, "already", m.FieldName("Contact", "already"))
	assert.Equal(t, "", m.FieldName("Contact", ""))
}

func TestMapper_EntityOverridesWin(t *testing.T) {
	m := MustNew(WithEntity(Entity{
		Name:   "Contact",
		Fields: map[string]string{"FirstName": "fname", "LastName": "lname"},
	}))

	assert.Equal(t, "fname", m.FieldName("Contact", "FirstName"))
	assert.Equal(t, "lname", m.FieldName("Contact", "LastName"))
	assert.Equal(t, "age", m.FieldName("Contact", "Age"))
	// Overrides are per entity.
	assert.Equal(t, "firstName", m.FieldName("Person", "FirstName"))
}

func TestMapper_EntityConvention(t *testing.T) {
	m := MustNew(
		WithConvention(Verbatim),
		WithEntity(Entity{Name: "Order", Convention: Snake}),
	)

	assert.Equal(t, "order_date", m.FieldName("Order", "OrderDate"))
	assert.Equal(t, "OrderDate", m.FieldName("Invoice", "OrderDate"))
}

func TestMapper_CopiesFields(t *testing.T) {
	fields := map[string]string{"FirstName": "fname"}
	m := MustNew(WithEntity(Entity{Name: "Contact", Fields: fields}))
	fields["FirstName"] = "changed"

	assert.Equal(t, "fname", m.FieldName("Contact", "FirstName"))

	e, ok := m.Entity("Contact")
	require.True(t, ok)
	e.Fields["FirstName"] = "mutated"
	assert.Equal(t, "fname", m.FieldName("Contact", "FirstName"))
}

func TestMapper_IsPure(t *testing.T) {
	m := MustNew(WithEntity(Entity{Name: "Contact", Fields: map[string]string{"Email": "mail"}}))

	first := m.FieldName("Contact", "Email")
	second := m.FieldName("Contact", "Email")
	assert.Equal(t, first, second)
}

func TestMapper_ConcurrentReads(t *testing.T) {
	m := MustNew(WithCacheSize(8))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				member := fmt.Sprintf("Field%d", (i+j)%20)
				assert.Equal(t, fmt.Sprintf("field%d", (i+j)%20), m.FieldName("Contact", member))
			}
		}()
	}
	wg.Wait()
}

func TestNew_Errors(t *testing.T) {
	_, err := New(WithConvention("kebab"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kebab")

	_, err = New(WithEntity(Entity{Name: "Contact", Convention: "shouty"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity Contact")

	_, err = New(WithCacheSize(0))
	require.Error(t, err)
}

func TestEntityNames(t *testing.T) {
	m := MustNew(WithEntities(Entity{Name: "Order"}, Entity{Name: "Contact"}))
	assert.Equal(t, []string{"Contact", "Order"}, m.EntityNames())
}

func TestResolverFunc(t *testing.T) {
	var r Resolver = ResolverFunc(func(entity, member string) string {
		return entity + "_" + member
	})
	assert.Equal(t, "Contact_Age", r.FieldName("Contact", "Age"))
}
