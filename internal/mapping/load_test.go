package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCUE(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "contact.cue", `package mappings

entity: Contact: fields: {
	FirstName: "fname"
	LastName:  "lname"
}
`)
	writeCUE(t, dir, "order.cue", `package mappings

entity: Order: convention: "snake"
`)

	result, errs := Load(dir, LoadModeCollectAll)
	require.Empty(t, errs)
	assert.Equal(t, 2, result.FileCount)
	require.Len(t, result.Entities, 2)

	names := []string{result.Entities[0].Name, result.Entities[1].Name}
	assert.ElementsMatch(t, []string{"Contact", "Order"}, names)
}

func TestLoadMapper(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "contact.cue", `package mappings

entity: Contact: fields: FirstName: "fname"
entity: Order: convention: "snake"
`)

	m, err := LoadMapper(dir)
	require.NoError(t, err)
	assert.Equal(t, "fname", m.FieldName("Contact", "FirstName"))
	assert.Equal(t, "age", m.FieldName("Contact", "Age"))
	assert.Equal(t, "order_date", m.FieldName("Order", "OrderDate"))
}

func TestLoad_ValidationErrors(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "bad.cue", `package mappings

entity: Contact: {
	convention: "kebab"
	fields: {A: "x", B: "x"}
}
`)

	_, errs := Load(dir, LoadModeCollectAll)
	require.Len(t, errs, 2)
	var codes []string
	for _, err := range errs {
		var le *LoadError
		require.ErrorAs(t, err, &le)
		codes = append(codes, le.Code)
	}
	assert.Equal(t, []string{ErrUnknownConvention, ErrDuplicateFieldName}, codes)

	_, errs = Load(dir, LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestLoad_DirectoryErrors(t *testing.T) {
	_, errs := Load(filepath.Join(t.TempDir(), "nope"), LoadModeFailFast)
	require.Len(t, errs, 1)
	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)

	_, errs = Load(t.TempDir(), LoadModeFailFast)
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeNoFiles, le.Code)

	dir := t.TempDir()
	writeCUE(t, dir, "empty.cue", "package mappings\n\nother: 1\n")
	_, errs = Load(dir, LoadModeFailFast)
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeGeneric, le.Code)
}

func TestLoad_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "broken.cue", "package mappings\n\nentity: {\n")

	_, errs := Load(dir, LoadModeFailFast)
	require.Len(t, errs, 1)
	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Contains(t, []string{ErrCodeLoadFailed, ErrCodeBuildFailed}, le.Code)
}
