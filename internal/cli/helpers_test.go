package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const contactMapping = `package mappings

entity: Contact: fields: {
	FirstName: "fname"
	LastName:  "lname"
}
`

const adultsQuery = `name: adults
entity: Contact
collection: default
where:
  - gt: [{member: Age}, 10]
order_by:
  - key: {member: FirstName}
`

const adultsStatement = "SELECT e FROM default as e WHERE (e.age > 10) ORDER BY e.fname ASC"

// runCLI executes the root command and captures its output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// mappingsDir writes the Contact mapping and returns its directory.
func mappingsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "contact.cue", contactMapping)
	return dir
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}
