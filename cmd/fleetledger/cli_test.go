package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

// invoke run the CLI once, feeding stdin, and capture stdout
//
// Flag values persist between invocations, so each case keeps to flags it can reuse.
func invoke(t *testing.T, stdin string, args ...string) (int, string) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	}()
	code := run(context.Background(), args)
	t.Logf("fleetledger %s => %d\n%s", strings.Join(args, " "), code, out.String())
	return code, out.String()
}

func TestCLIWorkflow(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	workDir := t.TempDir()
	testDB := fmt.Sprintf("/tmp/fleetledger_ut_%s.db", ulid.Make().String())
	configFile := filepath.Join(workDir, "fleetledger.yaml")
	assert.Nil(os.WriteFile(configFile, []byte(fmt.Sprintf(`
db:
  dialect: sqlite
  dsn: %s
  log_level: silent
log:
  level: debug
ledger:
  actor: dispatcher@example.com
`, testDB)), 0o644))
	cfg := "--config=" + configFile

	// Case 0: nothing works before the store is prepared
	code, _ := invoke(t, "", "history", cfg, "--fleet-number", "1")
	assert.NotEqual(exitSuccess, code)

	// Case 1: prepare the store
	code, out := invoke(t, "", "init", cfg)
	assert.Equal(exitSuccess, code)
	assert.Contains(out, "Fleet ledger initialized")

	// Case 2: create a record
	code, out = invoke(
		t, "", "add", cfg,
		"--set", "broker=Acme Logistics",
		"--set", "Sales Rate=1000",
		"--set", "indentDate=17-05-2024",
	)
	assert.Equal(exitSuccess, code)
	assert.Contains(out, "Created fleet number 1")

	// Case 3: edit it, confirming at the prompt
	code, out = invoke(
		t, "y\n", "update", cfg, "--fleet-number", "1",
		"--set", "salesRate=1500", "--set", "Origin=Pune",
	)
	assert.Equal(exitSuccess, code)
	assert.Contains(
		out,
		"Are you sure you want to update this record?\nChanges: Updated Origin, Updated Sales Rate",
	)
	assert.Contains(out, "Fleet number 1 updated")

	// Case 4: both versions are listed
	code, out = invoke(t, "", "history", cfg, "--fleet-number", "1")
	assert.Equal(exitSuccess, code)
	assert.Contains(out, "Updated Origin, Updated Sales Rate")
	assert.Contains(out, "Acme Logistics")

	// Case 5: every write was logged
	code, out = invoke(t, "", "changelog", cfg, "--fleet-number", "1")
	assert.Equal(exitSuccess, code)
	assert.Equal(2, strings.Count(out, "CREATE"))
	assert.Equal(1, strings.Count(out, "UPDATE"))
	assert.Contains(out, "dispatcher@example.com")

	// Case 6: declining a delete changes nothing
	code, out = invoke(t, "n\n", "delete", cfg, "--fleet-number", "1")
	assert.Equal(exitUserError, code)
	assert.Contains(out, "Delete ALL 2 versions for fleet number 1?")

	// Case 7: export the history, then import it back as new records
	exportFile := filepath.Join(workDir, "history.xlsx")
	code, out = invoke(t, "", "export", cfg, "--fleet-number", "1", "--out", exportFile)
	assert.Equal(exitSuccess, code)
	assert.Contains(out, "Exported 2 versions")

	code, out = invoke(t, "", "import", cfg, exportFile)
	assert.Equal(exitSuccess, code)
	assert.Contains(out, "created fleet number 2")
	assert.Contains(out, "created fleet number 3")

	// Case 8: a rejected search
	code, out = invoke(t, "", "export", cfg, "--fleet-number", "")
	assert.Equal(exitUserError, code)
	assert.Contains(out, "Please enter a search value.")

	// Case 9: the edited record as JSON
	code, out = invoke(t, "", "search", cfg, "--json", "--fleet-number", "1")
	assert.Equal(exitSuccess, code)
	var parsed struct {
		Current []map[string]any `json:"current"`
		History []map[string]any `json:"history"`
	}
	assert.Nil(json.Unmarshal([]byte(out[strings.Index(out, "{"):]), &parsed))
	assert.Len(parsed.Current, 1)
	assert.Len(parsed.History, 2)
	if len(parsed.Current) == 1 {
		assert.Equal("1500", parsed.Current[0]["salesRate"])
		assert.Equal("Pune", parsed.Current[0]["origin"])
		assert.Equal("dispatcher@example.com", parsed.Current[0]["createdBy"])
	}
}
