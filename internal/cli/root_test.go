package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "valet", cmd.Use)
	assert.Contains(t, cmd.Long, "software licenses")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"add", "list", "show", "edit", "delete", "export", "import",
		"attach", "attachments", "detach", "copy", "ui", "config",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		name     string
		defValue string
	}{
		{"verbose", "false"},
		{"format", "text"},
		{"db", ""},
		{"config", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}

	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestExecute_Success(t *testing.T) {
	dbPath, _ := seedStore(t, sampleLicense())
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	code := Execute([]string{
		"--db", dbPath,
		"--config", filepath.Join(t.TempDir(), "config.yaml"),
		"list",
	}, out, errOut)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out.String(), "App")
}

func TestExecute_NotFoundJSON(t *testing.T) {
	dbPath, _ := seedStore(t)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	code := Execute([]string{
		"--db", dbPath,
		"--config", filepath.Join(t.TempDir(), "config.yaml"),
		"--format", "json",
		"show", "missing",
	}, out, errOut)

	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, out.String())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
}

func TestExecute_UnknownCommand(t *testing.T) {
	errOut := &bytes.Buffer{}
	code := Execute([]string{"frobnicate"}, &bytes.Buffer{}, errOut)

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut.String(), "unknown command")
}

func TestExecute_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, writeFile(cfgPath, "toast_duration: soon\n"))

	errOut := &bytes.Buffer{}
	code := Execute([]string{"--config", cfgPath, "list"}, &bytes.Buffer{}, errOut)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut.String(), "failed to load config")
}
