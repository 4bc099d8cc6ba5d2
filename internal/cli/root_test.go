package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/launchdash/internal/cli/commands"
	"github.com/leapstack-labs/launchdash/internal/cli/config"
	"github.com/leapstack-labs/launchdash/internal/testutil"
)

// execute runs the root command with args from an empty working directory.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"serve", "summary", "render", "import", "init", "version", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "source", "dataset", "dsn", "table", "log-level", "verbose", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_Summary(t *testing.T) {
	csvPath := testutil.WriteLaunchCSV(t, testutil.ScenarioRecords())

	stdout, _, err := execute(t, "--dataset", csvPath, "summary", "-o", "json")
	require.NoError(t, err)

	var summary commands.Summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, "csv:"+csvPath, summary.Source)
	assert.Equal(t, 6, summary.Records)
	require.Len(t, summary.Sites, 2)
	assert.Equal(t, "A", summary.Sites[0].Site)
}

func TestRootCommand_ConfigStoredInContext(t *testing.T) {
	csvPath := testutil.WriteLaunchCSV(t, testutil.SpaceXRecords())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"--dataset", csvPath, "--log-level", "warn", "summary"})
	require.NoError(t, root.Execute())

	summary, _, err := root.Find([]string{"summary"})
	require.NoError(t, err)
	cfg := GetConfig(summary.Context())
	require.NotNil(t, cfg)
	assert.Equal(t, csvPath, cfg.Dataset.Path)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NotNil(t, config.GetLogger(summary.Context()))
}

func TestRootCommand_VerboseLogsToStderr(t *testing.T) {
	csvPath := testutil.WriteLaunchCSV(t, testutil.ScenarioRecords())

	stdout, stderr, err := execute(t, "-v", "--dataset", csvPath, "summary", "-o", "json")
	require.NoError(t, err)

	assert.Contains(t, stderr, "dataset loaded")
	assert.NotContains(t, stdout, "dataset loaded", "logs must not mix with results")
}

func TestRootCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown source",
			args:    []string{"--source", "parquet", "summary"},
			wantErr: "invalid configuration",
		},
		{
			name:    "bad output format",
			args:    []string{"summary", "-o", "xml"},
			wantErr: "output must be one of",
		},
		{
			name:    "missing dataset",
			args:    []string{"summary"},
			wantErr: "spacex_launch_dash.csv",
		},
		{
			name:    "serve rejects port zero",
			args:    []string{"serve", "--port", "0"},
			wantErr: "server.port",
		},
		{
			name:    "serve load failure",
			args:    []string{"serve", "--dataset", "nope.csv"},
			wantErr: "failed to load dataset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRootCommand_VersionSkipsValidation(t *testing.T) {
	stdout, _, err := execute(t, "--source", "parquet", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "launchdash v"+Version)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := execute(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, "launchdash")
		})
	}

	_, _, err := execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
