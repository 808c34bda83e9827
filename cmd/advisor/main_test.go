package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/loan-advisor/internal/advisor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with an isolated config file.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("logging:\n  level: error\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd(nil)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "advisor dev\n", out)
}

func TestEMI_Defaults(t *testing.T) {
	out, err := run(t, "emi")
	require.NoError(t, err)

	assert.Contains(t, out, "Monthly EMI:    $2027.64")
	assert.Contains(t, out, "Total payment:  $121658.37")
	assert.Contains(t, out, "60 months")
	assert.NotContains(t, out, "Balance")
}

func TestEMI_Schedule(t *testing.T) {
	out, err := run(t, "emi", "--amount", "1200", "--months", "12", "--rate", "0", "--schedule")
	require.NoError(t, err)

	assert.Contains(t, out, "Monthly EMI:    $100.00")
	assert.Contains(t, out, "Balance")
	assert.Contains(t, out, "   12")
}

func TestEMI_InvalidInput(t *testing.T) {
	tests := [][]string{
		{"--months", "0"},
		{"--months", "100000000", "--schedule"},
		{"--amount", "1e308"},
		{"--rate", "-1"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			out, err := run(t, append([]string{"emi"}, args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, advisor.ErrInvalidLoanTerms)
			assert.Empty(t, out)
		})
	}
}

func TestAsk_WithoutProfileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")

	out, err := run(t, "--profile", missing, "ask", "what", "is", "my", "emi")
	require.NoError(t, err)
	assert.Contains(t, out, "2027.64")
}

func TestAsk_WithProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("username: priya\ncredit_history: excellent\nannual_salary: 60000\n"), 0o600))

	out, err := run(t, "--profile", path, "ask", "am I eligible for a loan?")
	require.NoError(t, err)
	assert.Contains(t, out, "high probability of loan approval")
}

func TestProfile_RequiresFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")

	_, err := run(t, "--profile", missing, "profile")
	assert.Error(t, err)
}

func TestReplay(t *testing.T) {
	dir := t.TempDir()
	questions := filepath.Join(dir, "questions.txt")
	require.NoError(t, os.WriteFile(questions, []byte("# warm up\nhello\n\nwhat documents do I need?\n"), 0o600))

	out, err := run(t, "--profile", filepath.Join(dir, "none.yaml"), "replay", "--no-delay", "--quiet", questions)
	require.NoError(t, err)

	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "what documents do I need?")
	assert.NotContains(t, out, "warm up")
}

func TestReplay_EmptyFile(t *testing.T) {
	questions := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(questions, []byte("# nothing\n"), 0o600))

	_, err := run(t, "replay", questions)
	assert.Error(t, err)
}

func TestReplay_TakesOverSignalHandling(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("logging:\n  level: error\n"), 0o600))
	questions := filepath.Join(dir, "questions.txt")
	require.NoError(t, os.WriteFile(questions, []byte("hello\n"), 0o600))

	tests := []struct {
		args []string
		want int
	}{
		{[]string{"replay", "--no-delay", "--quiet", questions}, 1},
		{[]string{"emi"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			released := 0
			cmd := newRootCmd(func() { released++ })
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(append([]string{"--config", cfg, "--profile", filepath.Join(dir, "none.yaml")}, tt.args...))

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, released)
		})
	}
}
