package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanmoyano123/cards-study/internal/config"
	"github.com/juanmoyano123/cards-study/internal/timer"
)

func parsedSetCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "set"}
	addSettingFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestPatchFromFlags_OnlyChangedFlags(t *testing.T) {
	p, err := patchFromFlags(parsedSetCmd(t, "--work", "50m", "--auto-break=false", "--cycles", "3"))
	require.NoError(t, err)

	require.NotNil(t, p.WorkDuration)
	assert.Equal(t, 3000, *p.WorkDuration)
	require.NotNil(t, p.AutoStartBreak)
	assert.False(t, *p.AutoStartBreak)
	require.NotNil(t, p.CyclesUntilLongBreak)
	assert.Equal(t, 3, *p.CyclesUntilLongBreak)

	assert.Nil(t, p.BreakDuration)
	assert.Nil(t, p.AutoStartWork)
	assert.Nil(t, p.SoundEnabled)
}

func TestPatchFromFlags_Empty(t *testing.T) {
	p, err := patchFromFlags(parsedSetCmd(t))
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
}

func TestPatchFromFlags_RejectsFractionalSeconds(t *testing.T) {
	_, err := patchFromFlags(parsedSetCmd(t, "--break", "1500ms"))
	assert.ErrorContains(t, err, "--break")
}

func TestPrintSettings(t *testing.T) {
	var buf bytes.Buffer
	printSettings(&buf, timer.DefaultSettings())

	out := buf.String()
	assert.Contains(t, out, "25m0s")
	assert.Contains(t, out, "Cycles per long break  4")
	assert.Equal(t, 8, strings.Count(out, "\n"))
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String("db", "", "")

	fromConfig := filepath.Join(dir, "cfg", "cards.db")
	got, err := resolveDBPath(cmd, &config.Config{Store: config.StoreConfig{Path: fromConfig}})
	require.NoError(t, err)
	assert.Equal(t, fromConfig, got)
	assert.DirExists(t, filepath.Dir(fromConfig))

	fromFlag := filepath.Join(dir, "flag", "cards.db")
	require.NoError(t, cmd.Flags().Set("db", fromFlag))
	got, err = resolveDBPath(cmd, &config.Config{Store: config.StoreConfig{Path: fromConfig}})
	require.NoError(t, err)
	assert.Equal(t, fromFlag, got)
}

func TestResolveVersion_PrefersStampedVersion(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = "v1.2.3"
	assert.Equal(t, "v1.2.3", resolveVersion())
}
