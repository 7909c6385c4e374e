package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperr "activity-charts/internal/errors"
	"activity-charts/internal/infra/log"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeJSON = `{"nodes": [
	{"id": 1, "parent_id": null, "name": "Work", "duration": null},
	{"id": 2, "parent_id": 1, "name": "Coding", "duration": 10},
	{"id": 3, "parent_id": 1, "name": "Meetings", "duration": 30}
]}`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(log.Sync)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func small(args ...string) []string {
	return append(args, "--width", "240", "--height", "180")
}

func TestRoot_FlatInputWritesPie(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pie.png")
	out, err := execute(t, "", small(`{"Work": 30, "Sleep": 70}`, path)...)
	require.NoError(t, err)
	assert.Equal(t, "Chart saved as "+path+"\n", out)

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 180, img.Bounds().Dy())
}

func TestRoot_TreeFromFileAndStdin(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(input, []byte(treeJSON), 0644))

	fromFile := filepath.Join(dir, "file.png")
	_, err := execute(t, "", small("@"+input, fromFile)...)
	require.NoError(t, err)

	fromStdin := filepath.Join(dir, "stdin.png")
	_, err = execute(t, treeJSON, small("-", fromStdin)...)
	require.NoError(t, err)

	a, err := os.ReadFile(fromFile)
	require.NoError(t, err)
	b, err := os.ReadFile(fromStdin)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSubcommands(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"pie", "sunburst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".png")
			out, err := execute(t, "", small(name, treeJSON, path)...)
			require.NoError(t, err)
			assert.Contains(t, out, "Chart saved as "+path)
			_, err = os.Stat(path)
			require.NoError(t, err)
		})
	}
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code apperr.Code
	}{
		{"malformed", `{"Work": `, apperr.CodeMalformedInput},
		{"cycle", `{"nodes": [
			{"id": 1, "parent_id": 1, "name": "Self", "duration": 3}
		]}`, apperr.CodeCyclicHierarchy},
		{"empty total", `{"A": 0}`, apperr.CodeEmptyTotal},
		{"missing file", "@/does/not/exist.json", apperr.CodeMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.png")
			out, err := execute(t, "", small(tt.data, path)...)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperr.GetCode(err), err.Error())
			assert.NotContains(t, out, "Chart saved")

			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestRoot_ArgumentCount(t *testing.T) {
	_, err := execute(t, "", `{"A": 1}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestRoot_BadFlagValueIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	_, err := execute(t, "", small(`{"A": 1}`, path, "--label-style", "dotted")...)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeConfig))
}

func TestRoot_PolicyFlags(t *testing.T) {
	data := `{"nodes": [{"id": 1, "parent_id": 7, "name": "Orphan", "duration": 2}]}`
	path := filepath.Join(t.TempDir(), "out.png")

	_, err := execute(t, "", small(data, path)...)
	require.NoError(t, err)

	_, err = execute(t, "", small(data, path, "--dangling-parent", "reject")...)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidData))
}

func TestRoot_LogDir(t *testing.T) {
	dir := t.TempDir()
	logs := filepath.Join(dir, "logs")
	path := filepath.Join(dir, "out.png")

	_, err := execute(t, "", small(`{"A": 1, "B": 2}`, path, "--log-dir", logs, "--log-level", "debug")...)
	require.NoError(t, err)
	log.Sync()

	data, err := os.ReadFile(filepath.Join(logs, "chartgen.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Input decoded")
	assert.Contains(t, string(data), "layout computed")
	assert.Contains(t, string(data), "Chart saved")
	assert.Contains(t, string(data), `"run_id":"`)
}
