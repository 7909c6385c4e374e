package convert

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"activity-charts/internal/activity"
	apperr "activity-charts/internal/errors"
	logging "activity-charts/internal/infra/log"
	"activity-charts/internal/input"
	"activity-charts/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	calls  int
	chart  Chart
	path   string
	result error
}

func (r *recordingRenderer) Render(chart Chart, path string) error {
	r.calls++
	r.chart = chart
	r.path = path
	return r.result
}

const treeExample = `{"nodes": [
	{"id": 1, "parent_id": null, "name": "Work", "duration": null},
	{"id": 2, "parent_id": 1, "name": "Coding", "duration": 10},
	{"id": 3, "parent_id": 1, "name": "Meetings", "duration": 30}
]}`

func options(r Renderer) Options {
	return Options{Mode: ModeAuto, Policy: activity.DefaultPolicy(), Renderer: r}
}

func TestRun_FlatAutoIsPie(t *testing.T) {
	r := &recordingRenderer{}
	res, err := Run([]byte(`{"A": 30, "B": 70}`), "out.png", options(r))
	require.NoError(t, err)

	assert.Equal(t, 1, r.calls)
	assert.Equal(t, "out.png", r.path)
	assert.Equal(t, KindPie, r.chart.Kind)
	assert.Equal(t, 100.0, r.chart.Total)
	require.Len(t, r.chart.Segments, 2)
	assert.InDelta(t, 108, r.chart.Segments[0].AngleWidth, 1e-9)
	assert.InDelta(t, 252, r.chart.Segments[1].AngleWidth, 1e-9)

	assert.Equal(t, KindPie, res.Kind)
	assert.Equal(t, input.KindFlat, res.Input)
	assert.Equal(t, "out.png", res.Path)
}

func TestRun_TreeAutoIsSunburst(t *testing.T) {
	r := &recordingRenderer{}
	res, err := Run([]byte(treeExample), "tree.png", options(r))
	require.NoError(t, err)

	assert.Equal(t, KindSunburst, r.chart.Kind)
	assert.Equal(t, 2, r.chart.MaxDepth)
	require.Len(t, r.chart.Segments, 3)
	assert.InDelta(t, 90, r.chart.Segments[1].AngleWidth, 1e-9)
	assert.InDelta(t, 270, r.chart.Segments[2].AngleWidth, 1e-9)

	require.Len(t, res.Legend, 2)
	assert.Equal(t, "Work / Meetings - 30 (75.0%)", res.Legend[0].Text)
	assert.Equal(t, "Work / Coding - 10 (25.0%)", res.Legend[1].Text)
}

func TestRun_ForcedModes(t *testing.T) {
	t.Run("pie on tree keeps roots only", func(t *testing.T) {
		r := &recordingRenderer{}
		opts := options(r)
		opts.Mode = ModePie
		_, err := Run([]byte(treeExample), "x.png", opts)
		require.NoError(t, err)
		assert.Equal(t, KindPie, r.chart.Kind)
		assert.Equal(t, 1, r.chart.MaxDepth)
		require.Len(t, r.chart.Segments, 1)
		assert.Equal(t, "Work", r.chart.Segments[0].Name)
		assert.InDelta(t, 360, r.chart.Segments[0].AngleWidth, 1e-9)
	})

	t.Run("sunburst on flat is one ring", func(t *testing.T) {
		r := &recordingRenderer{}
		opts := options(r)
		opts.Mode = ModeSunburst
		_, err := Run([]byte(`{"A": 1, "B": 3}`), "x.png", opts)
		require.NoError(t, err)
		assert.Equal(t, KindSunburst, r.chart.Kind)
		assert.Equal(t, 1, r.chart.MaxDepth)
		require.Len(t, r.chart.Segments, 2)
		require.Len(t, r.chart.Legend, 2)
		assert.Equal(t, "B", r.chart.Legend[0].Text[:1])
	})
}

func TestRun_LabelStyleAndTitle(t *testing.T) {
	r := &recordingRenderer{}
	opts := options(r)
	opts.Layout = layout.Options{LabelStyle: layout.LabelPath}
	opts.Title = "Week 42"
	_, err := Run([]byte(treeExample), "x.png", opts)
	require.NoError(t, err)
	assert.Equal(t, "Week 42", r.chart.Title)
	assert.Equal(t, "Work / Meetings", r.chart.Segments[2].Label)
}

func TestRun_ErrorsNeverReachRenderer(t *testing.T) {
	tests := []struct {
		name string
		data string
		code apperr.Code
	}{
		{"not json", `{"A": `, apperr.CodeMalformedInput},
		{"array", `[1, 2]`, apperr.CodeMalformedInput},
		{"negative flat value", `{"A": -1}`, apperr.CodeInvalidData},
		{"all zero", `{"A": 0, "B": 0}`, apperr.CodeEmptyTotal},
		{"empty object", `{}`, apperr.CodeMalformedInput},
		{"cycle", `{"nodes": [
			{"id": 1, "parent_id": 2, "name": "a", "duration": null},
			{"id": 2, "parent_id": 1, "name": "b", "duration": null}
		]}`, apperr.CodeCyclicHierarchy},
		{"duplicate id", `{"nodes": [
			{"id": 1, "parent_id": null, "name": "a", "duration": 1},
			{"id": 1, "parent_id": null, "name": "b", "duration": 2}
		]}`, apperr.CodeInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingRenderer{}
			_, err := Run([]byte(tt.data), "x.png", options(r))
			require.Error(t, err)
			assert.Equal(t, tt.code, apperr.GetCode(err), err.Error())
			assert.Zero(t, r.calls)
		})
	}
}

func TestRun_DanglingParentReported(t *testing.T) {
	r := &recordingRenderer{}
	res, err := Run([]byte(`{"nodes": [
		{"id": 1, "parent_id": 99, "name": "Orphan", "duration": 5}
	]}`), "x.png", options(r))
	require.NoError(t, err)
	assert.Equal(t, []activity.NodeID{"1"}, res.Dangling)

	opts := options(&recordingRenderer{})
	opts.Policy.DanglingParent = activity.DanglingReject
	_, err = Run([]byte(`{"nodes": [
		{"id": 1, "parent_id": 99, "name": "Orphan", "duration": 5}
	]}`), "x.png", opts)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidData))
}

func TestRun_RendererFailureIsRenderError(t *testing.T) {
	r := &recordingRenderer{result: errors.New("disk full")}
	_, err := Run([]byte(`{"A": 1}`), "x.png", options(r))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeRender))
	assert.ErrorContains(t, err, "disk full")
}

func TestRun_BadOptions(t *testing.T) {
	_, err := Run([]byte(`{"A": 1}`), "x.png", Options{})
	assert.True(t, apperr.Is(err, apperr.CodeConfig))

	_, err = Run([]byte(`{"A": 1}`), "", options(&recordingRenderer{}))
	assert.True(t, apperr.Is(err, apperr.CodeRender))

	opts := options(&recordingRenderer{})
	opts.Mode = "donut"
	_, err = Run([]byte(`{"A": 1}`), "x.png", opts)
	assert.True(t, apperr.Is(err, apperr.CodeConfig))
}

func TestRun_LogsDecodedInput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, logging.Setup(logging.Options{Dir: dir, Level: "info"}))
	t.Cleanup(logging.Sync)

	opts := options(&recordingRenderer{})
	opts.RunID = "run-42"
	_, err := Run([]byte(treeExample), "tree.png", opts)
	require.NoError(t, err)
	logging.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "chartgen.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO Input decoded")
	assert.Contains(t, string(data), `"form":"tree"`)
	assert.Contains(t, string(data), `"records":3`)
	assert.Contains(t, string(data), `"run_id":"run-42"`)
}
