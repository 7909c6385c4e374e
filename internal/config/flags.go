package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"width":             "chart.width",
	"height":            "chart.height",
	"title":             "chart.title",
	"font":              "chart.font_path",
	"label-style":       "tree.label_style",
	"dangling-parent":   "tree.dangling_parent",
	"explicit-duration": "tree.explicit_duration",
	"empty-leaf":        "tree.empty_leaf",
	"log-dir":           "log.dir",
	"log-level":         "log.level",
	"verbose":           "log.console",
}

// RegisterFlags defines the optional configuration flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()

	fs.String("config", "", "Config file (default: ./chartgen.yaml if present)")

	// Chart
	fs.Int("width", d.Chart.Width, "Image width in pixels (env: CHARTGEN_CHART_WIDTH)")
	fs.Int("height", d.Chart.Height, "Image height in pixels (env: CHARTGEN_CHART_HEIGHT)")
	fs.String("title", d.Chart.Title, "Title drawn above the chart (env: CHARTGEN_CHART_TITLE)")
	fs.String("font", d.Chart.FontPath, "TrueType font file for labels (env: CHARTGEN_CHART_FONT_PATH)")

	// Tree
	fs.String("label-style", d.Tree.LabelStyle, "Segment labels: name or path (env: CHARTGEN_TREE_LABEL_STYLE)")
	fs.String("dangling-parent", d.Tree.DanglingParent, "Unknown parent_id handling: root or reject (env: CHARTGEN_TREE_DANGLING_PARENT)")
	fs.String("explicit-duration", d.Tree.ExplicitDuration, "Duration on a node with children: override or sum (env: CHARTGEN_TREE_EXPLICIT_DURATION)")
	fs.String("empty-leaf", d.Tree.EmptyLeaf, "Childless node without duration: reject or zero (env: CHARTGEN_TREE_EMPTY_LEAF)")

	// Log
	fs.String("log-dir", d.Log.Dir, "Directory for chartgen.log; empty disables file logging (env: CHARTGEN_LOG_DIR)")
	fs.String("log-level", d.Log.Level, "Log level (env: CHARTGEN_LOG_LEVEL)")
	fs.Bool("verbose", d.Log.Console, "Mirror log entries to stderr (env: CHARTGEN_LOG_CONSOLE)")
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
