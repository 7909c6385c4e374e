package main

import (
	"fmt"
	"os"
	"path/filepath"

	"activity-charts/internal/config"
	"activity-charts/internal/features/charts"
	"activity-charts/internal/features/convert"
)

// go run etc/tools/test_chart.go
// writes sample charts to etc/charts/
var samples = []struct {
	name string
	data string
}{
	{"pie_flat.png", `{"Work": 30, "Sleep": 70}`},
	{"sunburst_tree.png", `{"nodes": [
		{"id": 1, "parent_id": null, "name": "Work", "duration": null},
		{"id": 2, "parent_id": 1, "name": "Coding", "duration": 120},
		{"id": 3, "parent_id": 1, "name": "Meetings", "duration": 45},
		{"id": 4, "parent_id": 2, "name": "Reviews", "duration": 30},
		{"id": 5, "parent_id": null, "name": "Sleep", "duration": 420},
		{"id": 6, "parent_id": null, "name": "Sport", "duration": null},
		{"id": 7, "parent_id": 6, "name": "Running", "duration": 40},
		{"id": 8, "parent_id": 6, "name": "Gym", "duration": 60}
	]}`},
}

func main() {
	fmt.Println("Generating sample charts...")

	cfg := config.Default()
	cfg.Chart.Supersample = 2
	renderer := charts.New(cfg.Chart)

	for _, s := range samples {
		path := filepath.Join("etc", "charts", s.name)
		res, err := convert.Run([]byte(s.data), path, convert.Options{
			Mode:     convert.ModeAuto,
			Policy:   cfg.Tree.Policy(),
			Layout:   cfg.Tree.LayoutOptions(),
			Renderer: renderer,
		})
		if err != nil {
			fmt.Printf("Error generating %s: %v\n", s.name, err)
			os.Exit(1)
		}
		fmt.Printf("Chart generated successfully: %s\n", res)
	}
	fmt.Println("Open the files to see the result!")
}
