package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lawnchairsociety/deepcrawl/internal/dungeon"
	"github.com/lawnchairsociety/deepcrawl/internal/layout"
	"github.com/lawnchairsociety/deepcrawl/internal/render"
)

func main() {
	inputFile := flag.String("input", "", "Path to a dungeon YAML dump written by dungeongen")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	pngFile := flag.String("png", "", "Also write the map as a PNG to this path")
	scale := flag.Int("scale", 8, "PNG pixels per tile")
	showOwners := flag.Bool("owners", false, "Print owning room ids instead of floor dots")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		flag.Usage()
		os.Exit(1)
	}

	dump, err := layout.Read(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	l, err := layout.ToLayout(dump)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing dump: %v\n", err)
		os.Exit(1)
	}

	output := renderDump(dump, l, render.Options{Owners: *showOwners, Legend: *showLegend})

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output)
	}

	if *pngFile != "" {
		f, err := os.Create(*pngFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating PNG: %v\n", err)
			os.Exit(1)
		}
		if err := render.PNG(f, l, render.ImageOptions{Scale: *scale, Labels: true}); err != nil {
			f.Close()
			fmt.Fprintf(os.Stderr, "Error writing PNG: %v\n", err)
			os.Exit(1)
		}
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing PNG: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Image written to %s\n", *pngFile)
	}
}

// renderDump draws the map, the room table and a connectivity check.
func renderDump(dump *layout.LayoutYAML, l *dungeon.Layout, opts render.Options) string {
	var output strings.Builder

	header := fmt.Sprintf("Dungeon %dx%d (Seed: %d, Rooms: %d)", dump.Width, dump.Height, dump.Seed, len(l.Rooms))
	// strings.Builder writes never fail
	_ = render.ASCII(&output, l, header, render.Options{Owners: opts.Owners})

	output.WriteString("\n")
	output.WriteString(render.Summary(l))
	output.WriteString("\n")

	report := dump.Report
	output.WriteString(fmt.Sprintf("Generation: success=%v attempts=%d forced=%v unused connectors=%d (%dms)\n",
		report.Success, report.Attempts, report.Forced, report.UnusedConnectors, report.ElapsedMS))

	conn := l.CheckConnectivity()
	if conn.Success {
		output.WriteString("Connectivity: all rooms reachable from the start room\n")
	} else {
		ids := make([]string, len(conn.Unreachable))
		for i, r := range conn.Unreachable {
			ids[i] = fmt.Sprintf("%d", r.ID)
		}
		output.WriteString(fmt.Sprintf("Connectivity: WARNING %d unreachable room(s): %s\n",
			len(conn.Unreachable), strings.Join(ids, ", ")))
	}

	if opts.Legend {
		output.WriteString(render.Legend())
	}

	return output.String()
}
