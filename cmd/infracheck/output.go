package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"infracheck/internal/core"
	"infracheck/internal/graph"
	"infracheck/pkg/domain"
)

var (
	okColor      = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

func printSummary(w io.Writer, rep core.Report) {
	if rep.Total() == 0 {
		okColor.Fprintf(w, "✓ infra %d: no errors", rep.InfraID)
		dimColor.Fprintf(w, " (run %s, %s)\n", rep.RunID, rep.Duration)
		printTopology(w, rep.Topology)
		return
	}
	errorColor.Fprintf(w, "✗ infra %d: %d errors", rep.InfraID, rep.Total())
	dimColor.Fprintf(w, " (run %s, %s)\n", rep.RunID, rep.Duration)
	printTopology(w, rep.Topology)

	objTypes := make([]domain.ObjectType, 0, len(rep.Counts))
	for t := range rep.Counts {
		objTypes = append(objTypes, t)
	}
	sort.Slice(objTypes, func(i, j int) bool { return objTypes[i] < objTypes[j] })
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, objType := range objTypes {
		errTypes := make([]domain.ErrorType, 0, len(rep.Counts[objType]))
		for t := range rep.Counts[objType] {
			errTypes = append(errTypes, t)
		}
		sort.Slice(errTypes, func(i, j int) bool { return errTypes[i] < errTypes[j] })
		for _, errType := range errTypes {
			fmt.Fprintf(tw, "  %s\t%s\t%d\n", objType, errType, rep.Counts[objType][errType])
		}
	}
	_ = tw.Flush()
	printErrors(w, rep.Errors)
}

func printTopology(w io.Writer, s graph.Summary) {
	fmt.Fprintf(w, "  network: %d tracks, %d links, %d components\n", s.Tracks, s.Links, s.Components)
	if len(s.IsolatedTracks) > 0 {
		warningColor.Fprintf(w, "  isolated tracks: %s\n", strings.Join(s.IsolatedTracks, ", "))
	}
}

func printErrors(w io.Writer, errs []domain.InfraError) {
	for _, e := range errs {
		c := errorColor
		if e.IsWarning {
			c = warningColor
		}
		c.Fprintln(w, "  "+e.String())
	}
}
