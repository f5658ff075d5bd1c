// Package output provides utilities for formatting and displaying solve results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/production-optimizer/pkg/constants"
	"github.com/iwvelando/production-optimizer/pkg/format"
	"github.com/iwvelando/production-optimizer/pkg/optimization"
)

// Write renders the summary in the named output format.
func Write(w io.Writer, outputFormat string, summary optimization.Summary) error {
	switch outputFormat {
	case constants.OutputFormatJSON:
		return JSONFormat(w, summary)
	case constants.OutputFormatPretty, "":
		return PrettyFormat(w, summary)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, summary optimization.Summary) error {
	var b strings.Builder

	if !summary.Success {
		fmt.Fprintf(&b, "--- No production plan (%s) ---\n", summary.Status)
		fmt.Fprintf(&b, "Error: %s\n", summary.Message)
		writeWarnings(&b, summary.Warnings)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "--- Optimal production plan ---\n")
	fmt.Fprintf(&b, "%-12s | %12s | %18s | %18s\n", "Product", "Quantity", "Unit profit", "Contribution")
	fmt.Fprintf(&b, "%-12s | %12s | %18s | %18s\n", "_______", "________", "___________", "____________")
	for _, line := range summary.Products {
		fmt.Fprintf(&b, "%-12s | %12s | %18s | %18s\n",
			line.Label, format.Quantity(line.Quantity), format.Currency(line.UnitProfit), format.Currency(line.Contribution))
	}

	fmt.Fprintf(&b, "\n%-8s | %14s | %14s | %14s | %s\n", "Resource", "Used", "Capacity", "Slack", "Binding")
	fmt.Fprintf(&b, "%-8s | %14s | %14s | %14s | %s\n", "________", "____", "________", "_____", "_______")
	for _, r := range summary.Resources {
		binding := ""
		if r.Binding {
			binding = "yes"
		}
		fmt.Fprintf(&b, "%-8s | %14s | %14s | %14s | %s\n",
			r.Label, withUnit(format.Quantity(r.Used), r.Unit), withUnit(format.Quantity(r.Capacity), r.Unit),
			withUnit(format.Quantity(r.Slack), r.Unit), binding)
	}

	fmt.Fprintf(&b, "\nTotal profit: %s\n", format.Currency(summary.Profit))
	writeWarnings(&b, summary.Warnings)

	_, err := io.WriteString(w, b.String())
	return err
}

// JSONFormat outputs the summary as indented JSON.
func JSONFormat(w io.Writer, summary optimization.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func writeWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\nWarnings:\n")
	for _, warning := range warnings {
		fmt.Fprintf(b, "  - %s\n", warning)
	}
}

func withUnit(value, unit string) string {
	if unit == "" {
		return value
	}
	return value + " " + unit
}
