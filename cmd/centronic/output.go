package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v2"

	"github.com/bft-labs/centronic"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

type unitList struct {
	Units []centronic.Unit `json:"units" yaml:"units"`
}

// renderUnits writes units in the requested format.
func renderUnits(w io.Writer, units []centronic.Unit, format string) error {
	if units == nil {
		units = []centronic.Unit{}
	}

	switch format {
	case outputTable, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "UNIT\tCOUNTER\tPAIRED")
		for _, u := range units {
			fmt.Fprintf(tw, "%d\t%d\t%t\n", u.ID, u.Counter, u.Paired)
		}
		return tw.Flush()

	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(unitList{Units: units})

	case outputYAML:
		b, err := yaml.Marshal(unitList{Units: units})
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err

	default:
		return fmt.Errorf("unknown output format %q (table, json, yaml)", format)
	}
}
