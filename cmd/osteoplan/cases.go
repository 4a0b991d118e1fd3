package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List the cases of the configuration",
	Args:  cobra.NoArgs,
	RunE:  runCases,
}

func init() {
	rootCmd.AddCommand(casesCmd)
}

func runCases(cmd *cobra.Command, args []string) error {
	f, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	cases := f.Cases()
	if len(cases) == 0 {
		fmt.Fprintln(out, "No cases configured")
		return nil
	}
	for _, c := range cases {
		fmt.Fprintf(out, "%s", c.Name)
		if c.Description != "" {
			fmt.Fprintf(out, " - %s", c.Description)
		}
		fmt.Fprintln(out)
		for _, pf := range c.Parts {
			fmt.Fprintf(out, "  %-9s %s\n", pf.Part, pf.Path)
		}
		if len(c.Plan.Fragments) > 0 {
			spans := make([]string, 0, len(c.Plan.Fragments))
			for _, fr := range c.Plan.Fragments {
				spans = append(spans, fmt.Sprintf("%g-%g", fr.Start.Distance, fr.End.Distance))
			}
			fmt.Fprintf(out, "  fragments %s along %s\n", strings.Join(spans, ", "), c.Plan.Axis)
		}
	}
	return nil
}
