package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/zeozeozeo/elizabot/eliza"
)

var validateCmd = &cobra.Command{
	Use:   "validate <rules-path>",
	Short: "Check a rules file for errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := eliza.LoadRules(args[0])
		if err != nil {
			return err
		}
		if _, err := eliza.New(rules); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s is valid\n", args[0])
		fmt.Fprintf(out, "  keywords:       %s\n", humanize.Comma(int64(len(rules.Keywords))))
		fmt.Fprintf(out, "  decompositions: %s\n", humanize.Comma(int64(countDecompositions(rules))))
		fmt.Fprintf(out, "  templates:      %s\n", humanize.Comma(int64(countTemplates(rules))))
		fmt.Fprintf(out, "  synonym groups: %s\n", humanize.Comma(int64(len(rules.Synonyms))))
		return nil
	},
}

func countDecompositions(rules eliza.Rules) int {
	n := 0
	for _, kw := range rules.Keywords {
		n += len(kw.Decompositions)
	}
	return n
}

func countTemplates(rules eliza.Rules) int {
	n := 0
	for _, kw := range rules.Keywords {
		for _, d := range kw.Decompositions {
			n += len(d.Reasmb)
		}
	}
	return n
}
