package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ran-sim/ran-sim/sim"
)

// policiesCmd lists the policy table
var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the allocation policies in comparison order",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), formatPolicies(sim.Policies()))
	},
}

func formatPolicies(policies []sim.Policy) string {
	var b strings.Builder
	for _, p := range policies {
		fmt.Fprintf(&b, "%-12s %s (deterministic=%t, conserving=%t)\n", p.Key, p.Name, p.Deterministic, p.Conserving)
	}
	return b.String()
}
