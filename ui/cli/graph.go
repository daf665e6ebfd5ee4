// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bridgen/bridgen/internal/i18n"
	"github.com/bridgen/bridgen/internal/rules"
	"github.com/bridgen/bridgen/ui/tui"
)

func newGraphCmd() *cobra.Command {
	var rulePaths []string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the type conversion graph",
		Long: `Prints every known host type and its outgoing conversion edges
after loading the builtin rules plus any user rule modules. With
--interactive an inspector opens that lets you browse the graph.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := rules.Builtin()
			if err != nil {
				return errors.New(i18n.T("graph.error_rules", err))
			}
			for _, p := range rulePaths {
				id, mod, err := rules.LoadModule(p)
				if err != nil {
					return errors.New(i18n.T("graph.error_rules", err))
				}
				if err := tm.Merge(id, mod); err != nil {
					return errors.New(i18n.T("graph.error_rules", err))
				}
			}

			if tm.IsEmpty() {
				fmt.Println(i18n.T("graph.empty"))
				return nil
			}

			if interactive {
				return tui.Run(tm)
			}
			fmt.Print(tm.DumpGraph())
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&rulePaths, "rules", "r", nil, "Additional typemap rule module files (repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the graph in an interactive inspector")

	return cmd
}
