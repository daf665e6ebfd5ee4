// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bridgen/bridgen/internal/i18n"
	"github.com/bridgen/bridgen/internal/scan"
)

func newCheckCmd() *cobra.Command {
	var rulePaths []string
	var skipScan bool

	cmd := &cobra.Command{
		Use:   "check <definition.yaml>",
		Short: "Validate a binding definition and rule modules without generating",
		Long: `Parses the binding definition and all rule modules, resolves the
definition against the bound Go package, and reports problems without
writing any files. Useful as a fast pre-commit or CI gate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defPath := args[0]
			fmt.Println(i18n.T("check.start", defPath))

			tm, set, err := loadRulesAndDefinition(defPath, rulePaths)
			if err != nil {
				return errors.New(i18n.T("check.error", err))
			}

			if !skipScan {
				idx, err := scan.Package(set.Package)
				if err != nil {
					return errors.New(i18n.T("check.error", err))
				}
				if err := scan.Resolve(set, idx); err != nil {
					return errors.New(i18n.T("check.error", err))
				}
			}

			fmt.Println(i18n.T("check.definitions_ok", len(set.Classes), len(set.Enums), len(set.Interfaces)))
			fmt.Println(i18n.T("check.rules_ok", 1+len(rulePaths), tm.EdgeCount()))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&rulePaths, "rules", "r", nil, "Additional typemap rule module files (repeatable)")
	cmd.Flags().BoolVar(&skipScan, "skip-scan", false, "Skip resolving against the Go package sources")

	return cmd
}
