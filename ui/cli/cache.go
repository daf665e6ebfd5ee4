// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bridgen/bridgen/internal/i18n"
	"github.com/bridgen/bridgen/internal/registry"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persisted type mapping cache",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted host-to-foreign type mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			mappings, err := registry.Get().GetAllMappings()
			if err != nil {
				return errors.New(i18n.T("cache.error", err))
			}
			if len(mappings) == 0 {
				fmt.Println(i18n.T("cache.empty"))
				return nil
			}
			fmt.Println(i18n.T("cache.list_header"))
			for _, m := range mappings {
				fmt.Printf("  %-30s -> %-20s (%s)\n", m.HostType, m.ForeignType, m.Direction)
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop all persisted type mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := registry.Get()
			n, err := st.ClearMappings()
			if err != nil {
				return errors.New(i18n.T("cache.error", err))
			}
			_ = st.LogAction("CACHE_CLEAR", fmt.Sprintf("%d mappings removed", n))
			fmt.Println(i18n.T("cache.cleared", n))
			return nil
		},
	}

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}
