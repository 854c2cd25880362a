package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deluair/alphagenome/internal/duckdb"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local prediction cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache occupancy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := duckdb.Open(cachePath())
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := s.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("Cache: %s\n", cachePath())
			fmt.Printf("Cached variants: %d\n", st.Variants)
			fmt.Printf("Assay rows: %d\n", st.Rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := duckdb.Open(cachePath())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Clear(); err != nil {
				return err
			}
			fmt.Println("Prediction cache cleared")
			return nil
		},
	})

	return cmd
}
