package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the verdict cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if s.opts.Cache == nil {
				return errors.New("cache is disabled (set [cache] enabled = true or --cache-dir)")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.opts.Cache.Dir())
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "drop",
		Short: "Delete every cached verdict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if s.opts.Cache == nil {
				return errors.New("cache is disabled (set [cache] enabled = true or --cache-dir)")
			}
			if err := s.opts.Cache.DropAll(); err != nil {
				return fmt.Errorf("failed to drop cache: %w", err)
			}
			s.log.Named("cache").Info("cache dropped")
			return nil
		},
	})
	return cmd
}
