package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/config"
	"github.com/vango-dev/pagekit/internal/errors"
)

func configCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pagekit.json",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a pagekit.json with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(opts.dir, config.ConfigFileName)
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf(errors.CategoryConfig, "%s already exists", path).
					WithSuggestion("Use --force to overwrite it")
			}
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(e.cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
