package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Load and inspect language server configuration",
	}

	cmd.AddCommand(newConfigDumpCmd())
	cmd.AddCommand(newConfigDetectCmd())
	return cmd
}

func newConfigDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [ref]",
		Short: "Print the config in the format it was written in",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigDump,
	}
}

func newConfigDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <ref>",
		Short: "Report which format a config reference decodes as",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigDetect,
	}
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	m, closeLogs, err := openManager(cmd)
	if err != nil {
		return err
	}
	defer closeLogs()

	if len(args) == 1 {
		if err := m.UseNewConfig(cmd.Context(), args[0]); err != nil {
			return err
		}
	}

	data, err := m.DumpConfig()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), data)
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runConfigDetect(cmd *cobra.Command, args []string) error {
	m, closeLogs, err := openManager(cmd)
	if err != nil {
		return err
	}
	defer closeLogs()

	if err := m.UseNewConfig(cmd.Context(), args[0]); err != nil {
		return err
	}
	rec := m.Config()

	if outputJSON {
		data, err := json.MarshalIndent(map[string]any{
			"format": rec.Format,
			"keys":   len(rec.Tree),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "format: %s\nkeys: %d\n", rec.Format, len(rec.Tree))
	return nil
}
