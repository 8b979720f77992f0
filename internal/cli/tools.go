package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"lspmanager/internal/manager"
	"lspmanager/internal/tools"
)

var (
	installCommand string

	headerStyle = lipgloss.NewStyle().Bold(true)
)

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <tool>",
		Short: "Fetch and run the install script for a language server",
		Args:  cobra.ExactArgs(1),
		RunE:  runInstall,
	}

	cmd.Flags().StringVar(&installCommand, "command", "", "Override install command (accepted, not yet applied)")
	return cmd
}

func runInstall(cmd *cobra.Command, args []string) error {
	m, closeLogs, err := openManager(cmd)
	if err != nil {
		return err
	}
	defer closeLogs()

	if err := m.Install(cmd.Context(), args[0], manager.InstallOptions{Command: installCommand}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", args[0])
	return nil
}

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect the install registry",
	}

	cmd.AddCommand(newToolsListCmd())
	cmd.AddCommand(newToolsStatusCmd())
	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installable language servers",
		RunE:  runToolsList,
	}
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	targets := make([]tools.Target, 0, len(tools.KnownTools()))
	for _, name := range tools.KnownTools() {
		def, _ := tools.Definition(name)
		targets = append(targets, def)
	}

	if outputJSON {
		data, err := json.MarshalIndent(targets, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printTargetTable(cmd.OutOrStdout(), targets)
	return nil
}

func printTargetTable(w io.Writer, targets []tools.Target) {
	if len(targets) == 0 {
		fmt.Fprintln(w, "(no registered tools)")
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-28s %-24s %s", "Tool", "Languages", "Script")))
	for _, t := range targets {
		fmt.Fprintf(w, "%-28s %-24s %s\n", t.Name, strings.Join(t.Languages, ","), t.Script)
	}
}

func newToolsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [tool]",
		Short: "Report which language server binaries are on PATH",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runToolsStatus,
	}
}

func runToolsStatus(cmd *cobra.Command, args []string) error {
	var statuses []tools.Status
	if len(args) == 1 {
		status, err := tools.DetectTool(args[0])
		if err != nil {
			return err
		}
		statuses = []tools.Status{status}
	} else {
		statuses = tools.Detect()
	}

	if outputJSON {
		data, err := json.MarshalIndent(statuses, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tBINARY\tINSTALLED\tPATH")
	for _, s := range statuses {
		path := s.Path
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", s.Tool, s.Binary, s.Installed, path)
	}
	return w.Flush()
}
