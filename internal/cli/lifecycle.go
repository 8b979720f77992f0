package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLifecycleCmds() []*cobra.Command {
	type op struct {
		use   string
		short string
		run   func(cmd *cobra.Command, name string) (bool, error)
	}

	ops := []op{
		{"start", "Start a language server", startTool},
		{"stop", "Stop a language server", stopTool},
		{"restart", "Stop then start a language server", restartTool},
		{"uninstall", "Remove an installed language server", uninstallTool},
	}

	cmds := make([]*cobra.Command, 0, len(ops)+2)
	for _, o := range ops {
		cmds = append(cmds, &cobra.Command{
			Use:   o.use + " <tool>",
			Short: o.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ok, err := o.run(cmd, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s %s: not completed", o.use, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: ok\n", o.use, args[0])
				return nil
			},
		})
	}

	cmds = append(cmds, &cobra.Command{
		Use:   "talk <tool> <data>",
		Short: "Send a message to a running language server",
		Args:  cobra.ExactArgs(2),
		RunE:  runTalk,
	})
	cmds = append(cmds, &cobra.Command{
		Use:   "configure <tool> <options>",
		Short: "Pass options (inline text, a file path or a URL) to a language server",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigure,
	})
	return cmds
}

func startTool(cmd *cobra.Command, name string) (bool, error) {
	m, closeLogs, err := openManager(cmd)
	if err != nil {
		return false, err
	}
	defer closeLogs()
	return m.Start(cmd.Context(), name)
}

func stopTool(cmd *cobra.Command, name string) (bool, error) {
	m, closeLogs, err := openManager(cmd)
	if err != nil {
		return false, err
	}
	defer closeLogs()
	return m.Stop(cmd.Context(), name)
}

func restartTool(cmd *cobra.Command, name string) (bool, error) {
	m, closeLogs, err := openManager(cmd)
	if err != nil {
		return false, err
	}
	defer closeLogs()
	return m.Restart(cmd.Context(), name)
}

func uninstallTool(cmd *cobra.Command, name string) (bool, error) {
	m, closeLogs, err := openManager(cmd)
	if err != nil {
		return false, err
	}
	defer closeLogs()
	return m.Uninstall(cmd.Context(), name)
}

func runTalk(cmd *cobra.Command, args []string) error {
	m, closeLogs, err := openManager(cmd)
	if err != nil {
		return err
	}
	defer closeLogs()

	reply, err := m.Talk(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}

func runConfigure(cmd *cobra.Command, args []string) error {
	m, closeLogs, err := openManager(cmd)
	if err != nil {
		return err
	}
	defer closeLogs()

	rec, err := m.Resolve(cmd.Context(), args[1])
	if err != nil {
		return fmt.Errorf("read options: %w", err)
	}

	ok, err := m.Configure(cmd.Context(), args[0], rec.Tree)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("configure %s: not completed", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "configure %s: ok\n", args[0])
	return nil
}
