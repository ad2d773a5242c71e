package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <user>",
		Short: "Print the mode for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.store.GetMode(args[0]))
			return nil
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <user> <mode>",
		Short: "Set the mode for a user (real-time or background)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := a.store.SetMode(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			a.logger.Info("mode set", "userId", args[0], "mode", mode)
			fmt.Fprintln(cmd.OutOrStdout(), mode)
			return nil
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <user>",
		Short: "Switch a user between real-time and background",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := a.store.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.logger.Info("mode toggled", "userId", args[0], "mode", mode)
			fmt.Fprintln(cmd.OutOrStdout(), mode)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored user and mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := a.store.Modes()
			users := make([]string, 0, len(modes))
			for u := range modes {
				users = append(users, u)
			}
			sort.Strings(users)

			out := cmd.OutOrStdout()
			for _, u := range users {
				fmt.Fprintf(out, "%s\t%s\n", u, modes[u])
			}
			return nil
		},
	}
}
