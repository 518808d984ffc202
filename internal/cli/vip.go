package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vip",
		Short: "VIP list commands",
	}

	cmd.AddCommand(newVipListCmd())
	cmd.AddCommand(newVipAddCmd())
	cmd.AddCommand(newVipEditCmd())
	cmd.AddCommand(newVipRemoveCmd())

	return cmd
}

func newVipListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the account's VIP list",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result VipListResult

			if err := client.Get("/api/v1/vip", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newVipAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a character to the VIP list",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			var result VipEntry

			if err := client.Post("/api/v1/vip", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Character name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newVipEditCmd() *cobra.Command {
	var playerID uint32
	var description string
	var icon uint32
	var notify bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a VIP entry's notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/vip/%d", playerID)
			req := map[string]any{
				"description": description,
				"icon":        icon,
				"notify":      notify,
			}

			if err := client.Put(path, req); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("VIP entry updated")
			return nil
		},
	}

	cmd.Flags().Uint32Var(&playerID, "player", 0, "Player id (required)")
	cmd.Flags().StringVar(&description, "description", "", "Entry description")
	cmd.Flags().Uint32Var(&icon, "icon", 0, "Entry icon id")
	cmd.Flags().BoolVar(&notify, "notify", false, "Notify on status change")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newVipRemoveCmd() *cobra.Command {
	var playerID uint32

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a character from the VIP list",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/vip/%d", playerID)
			if err := client.Delete(path); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("VIP entry removed")
			return nil
		},
	}

	cmd.Flags().Uint32Var(&playerID, "player", 0, "Player id (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}
