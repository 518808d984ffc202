package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player lookup commands",
	}

	cmd.AddCommand(newPlayerLookupCmd())
	cmd.AddCommand(newPlayerBankCmd())

	return cmd
}

func newPlayerLookupCmd() *cobra.Command {
	var name string
	var id uint32

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Resolve a player name or id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && id == 0 {
				return fmt.Errorf("--name or --id is required")
			}

			var path string
			if name != "" {
				path = "/api/v1/players/name/" + url.PathEscape(name)
			} else {
				path = fmt.Sprintf("/api/v1/players/%d", id)
			}

			var result LookupResult
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Character name")
	cmd.Flags().Uint32Var(&id, "id", 0, "Player id")

	return cmd
}

func newPlayerBankCmd() *cobra.Command {
	var playerID uint32
	var amount int64

	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Adjust a player's bank balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/players/%d/bank", playerID)
			req := map[string]int64{"amount": amount}

			if err := client.Post(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Bank balance adjusted")
			return nil
		},
	}

	cmd.Flags().Uint32Var(&playerID, "player", 0, "Player id (required)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Signed amount in gold (required)")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
