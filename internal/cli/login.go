package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var account, credential, character string
	var oldProtocol bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log a character into the game world",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"account":      account,
				"credential":   credential,
				"character":    character,
				"old_protocol": oldProtocol,
			}
			var result LoginResult

			if err := client.Post("/api/v1/login", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account name (required)")
	cmd.Flags().StringVar(&credential, "credential", "", "Password or session token (required)")
	cmd.Flags().StringVar(&character, "character", "", "Character name (required)")
	cmd.Flags().BoolVar(&oldProtocol, "old-protocol", false, "Authenticate as a legacy protocol client")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("credential")
	_ = cmd.MarkFlagRequired("character")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	var playerID uint32

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log a character out, saving its state",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/players/%d/logout", playerID)
			if err := client.Post(path, nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}

	cmd.Flags().Uint32Var(&playerID, "player", 0, "Player id (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newOnlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "online",
		Short: "List players currently online",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result OnlineResult

			if err := client.Get("/api/v1/online", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
