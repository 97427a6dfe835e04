package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/auth"
)

func newTokenCmd(a *app) *cobra.Command {
	var name, key string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a viewer token",
		Long: `Check a viewer's access key against auth.access_keys and print a signed
token, the same one POST /api/v1/auth/token returns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if err := auth.NewKeyRing(cfg.Auth.AccessKeys).Verify(name, key); err != nil {
				return err
			}
			token, err := auth.NewJWTService(cfg.Auth).Issue(name)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			return a.print(token)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Viewer name")
	cmd.Flags().StringVar(&key, "key", "", "Viewer access key")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newHashKeyCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key [key]",
		Short: "Hash an access key for auth.access_keys",
		Long:  "Print the bcrypt hash of an access key. The key is read from stdin when not given as an argument.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no key given on stdin")
				}
				key = strings.TrimRight(line, "\r\n")
			}
			hash, err := auth.HashKey(key)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
