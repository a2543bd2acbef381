package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"credhub/internal/credential/models"
	"credhub/internal/credential/remote"
	"credhub/internal/platform/config"
)

func newVerifyCmd() *cobra.Command {
	var (
		remoteURL string
		apiKey    string
	)
	cmd := &cobra.Command{
		Use:   "verify ID",
		Short: "Verify a credential against a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseCredentialID(args[0])
			if err != nil {
				return err
			}
			if remoteURL == "" {
				remoteURL = os.Getenv("REMOTE_BASE_URL")
			}
			if remoteURL == "" {
				return errors.New("--remote-url or REMOTE_BASE_URL is required")
			}
			if apiKey == "" {
				apiKey = os.Getenv("REMOTE_API_KEY")
			}

			client := remote.New(remote.Config{
				BaseURL: strings.TrimRight(remoteURL, "/"),
				APIKey:  apiKey,
				Timeout: config.DefaultRemoteTimeout,
			})
			result, err := client.VerifyCredential(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&remoteURL, "remote-url", "", "base URL of the credhub server")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key sent as X-API-Key")
	return cmd
}
