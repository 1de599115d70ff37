package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/amatino/amatino"
	"github.com/s0up4200/amatino/api"
)

var (
	sessionEmail  string
	sessionUserID int64
	sessionSecret string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create or delete the saved API session",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a session and save it to the configured session file",
	Long: `Create a session from an email or user id and a secret. The secret may
also be given through the AMATINO_SECRET environment variable.`,
	RunE: runSessionCreate,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Invalidate the saved session and remove the session file",
	RunE:  runSessionDelete,
}

func init() {
	sessionCreateCmd.Flags().StringVar(&sessionEmail, "email", "", "account email")
	sessionCreateCmd.Flags().Int64Var(&sessionUserID, "user-id", 0, "user id")
	sessionCreateCmd.Flags().StringVar(&sessionSecret, "secret", "", "account secret")
	sessionCreateCmd.MarkFlagsMutuallyExclusive("email", "user-id")
	sessionCreateCmd.MarkFlagsOneRequired("email", "user-id")

	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
}

func runSessionCreate(cmd *cobra.Command, args []string) error {
	secret := sessionSecret
	if secret == "" {
		secret = os.Getenv("AMATINO_SECRET")
	}
	if secret == "" {
		return errors.New("a secret is required, use --secret or AMATINO_SECRET")
	}

	var (
		session amatino.Session
		err     error
	)
	if sessionEmail != "" {
		session, err = amatino.CreateSession(cmd.Context(), requester, sessionEmail, secret)
	} else {
		session, err = amatino.CreateSessionWithUserID(cmd.Context(), requester, sessionUserID, secret)
	}
	if err != nil {
		if api.IsUnauthorized(err) {
			return fmt.Errorf("credentials rejected: %w", err)
		}
		return err
	}

	if err := session.Save(cfg.Session.File); err != nil {
		return err
	}

	logger.Info().
		Int64("session_id", session.SessionID()).
		Int64("user_id", session.UserID()).
		Str("file", cfg.Session.File).
		Msg("Session created")
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	client, err := sessionClient()
	if err != nil {
		return err
	}

	if err := client.DeleteSession(cmd.Context()); err != nil {
		// An expired session is already gone remotely; still drop the file.
		if !api.IsUnauthorized(err) && !api.IsNotFound(err) {
			return err
		}
		logger.Warn().Err(err).Msg("Session was not accepted by the server")
	}

	if err := os.Remove(cfg.Session.File); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	logger.Info().Int64("session_id", client.Session().SessionID()).Msg("Session deleted")
	return nil
}
