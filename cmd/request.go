package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/amatino/api"
)

var (
	requestQuery string
	requestBody  string
)

var requestCmd = &cobra.Command{
	Use:   "request METHOD PATH",
	Short: "Send a raw signed request and print the response",
	Example: `  amatino request GET /entities --query "entity_id=b5a3bd94"
  amatino request POST /accounts --query "entity_id=b5a3bd94" --body '[{"name":"Cash", ...}]'`,
	Args: cobra.ExactArgs(2),
	RunE: runRequest,
}

func init() {
	requestCmd.Flags().StringVar(&requestQuery, "query", "", "URL query string, sent verbatim")
	requestCmd.Flags().StringVar(&requestBody, "body", "", "JSON request body")
}

func runRequest(cmd *cobra.Command, args []string) error {
	method, err := api.ParseMethod(args[0])
	if err != nil {
		return err
	}
	path := args[1]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body any
	if requestBody != "" {
		var raw json.RawMessage
		if err := json.Unmarshal([]byte(requestBody), &raw); err != nil {
			return fmt.Errorf("--body is not valid JSON: %w", err)
		}
		body = raw
	}

	client, err := sessionClient()
	if err != nil {
		return err
	}

	resp, err := client.Request(cmd.Context(), method, path, strings.TrimPrefix(requestQuery, "?"), body)
	if err != nil {
		return err
	}

	if resp.Empty() {
		logger.Info().Str("method", method.String()).Str("path", path).Msg("Request succeeded with an empty response")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Indent())
	return nil
}
