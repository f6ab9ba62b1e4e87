package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sportslens/sportslens/internal/core"
	"github.com/sportslens/sportslens/internal/output"
)

var (
	fetchParams  []string
	fetchOutput  string
	fetchNoCache bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <path>",
	Short: "Fetch an endpoint through the cached, rate-limited pipeline",
	Long: `Fetch issues one request against the remote service, consulting the
response cache first and throttling the outbound call on a miss.

Example:
  sportslens fetch /teams --param league=1 --param season=2023`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringArrayVar(&fetchParams, "param", nil, "query parameter as key=value (repeatable)")
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "table", "output format: table, json")
	fetchCmd.Flags().BoolVar(&fetchNoCache, "no-cache", false, "skip cache lookup and write")
}

func runFetch(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(fetchOutput)
	if err != nil {
		return err
	}

	params, err := parseParams(fetchParams)
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() // nolint:errcheck // best-effort flush

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	apiClient := buildClient(cfg, logger)
	if fetchNoCache {
		apiClient.Cache = nil
	}

	envelope, err := apiClient.Fetch(cmd.Context(), args[0], params)
	if err != nil {
		return err
	}

	var rendered string
	switch format {
	case output.FormatJSON:
		rendered, err = (&output.JSONFormatter{}).FormatEnvelope(envelope)
	default:
		rendered, err = (&output.TableFormatter{}).FormatEnvelope(envelope)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), rendered)

	if !envelope.OK() {
		return fmt.Errorf("fetch reported an error: %s", envelope.Error)
	}
	return nil
}

func parseParams(pairs []string) (core.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := core.Params{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
