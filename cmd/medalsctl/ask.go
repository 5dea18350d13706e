package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/okian/medals/internal/app"
	"github.com/okian/medals/internal/domain/query"
	"github.com/okian/medals/pkg/logger"
)

type askOutput struct {
	Outcome string `json:"outcome"`
	Source  string `json:"source"`
	Text    string `json:"text,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func newAskCmd(root *rootOptions) *cobra.Command {
	var (
		dataset string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Answer a question against a local dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := *root.cfg
			if dataset != "" {
				cfg.DatasetPath = dataset
			}
			cfg.ReloadIntervalSec = 0

			svc, err := app.NewFromConfig(&cfg, logger.Get())
			if err != nil {
				return err
			}
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			reply, err := svc.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(askOutput{
					Outcome: string(reply.Outcome),
					Source:  reply.Source,
					Text:    reply.Text,
					Reason:  reply.Reason,
				})
			}
			text := reply.Text
			if reply.Outcome == query.OutcomeNoData {
				text = reply.Reason
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset CSV path (default dataset_path)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reply as JSON")
	return cmd
}
