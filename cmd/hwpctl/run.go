package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hwp-tools/hwpctl/pkg/hwpctl"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [batch.json]",
		Short: "Execute an ordered batch of document operations",
		Long: `run reads a JSON array of {"operation": name, "params": {...}} steps,
executes them in order against the configured host, and reports one
result per step. A failed step does not stop the batch unless it is a
create, open or save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var steps []hwpctl.Step
			if err := json.Unmarshal(data, &steps); err != nil {
				return fmt.Errorf("parse batch script: %w", err)
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			sess, err := newSession(cfg, logger)
			if err != nil {
				return err
			}
			if err := sess.Connect(); err != nil {
				return err
			}
			defer sess.Close()

			results := hwpctl.NewExecutor(sess, hwpctl.WithExecLogger(logger)).Run(steps)
			if jsonOutput {
				out, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			} else {
				printResults(results)
			}

			for _, res := range results {
				if !res.Success {
					return fmt.Errorf("batch finished with failures")
				}
			}
			return nil
		},
	}
}

func printResults(results []hwpctl.StepResult) {
	for _, res := range results {
		switch {
		case res.Success && res.Result != nil:
			fmt.Printf("step %d  %-28s ok  %v\n", res.StepIndex, res.Operation, res.Result)
		case res.Success:
			fmt.Printf("step %d  %-28s ok\n", res.StepIndex, res.Operation)
		default:
			fmt.Printf("step %d  %-28s FAILED  %s\n", res.StepIndex, res.Operation, res.ErrorDetail)
		}
	}
}
