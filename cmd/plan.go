package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dshy007/milo/app"
	"github.com/Dshy007/milo/config"
	"github.com/Dshy007/milo/infra/logger"
)

var (
	inputPath  string
	outputPath string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run one planning pass over a pass input file",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&inputPath, "input", "i", "pass.json", "pass input file")
	planCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "result file, - for stdout")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	in, err := app.LoadPassInput(inputPath)
	if err != nil {
		return fmt.Errorf("load pass input: %w", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	res, err := svc.RunPass(ctx, in)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if outputPath == "-" || outputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	return os.WriteFile(outputPath, append(out, '\n'), 0o644)
}
