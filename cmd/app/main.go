package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"TrendCast/internal/di"
	"TrendCast/internal/usecase"
	"TrendCast/pkg/config"
	"TrendCast/pkg/util"
)

var (
	configPath string
	symbol     string
	fromDate   string
	toDate     string
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "trendcast",
		Short:         "Daily-bar up/down classifier: train versioned models, serve leak-free predictions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&symbol, "symbol", "AAPL", "instrument symbol")
	rootCmd.PersistentFlags().StringVar(&fromDate, "from", "", "range start (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&toDate, "to", "", "range end (YYYY-MM-DD)")

	rootCmd.AddCommand(trainCmd())
	rootCmd.AddCommand(predictCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initApp() (*di.App, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return di.InitializeApp(cfg)
}

func dateRange() (time.Time, time.Time, error) {
	to := util.ParseDayDefault(toDate, time.Now().UTC())
	from := util.ParseDayDefault(fromDate, to.AddDate(-1, 0, 0))
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("from %s is after to %s", util.FormatDay(from), util.FormatDay(to))
	}
	return from, to, nil
}

func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Fetch bars, walk-forward validate and save a new model artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := initApp()
			if err != nil {
				return err
			}
			from, to, err := dateRange()
			if err != nil {
				return err
			}

			summary, err := app.Train.Train(cmd.Context(), usecase.TrainParams{
				Symbol: symbol,
				From:   from,
				To:     to,
			})
			if err != nil {
				return err
			}

			fmt.Printf("symbol:  %s\n", summary.Symbol)
			fmt.Printf("version: %s\n", summary.Version)
			fmt.Printf("bars:    %d, usable rows: %d\n", summary.Bars, summary.Rows)
			fmt.Printf("cv accuracy: %.4f +/- %.4f over %d folds\n",
				summary.CV.AccuracyMean, summary.CV.AccuracyStd, summary.CV.Folds)
			fmt.Printf("last fold (most recent slice): accuracy %.4f\n", summary.CV.LastFold.Accuracy)
			for _, c := range summary.CV.LastFold.Classes {
				fmt.Printf("  class %d: precision %.4f recall %.4f f1 %.4f support %d\n",
					c.Label, c.Precision, c.Recall, c.F1, c.Support)
			}
			fmt.Printf("confusion matrix (last fold): %v\n", summary.CV.LastFold.Confusion)
			return nil
		},
	}
}

func predictCmd() *cobra.Command {
	var artifactRef string
	var explainFlag bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict whether tomorrow's close is higher using the latest (or pinned) artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := initApp()
			if err != nil {
				return err
			}
			from, to, err := dateRange()
			if err != nil {
				return err
			}

			result, err := app.Predict.Predict(cmd.Context(), usecase.PredictParams{
				Symbol:      symbol,
				From:        from,
				To:          to,
				ArtifactRef: artifactRef,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			if explainFlag {
				artifact, err := app.Predict.Artifact(cmd.Context(), result.Symbol, artifactRef)
				if err != nil {
					return err
				}
				text, err := app.Predict.Explain(cmd.Context(), result, artifact.Meta)
				if err != nil {
					return err
				}
				fmt.Println()
				fmt.Println(text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&artifactRef, "artifact", "", "pin an exact artifact (SYMBOL_version) instead of latest")
	cmd.Flags().BoolVar(&explainFlag, "explain", false, "print a plain-text explanation of the prediction")
	return cmd
}
