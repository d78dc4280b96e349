package main

import (
	"fmt"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	defaultConfigFile = "config.yaml"
	defaultStateFile  = "tournament.yaml"
)

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	var (
		configFile string
		stateFile  string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "tourney",
		Short: "Round-robin, Swiss and page playoff tournament manager",
		Long: heredoc.Doc(`
			tourney runs a tournament from a YAML config. Each round is
			generated from the results recorded so far and kept in a state
			file next to the config.

			Swiss rounds never repeat a pairing and always leave a full
			round-robin possible, so a Swiss event can be played to the end
			as a round-robin.`),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory)")
	rootCmd.PersistentFlags().StringVar(&stateFile, "state", defaultStateFile, "Path to the tournament state file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pairing decisions")

	// withConfig resolves the config path before running fn.
	withConfig := func(fn func(configPath string, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return fn(configPath, args)
		}
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	roundCmd := &cobra.Command{
		Use:   "round",
		Short: "Generate tournament rounds",
	}

	var (
		roundNumber  int
		roundTimeout time.Duration
	)
	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Generate the next round and save it to the state file",
		Long: heredoc.Doc(`
			next pairs the next round using the configured format and
			appends its matches to the state file. Swiss and page playoff
			rounds need every earlier result recorded first.

			Rounds are numbered from 1. Without --round the number is
			guessed from the matches already played.`),
		Example: heredoc.Doc(`
			$ tourney round next
			$ tourney round next --round 3 --timeout 30s`),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withConfig(func(configPath string, args []string) error {
			var round *int
			if roundNumber > 0 {
				r := roundNumber - 1
				round = &r
			}
			return runNextRound(configPath, stateFile, round, roundTimeout)
		}),
	}
	nextCmd.Flags().IntVar(&roundNumber, "round", 0, "Round to generate, starting at 1 (default: guessed)")
	nextCmd.Flags().DurationVar(&roundTimeout, "timeout", time.Minute, "Give up on the Swiss search after this long")
	roundCmd.AddCommand(nextCmd)

	resultCmd := &cobra.Command{
		Use:          "result <home> <away> <home|away|draw>",
		Short:        "Record the result of a match",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: withConfig(func(configPath string, args []string) error {
			return runResult(configPath, stateFile, args[0], args[1], args[2])
		}),
	}

	standingsCmd := &cobra.Command{
		Use:          "standings",
		Short:        "Print the current standings",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withConfig(func(configPath string, args []string) error {
			return runStandings(configPath, stateFile)
		}),
	}

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Preview, export and validate the round calendar",
	}

	previewCmd := &cobra.Command{
		Use:          "preview",
		Short:        "Print every round with its date and matches",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withConfig(func(configPath string, args []string) error {
			return runPreview(configPath, stateFile)
		}),
	}

	var outputFile string
	exportCmd := &cobra.Command{
		Use:          "export",
		Short:        "Write rounds, standings and team sheets to an Excel file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withConfig(func(configPath string, args []string) error {
			return runExport(configPath, stateFile, outputFile)
		}),
	}
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate an exported schedule against the config",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: withConfig(func(configPath string, args []string) error {
			return runValidate(configPath, args[0])
		}),
	}

	scheduleCmd.AddCommand(previewCmd, exportCmd, validateCmd)
	rootCmd.AddCommand(initCmd, roundCmd, resultCmd, standingsCmd, scheduleCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
