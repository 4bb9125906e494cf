package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"quditcirq"
)

var (
	flagQudits int
	flagDits   int
	flagDim    int
	flagName   string
	flagSeed   int64
	flagLoad   string
)

var rootCmd = &cobra.Command{
	Use:   "quditcirq",
	Short: "Interactive qudit circuit builder and simulator",
	Long: `quditcirq builds quantum circuits over d-level systems in the
terminal and runs them on a state-vector engine, step by step or all
at once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagSeed != 0 {
			quditcirq.Seed(flagSeed)
		}

		var circ *quditcirq.Circuit
		var err error
		if flagLoad != "" {
			data, rerr := os.ReadFile(flagLoad)
			if rerr != nil {
				return fmt.Errorf("load circuit: %w", rerr)
			}
			circ, err = quditcirq.FromJSON(string(data), quditcirq.StandardCatalog(flagDim))
		} else {
			circ, err = quditcirq.New(flagQudits, flagDits, flagDim, flagName)
		}
		if err != nil {
			return fmt.Errorf("create circuit: %w", err)
		}

		m := initialModel(circ)
		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func main() {
	rootCmd.Flags().IntVar(&flagQudits, "qudits", 2, "number of qudits")
	rootCmd.Flags().IntVar(&flagDits, "dits", 2, "number of classical dits")
	rootCmd.Flags().IntVar(&flagDim, "dim", 2, "qudit dimension d")
	rootCmd.Flags().StringVar(&flagName, "name", "", "circuit name")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "measurement RNG seed (0 leaves the default)")
	rootCmd.Flags().StringVar(&flagLoad, "load", "", "load a serialized circuit from a JSON file")

	if err := rootCmd.Execute(); err != nil {
		slog.Error("quditcirq exited", "err", err)
		os.Exit(1)
	}
}
