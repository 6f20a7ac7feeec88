package cmd

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	mrand "math/rand"
	"text/tabwriter"

	"github.com/nfrund/toybattle/cmd/toybattle/internal/runner"
	"github.com/nfrund/toybattle/internal/bot"
	"github.com/nfrund/toybattle/internal/catalog"
	"github.com/nfrund/toybattle/internal/config"
	"github.com/nfrund/toybattle/internal/script"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	simSeed     int64
	simMatches  int
	simPlayer   string
	simOpponent string
	simScript   string
	simCatalog  string
	simFormat   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play bot-vs-bot matches and report the results",
	Long: `Play whole matches headless, with a built-in bot drafting for the player
and another bot (or a Tengo script) drafting for the opponent.

Match settings come from the same environment variables as the server
(TOTAL_TURNS, BATTLE_TURNS, TICK_SECONDS, ...), so balance runs use the
production schedule unless overridden.

Examples:
  toybattle simulate --seed 7
  toybattle simulate --matches 50 --player hard --opponent normal
  toybattle simulate --script data/bots/synergy.tengo --format json`,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if simCatalog == "" {
		simCatalog = cfg.CatalogPath
	}
	if simMatches < 1 {
		return fmt.Errorf("--matches must be at least 1")
	}

	fs := afero.NewOsFs()
	cat, err := catalog.Load(fs, simCatalog)
	if err != nil {
		return err
	}

	seed := simSeed
	if seed == 0 {
		seed = cfg.MatchSeed
	}
	if seed == 0 {
		seed = randomSeed()
	}

	results := make([]*runner.Result, 0, simMatches)
	for i := 0; i < simMatches; i++ {
		matchSeed := seed + int64(i)
		rng := mrand.New(mrand.NewSource(matchSeed))

		player, err := drafter(simPlayer, "", fs, rng)
		if err != nil {
			return err
		}
		opponent, err := drafter(simOpponent, simScript, fs, rng)
		if err != nil {
			return err
		}

		res, err := runner.Play(cmd.Context(), runner.Options{
			Config:   cfg.Match(),
			Catalog:  cat,
			Player:   player,
			Opponent: opponent,
			Seed:     matchSeed,
			Tick:     cfg.TickSeconds,
		})
		if err != nil {
			return fmt.Errorf("match with seed %d: %w", matchSeed, err)
		}
		results = append(results, res)
	}

	if simFormat == "json" {
		return printResultsJSON(cmd.OutOrStdout(), results)
	}
	printResultsTable(cmd.OutOrStdout(), results)
	return nil
}

func drafter(difficulty, scriptPath string, fs afero.Fs, rng *mrand.Rand) (bot.Drafter, error) {
	if scriptPath != "" {
		return bot.NewScriptBot(fs, scriptPath, script.NewTengoEngine(), nil)
	}
	d, err := bot.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	return bot.New(d, rng)
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}

func printResultsTable(out io.Writer, results []*runner.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "SEED\tWINS\tLOSSES\tGOLD\tPASSES\tDEATHS\tTIMEOUTS")
	fmt.Fprintln(w, "----\t----\t------\t----\t------\t------\t--------")

	wins, battles := 0, 0
	for _, r := range results {
		timeouts := 0
		for _, b := range r.Battles {
			if b.Outcome.TimedOut {
				timeouts++
			}
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Seed, r.Wins, r.Losses, r.Gold, r.Passes, r.Observed.Deaths, timeouts)
		wins += r.Wins
		battles += len(r.Battles)
	}
	if battles > 0 {
		fmt.Fprintf(w, "\nplayer win rate: %.1f%% over %d battles\n", 100*float64(wins)/float64(battles), battles)
	}
}

func printResultsJSON(out io.Writer, results []*runner.Result) error {
	output := struct {
		Matches []*runner.Result `json:"matches"`
		Count   int              `json:"count"`
	}{
		Matches: results,
		Count:   len(results),
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Seed of the first match (0 uses MATCH_SEED, then a random seed)")
	simulateCmd.Flags().IntVar(&simMatches, "matches", 1, "Number of matches to play, with consecutive seeds")
	simulateCmd.Flags().StringVar(&simPlayer, "player", "normal", "Player bot difficulty: tutorial, easy, normal or hard")
	simulateCmd.Flags().StringVar(&simOpponent, "opponent", "normal", "Opponent bot difficulty")
	simulateCmd.Flags().StringVar(&simScript, "script", "", "Tengo script drafting for the opponent (overrides --opponent)")
	simulateCmd.Flags().StringVar(&simCatalog, "catalog", "", "Catalog file (defaults to CATALOG_PATH)")
	simulateCmd.Flags().StringVarP(&simFormat, "format", "f", "table", "Output format: table or json")
}
