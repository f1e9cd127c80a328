// Package main provides the simulate binary: it loads a dice set, plays a
// configurable number of rolls, and prints the outcome and analysis tables.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/probelab/montecarlo/internal/analysis"
	"github.com/probelab/montecarlo/internal/config"
	"github.com/probelab/montecarlo/internal/dice"
	"github.com/probelab/montecarlo/internal/diceset"
	"github.com/probelab/montecarlo/internal/game"
	"github.com/probelab/montecarlo/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty = defaults + env")
	dicePath := flag.String("dice", "content/dicesets/standard.yaml", "path to dice-set YAML file")
	rolls := flag.Int("rolls", 0, "number of rolls per play; 0 = configured default")
	seed := flag.Int64("seed", 0, "deterministic random seed; 0 = configured default")
	form := flag.String("form", "", "results form, wide or narrow; empty = configured default")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *rolls > 0 {
		cfg.Simulation.Rolls = *rolls
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *form != "" {
		cfg.Simulation.Form = *form
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("validating config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, *dicePath, logger); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, dicePath string, logger *zap.Logger) error {
	start := time.Now()

	set, err := diceset.LoadFromFile(dicePath)
	if err != nil {
		return err
	}
	logger.Info("dice set loaded",
		zap.String("name", set.Name),
		zap.Int("dice", len(set.Dice)),
	)

	var src dice.Source
	if cfg.Simulation.Seed != 0 {
		src = dice.NewSeededSource(cfg.Simulation.Seed)
		logger.Info("using seeded source", zap.Int64("seed", cfg.Simulation.Seed))
	} else {
		src = dice.NewCryptoSource()
	}

	built, err := set.Build(src)
	if err != nil {
		return err
	}

	g, err := game.NewGame(built, logger)
	if err != nil {
		return err
	}
	if err := g.Play(cfg.Simulation.Rolls); err != nil {
		return err
	}

	results, err := g.Results(game.Form(cfg.Simulation.Form))
	if err != nil {
		return err
	}
	printResults(set, results)

	analyzer, err := analysis.NewAnalyzer(g)
	if err != nil {
		return err
	}
	printAnalysis(analyzer, cfg.Simulation.Rolls)

	logger.Info("simulation complete",
		zap.String("play_id", g.PlayID()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func printResults(set *diceset.DiceSet, results *game.ResultSet) {
	switch results.Form {
	case game.FormWide:
		headers := []string{"roll"}
		for i, spec := range set.Dice {
			name := spec.Name
			if name == "" {
				name = fmt.Sprintf("die %d", i+1)
			}
			headers = append(headers, name)
		}
		rows := make([][]string, len(results.Wide))
		for i, row := range results.Wide {
			cells := []string{fmt.Sprintf("%d", row.RollNumber)}
			for _, face := range row.Faces {
				cells = append(cells, face.String())
			}
			rows[i] = cells
		}
		rows, omitted := truncateRows(rows)
		fmt.Println(renderTable("Results (wide)", headers, rows))
		printOmitted(omitted)
	case game.FormNarrow:
		rows := make([][]string, len(results.Narrow))
		for i, row := range results.Narrow {
			rows[i] = []string{
				fmt.Sprintf("%d", row.RollNumber),
				fmt.Sprintf("%d", row.DieNumber),
				row.Outcome.String(),
			}
		}
		rows, omitted := truncateRows(rows)
		fmt.Println(renderTable("Results (narrow)", []string{"roll", "die", "outcome"}, rows))
		printOmitted(omitted)
	}
}

func printOmitted(omitted int) {
	if omitted > 0 {
		fmt.Println(styleFaint.Render(fmt.Sprintf("… %d more rows", omitted)))
		fmt.Println()
	}
}

func printAnalysis(analyzer *analysis.Analyzer, nRolls int) {
	fmt.Println(styleTitle.Render("Jackpots") + " " +
		styleCount.Render(fmt.Sprintf("%d / %d rolls", analyzer.JackpotCount(), nRolls)))
	fmt.Println()

	counts := analyzer.FaceCountsPerRoll()
	headers := []string{"roll"}
	for _, face := range counts.Faces {
		headers = append(headers, face.String())
	}
	rows := make([][]string, len(counts.Rows))
	for i, row := range counts.Rows {
		cells := []string{fmt.Sprintf("%d", row.RollNumber)}
		for _, face := range counts.Faces {
			cells = append(cells, fmt.Sprintf("%d", row.Counts[face]))
		}
		rows[i] = cells
	}
	shown, omitted := truncateRows(rows)
	fmt.Println(renderTable("Face counts per roll", headers, shown))
	printOmitted(omitted)

	combos, err := analyzer.Combo()
	if err != nil {
		fmt.Println(styleError.Render("combinations unavailable: " + err.Error()))
	} else {
		rows = rows[:0]
		for _, c := range combos {
			rows = append(rows, []string{facesCell(c.Faces), fmt.Sprintf("%d", c.Count)})
		}
		fmt.Println(renderTable("Combinations", []string{"faces", "count"}, rows))
	}

	perms := analyzer.Permutation()
	rows = rows[:0]
	for _, p := range perms {
		rows = append(rows, []string{facesCell(p.Faces), fmt.Sprintf("%d", p.Count)})
	}
	fmt.Println(renderTable("Permutations", []string{"faces", "count"}, rows))
}

func facesCell(faces []dice.Label) string {
	s := ""
	for i, f := range faces {
		if i > 0 {
			s += " "
		}
		s += f.String()
	}
	return s
}
