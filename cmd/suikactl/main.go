// Command suikactl inspects the local ranking and the prefab files.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/milk9111/suika/fruit"
	"github.com/milk9111/suika/prefabs"
	"github.com/milk9111/suika/score"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.Command {
	scoresFlag := &cli.StringFlag{Name: "scores", Usage: "path of the best scores file", Sources: cli.EnvVars("SUIKA_SCORES")}
	return &cli.Command{
		Name:  "suikactl",
		Usage: "manage suika scores and prefabs",
		Commands: []*cli.Command{
			{
				Name:  "scores",
				Usage: "show or clear the ranking",
				Flags: []cli.Flag{scoresFlag},
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "print the ranking",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							l, err := openLedger(cmd.String("scores"))
							if err != nil {
								return err
							}
							fmt.Fprintln(out, score.RankingTitle)
							fmt.Fprintln(out, score.FormatRanking(l.BestScores()))
							return nil
						},
					},
					{
						Name:  "clear",
						Usage: "empty the ranking",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							l, err := openLedger(cmd.String("scores"))
							if err != nil {
								return err
							}
							return l.Clear()
						},
					},
				},
			},
			{
				Name:  "check",
				Usage: "validate fruits.yaml and tuning.yaml",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: prefabs.Dir, Usage: "prefab directory overriding the embedded files"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					prefabs.Dir = cmd.String("dir")
					return check(out)
				},
			},
			{
				Name:  "draw",
				Usage: "print a sequence of spawned fruits",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "n", Value: 20, Usage: "number of draws"},
					&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "picker seed"},
					&cli.StringFlag{Name: "script", Usage: "tengo script in prefabs/scripts"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return draw(out, cmd.Int("n"), cmd.Uint64("seed"), cmd.String("script"))
				},
			},
		},
	}
}

func openLedger(path string) (*score.Ledger, error) {
	if path == "" {
		p, err := score.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	store, err := score.OpenFileStore(path)
	if err != nil {
		return nil, err
	}
	return score.NewLedger(store), nil
}

func check(out io.Writer) error {
	catalog, err := prefabs.LoadCatalog()
	if err != nil {
		return err
	}
	if _, err := prefabs.LoadTuning(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d tiers, %d droppable\n", catalog.Len(), len(catalog.Droppable()))
	for i, t := range catalog.Tiers() {
		fmt.Fprintf(out, "%2d %-12s r=%-6.1f pts=%d\n", i, t.Name, t.Radius, t.Points)
	}
	return nil
}

func draw(out io.Writer, n int, seed uint64, script string) error {
	catalog, err := prefabs.LoadCatalog()
	if err != nil {
		return err
	}
	var picker fruit.Picker = fruit.NewRandPicker(seed)
	if script != "" {
		src, err := prefabs.LoadScript(script)
		if err != nil {
			return err
		}
		sp, err := fruit.NewScriptPicker(script, src, picker)
		if err != nil {
			return err
		}
		picker = sp
	}

	sel := fruit.NewSelector(catalog, picker, fruit.DefaultMaxAttempts)
	names := make([]string, 0, n)
	last := ""
	for i := 0; i < n; i++ {
		t := sel.Pick(last)
		last = t.Name
		names = append(names, t.Name)
	}
	fmt.Fprintln(out, strings.Join(names, " "))
	return nil
}
