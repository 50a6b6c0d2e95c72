package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/suika/ui"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "suika",
		Usage: "drop fruits, merge pairs, keep the pile under the line",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "draw physics shapes and log merges and contacts"},
			&cli.StringFlag{Name: "scores", Usage: "path of the best scores file", Sources: cli.EnvVars("SUIKA_SCORES")},
			&cli.Uint64Flag{Name: "seed", Usage: "seed for the fruit picker (random when unset)"},
			&cli.BoolFlag{Name: "watch", Usage: "reload prefabs from disk when they change"},
			&cli.StringFlag{Name: "spawn-script", Usage: "tengo script in prefabs/scripts choosing the next fruit"},
			&cli.BoolFlag{Name: "monitor", Aliases: []string{"m"}, Usage: "use the first monitor instead of the primary one"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	opts := options{
		debug:  cmd.Bool("debug"),
		scores: cmd.String("scores"),
		seed:   uint64(time.Now().UnixNano()),
		watch:  cmd.Bool("watch"),
		script: cmd.String("spawn-script"),
	}
	if cmd.IsSet("seed") {
		opts.seed = cmd.Uint64("seed")
	}

	if cmd.Bool("monitor") {
		if monitors := ebiten.AppendMonitors(nil); len(monitors) > 0 {
			ebiten.SetMonitor(monitors[0])
		}
	}

	game, err := NewGame(opts)
	if err != nil {
		return err
	}
	defer game.Close()

	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Suika")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Printf("suika: field %dx%d, panel %d, seed %d", w-ui.PanelWidth, h, ui.PanelWidth, opts.seed)
	return ebiten.RunGame(game)
}
