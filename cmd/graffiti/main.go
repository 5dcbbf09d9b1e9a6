package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gioui.org/app"
	"github.com/esimov/graffiti"
	"github.com/esimov/graffiti/export"
	"github.com/esimov/graffiti/sound"
	"github.com/esimov/graffiti/utils"
)

const HelpBanner = `
┌─┐┬─┐┌─┐┌─┐┌─┐┬┌┬┐┬
│ ┬├┬┘├─┤├┤ ├┤ │ │ │
└─┘┴└─┴ ┴└  └  ┴ ┴ ┴

Virtual graffiti painting on a textured wall.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	brushSize     = flag.Float64("size", graffiti.DefaultConfig().BrushSize, "Brush size")
	brushHardness = flag.Float64("hardness", graffiti.DefaultConfig().BrushHardness, "Brush hardness")
	paintAlpha    = flag.Float64("alpha", graffiti.DefaultConfig().PaintAlpha, "Paint opacity per stamp")
	outlineBlend  = flag.String("blend", "", "Outline blend mode")
	wallTexture   = flag.String("wall", graffiti.DefaultConfig().WallTexture, "Wall texture")
	artTexture    = flag.String("art", graffiti.DefaultConfig().ArtworkTexture, "Artwork texture")
	outlineTex    = flag.String("outline", graffiti.DefaultConfig().OutlineTexture, "Outline texture")
	canTexture    = flag.String("can", graffiti.DefaultConfig().CanTexture, "Spray can texture")
	width         = flag.Int("width", 1024, "Wall width")
	height        = flag.Int("height", 768, "Wall height")
	script        = flag.String("script", "", "Replay script (headless mode)")
	destination   = flag.String("out", "graffiti.png", "Destination of the replayed wall")
	seed          = flag.Int64("seed", 1, "Random seed of the replay")
	saveDir       = flag.String("save", ".", "Directory of the snapshots")
	verbose       = flag.Bool("v", false, "Verbose logging")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		graffiti.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := graffiti.DefaultConfig()
	cfg.BrushSize = *brushSize
	cfg.BrushHardness = *brushHardness
	cfg.PaintAlpha = *paintAlpha
	cfg.OutlineBlend = *outlineBlend
	cfg.WallTexture = *wallTexture
	cfg.ArtworkTexture = *artTexture
	cfg.OutlineTexture = *outlineTex
	cfg.CanTexture = *canTexture

	if len(*script) > 0 {
		replay(cfg)
		return
	}
	paint(cfg)
}

// replay runs a recorded script without opening a window.
func replay(cfg graffiti.Config) {
	if *destination != pipeName {
		if _, err := export.FormatFromPath(*destination); err != nil {
			log.Fatalf(utils.DecorateText(fmt.Sprintf("%v file type not supported", filepath.Ext(*destination)), utils.ErrorMessage))
		}
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	op := &graffiti.Ops{
		Script:   *script,
		Dst:      *destination,
		PipeName: pipeName,
		Width:    *width,
		Height:   *height,
		Seed:     *seed,
	}
	now := time.Now()
	stats, err := op.Execute(ctx, cfg)
	printStatus(*destination, stats, err)

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// paint opens the interactive painting window.
func paint(cfg graffiti.Config) {
	go func() {
		gui := graffiti.NewGUI(cfg, *width, *height, sound.NewManager())
		gui.SaveDir = *saveDir
		err := gui.Run()
		if msg := gui.StatusMessage(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Error running the painting session: %s", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		os.Exit(0)
	}()
	app.Main()
}

// printStatus displays the relevant information about the replay.
func printStatus(fname string, stats graffiti.SessionStats, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr,
			utils.DecorateText("\nError replaying the script: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
		os.Exit(1)
	}
	if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe wall has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
	fmt.Fprintf(os.Stderr, "%d stamps, %.1f%% of the artwork revealed\n", stats.Stamps, stats.Coverage*100)
}
