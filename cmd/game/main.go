package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Four-Quarters/internal/duel"
	"github.com/Garsondee/Four-Quarters/internal/game"
	"github.com/Garsondee/Four-Quarters/internal/save"
)

func main() {
	var saveDir string
	var playerLevel, botLevel int
	flag.StringVar(&saveDir, "save-dir", "data/saves", "directory for the local duel save (empty disables saving)")
	flag.IntVar(&playerLevel, "player-level", 1, "starting player level")
	flag.IntVar(&botLevel, "bot-level", 1, "starting bot level")
	flag.Parse()

	opts := game.Options{
		PlayerLevel: duel.Level(playerLevel),
		BotLevel:    duel.Level(botLevel),
	}
	if saveDir != "" {
		store, err := save.NewFileStore(saveDir)
		if err != nil {
			log.Printf("[SAVE] saving disabled: %v", err)
		} else {
			opts.Store = store
		}
	}

	g, err := game.New(opts)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowTitle("Four Quarters")
	ebiten.SetWindowSize(1632, 912)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
