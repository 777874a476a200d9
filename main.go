// hollowreach is a side-scrolling action game.
//
// Usage:
//
//	hollowreach                        - Play from the configured start level
//	hollowreach play --level <name>    - Play a specific level
//	hollowreach achievements list      - Show achievement progress
//	hollowreach achievements reset     - Clear all unlocks
//	hollowreach achievements history   - Show the unlock log (sqlite only)
//	hollowreach levels                 - List and check the embedded levels
//
// Global flags:
//
//	--config <path>  - Game config YAML
//	--debug          - Debug logging, physics overlay and prefab hot reload
package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/config"
)

var (
	flagConfig string
	flagDebug  bool
	flagLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "hollowreach",
	Short:         "Hollowreach - a side-scrolling cave crawler",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlay,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the game",
	Long: `Start the game window.

Controls:
  A/D, Arrows   - Move
  Space/Z       - Jump (hold for height)
  X/J, Click    - Attack
  Esc/P         - Pause

Examples:
  hollowreach play
  hollowreach play --level boss_arena
  hollowreach play --debug`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a config YAML")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging and overlays")

	rootCmd.Flags().StringVar(&flagLevel, "level", "", "Level to start in (basename, .json optional)")
	playCmd.Flags().StringVar(&flagLevel, "level", "", "Level to start in (basename, .json optional)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(levelsCmd)
}

// loadConfig applies the global flags on top of the loaded config.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDebug {
		cfg.Debug = true
		cfg.HotReload = true
	}
	common.SetDebug(cfg.Debug)
	return cfg, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagLevel != "" {
		cfg.StartLevel = flagLevel
	}

	game, err := NewGame(cfg)
	if err != nil {
		return err
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(common.TPS)
	ebiten.SetFullscreen(cfg.Window.Fullscreen || game.settings.Get().Fullscreen)

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return game.Err()
}
