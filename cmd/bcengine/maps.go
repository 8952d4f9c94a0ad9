package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"battlecode.ai/internal/sim/gamemap"
)

var validateMapCmd = &cobra.Command{
	Use:   "validate-map <file>...",
	Short: "Check map files against the schema and the structural rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tu, err := loadTuning()
		if err != nil {
			return err
		}
		bad := 0
		for _, path := range args {
			m, err := gamemap.Load(path, &tu)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
				bad++
				continue
			}
			sym, _ := m.Earth.Symmetry()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (earth %dx%d %s, %d initial units, %d asteroids)\n",
				path, m.Earth.Width, m.Earth.Height, sym, len(m.Earth.InitialUnits), len(m.Weather.Asteroids.Rounds()))
		}
		if bad > 0 {
			return fmt.Errorf("%d of %d maps invalid", bad, len(args))
		}
		return nil
	},
}

var genMapFlags struct {
	out       string
	seed      uint64
	width     int
	height    int
	symmetry  string
	deposits  int
	obstacles int
	workers   int
}

var genMapCmd = &cobra.Command{
	Use:   "gen-map",
	Short: "Write a generated symmetric map",
	RunE:  runGenMap,
}

func init() {
	f := genMapCmd.Flags()
	f.StringVarP(&genMapFlags.out, "out", "o", "map.json", "output path")
	f.Uint64Var(&genMapFlags.seed, "seed", 6147, "map seed")
	f.IntVar(&genMapFlags.width, "width", 0, "planet width (default: tuning minimum)")
	f.IntVar(&genMapFlags.height, "height", 0, "planet height (default: tuning minimum)")
	f.StringVar(&genMapFlags.symmetry, "symmetry", "rotate-180", "mirror-x, mirror-y or rotate-180")
	f.IntVar(&genMapFlags.deposits, "deposits", 40, "karbonite deposit pairs on Earth")
	f.IntVar(&genMapFlags.obstacles, "obstacles", 20, "impassable square pairs on Earth")
	f.IntVar(&genMapFlags.workers, "workers", 1, "starting workers per team")
}

func runGenMap(cmd *cobra.Command, args []string) error {
	tu, err := loadTuning()
	if err != nil {
		return err
	}
	var sym gamemap.Symmetry
	switch genMapFlags.symmetry {
	case "mirror-x":
		sym = gamemap.MirrorX
	case "mirror-y":
		sym = gamemap.MirrorY
	case "rotate-180":
		sym = gamemap.Rotate180
	default:
		return fmt.Errorf("unknown symmetry %q", genMapFlags.symmetry)
	}
	m := gamemap.Generate(gamemap.GenOptions{
		Seed:           genMapFlags.seed,
		Width:          genMapFlags.width,
		Height:         genMapFlags.height,
		Symmetry:       sym,
		Deposits:       genMapFlags.deposits,
		Obstacles:      genMapFlags.obstacles,
		WorkersPerTeam: genMapFlags.workers,
	}, &tu)
	if err := m.Validate(&tu); err != nil {
		return fmt.Errorf("generated map: %w", err)
	}
	if err := gamemap.Write(genMapFlags.out, m); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d %s, seed %d)\n", genMapFlags.out, m.Earth.Width, m.Earth.Height, sym, m.Seed)
	return nil
}
