// shadowbaker is a CLI utility that prepares furniture models for web
// publishing: it relocates pivots, bakes a contact-shadow plane and exports
// self-contained GLB files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miraitools/shadowbaker/internal/config"
	"github.com/miraitools/shadowbaker/internal/export"
	"github.com/miraitools/shadowbaker/internal/geometry"
	"github.com/miraitools/shadowbaker/internal/logger"
	"github.com/miraitools/shadowbaker/internal/render"
	"github.com/miraitools/shadowbaker/internal/scene"
	"github.com/miraitools/shadowbaker/internal/shadow"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "reset-pivot":
		cmdResetPivot(args)
	case "bake-shadow":
		cmdBakeShadow(args)
	case "export", "export-glb":
		cmdExport(args)
	case "export-collection":
		cmdExportCollection(args)
	case "presets":
		cmdPresets()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`shadowbaker - bake contact shadows and export furniture GLBs

Usage:
  shadowbaker <command> [options]

Commands:
  reset-pivot <file.glb> <object>        Move the object's pivot to its bottom center
  bake-shadow <file.glb> <object>        Bake the shadow mask PNG for an object
  export <file.glb> <object>             Bake and export object + shadow plane as GLB
  export-collection <file.glb> [name]    Export every member of a collection
  presets                                List the height-check presets

Examples:
  shadowbaker reset-pivot furniture.glb Desk
  shadowbaker bake-shadow furniture.glb Desk -lights 8 -symmetric
  shadowbaker export furniture.glb Desk -out ./dist -preset Table
  shadowbaker export-collection furniture.glb Scene -preset FREE`)
}

// configPath pre-scans the arguments for -config so the config file can be
// loaded before the flag set is built: the remaining flags use the loaded
// values as their defaults.
func configPath(args []string) string {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config=")
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}

// loadConfig reads the YAML config and initializes logging.
func loadConfig(args []string) *config.Config {
	cfg, err := config.Load(configPath(args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, true)
	return cfg
}

func loadScene(path string) *scene.Scene {
	sc, err := scene.LoadGLB(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return sc
}

// commonFlags registers the flags every command shares. The -config flag is
// consumed by the pre-scan; it is registered here only so Parse accepts it.
func commonFlags(fs *flag.FlagSet) {
	fs.String("config", "", "Config file path")
}

// bakeFlags registers the light-rig and bake overrides, bound directly into
// cfg on top of its loaded values.
func bakeFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.IntVar(&cfg.Bake.NumLights, "lights", cfg.Bake.NumLights, "Number of suns in the rig (1-16)")
	fs.Float64Var(&cfg.Bake.LightAngle, "angle", cfg.Bake.LightAngle, "Angular diameter per light in degrees")
	fs.Float64Var(&cfg.Bake.LightPower, "power", cfg.Bake.LightPower, "Per-light power in watts")
	fs.BoolVar(&cfg.Bake.Symmetric, "symmetric", cfg.Bake.Symmetric, "Evenly spaced lights, no jitter")
	fs.Float64Var(&cfg.Bake.RingDistance, "ring", cfg.Bake.RingDistance, "Extra ring clearance beyond the object footprint")
	fs.IntVar(&cfg.Bake.Samples, "samples", cfg.Bake.Samples, "Shadow samples per pixel per light")
	fs.Int64Var(&cfg.Bake.Seed, "seed", cfg.Bake.Seed, "Jitter/sampling seed (0 = time-based)")
}

func exportFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.Export.OutputDir, "out", cfg.Export.OutputDir, "Output directory")
	fs.StringVar(&cfg.Export.Preset, "preset", cfg.Export.Preset, "Height-check preset (empty = skip)")
}

func cmdResetPivot(args []string) {
	loadConfig(args)
	defer logger.Sync()

	fs := flag.NewFlagSet("reset-pivot", flag.ExitOnError)
	commonFlags(fs)
	out := fs.String("o", "", "Output file (default: overwrite input)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: shadowbaker reset-pivot <file.glb> <object>")
		os.Exit(1)
	}

	input := fs.Arg(0)
	sc := loadScene(input)
	obj := sc.Get(fs.Arg(1))
	if obj == nil {
		fmt.Fprintf(os.Stderr, "Error: object %q not found in %s\n", fs.Arg(1), input)
		os.Exit(1)
	}

	geometry.RelocatePivotToBottomCenter(sc, obj)

	target := *out
	if target == "" {
		target = input
	}
	if err := export.WriteGLB(target, sc.MeshObjects()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Pivot of %s moved to bottom center, saved to %s\n", obj.Name, target)
}

func cmdBakeShadow(args []string) {
	cfg := loadConfig(args)
	defer logger.Sync()

	fs := flag.NewFlagSet("bake-shadow", flag.ExitOnError)
	commonFlags(fs)
	bakeFlags(fs, cfg)
	out := fs.String("out", cfg.Export.OutputDir, "Output directory for the mask PNG")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: shadowbaker bake-shadow <file.glb> <object>")
		os.Exit(1)
	}

	sc := loadScene(fs.Arg(0))
	obj := sc.Get(fs.Arg(1))
	if obj == nil {
		fmt.Fprintf(os.Stderr, "Error: object %q not found\n", fs.Arg(1))
		os.Exit(1)
	}

	shadow.BuildLightRig(sc, obj, shadow.RigOptions{
		Count:        cfg.Bake.NumLights,
		AngleDeg:     cfg.Bake.LightAngle,
		Strength:     cfg.Bake.LightPower,
		Symmetric:    cfg.Bake.Symmetric,
		RingDistance: cfg.Bake.RingDistance,
	}, nil)
	plane := shadow.BuildShadowPlane(sc, obj)
	shadow.BindImageToPlane(plane, shadow.BuildRasterImage(obj.Name, shadow.TextureSize, shadow.TextureSize))
	shadow.ConfigureBakeSettings(sc, cfg.Bake.Samples)
	shadow.IsolateForRender(sc, obj, plane)

	baked, err := shadow.RunBake(sc, render.NewRaycaster(cfg.Bake.Seed), plane)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mask := shadow.Binarize(baked)
	maskPath := filepath.Join(*out, export.ShadowMaskName)
	if err := shadow.WritePNG(mask, maskPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Shadow mask for %s saved to %s\n", obj.Name, maskPath)
}

func cmdExport(args []string) {
	cfg := loadConfig(args)
	defer logger.Sync()

	fs := flag.NewFlagSet("export", flag.ExitOnError)
	commonFlags(fs)
	bakeFlags(fs, cfg)
	exportFlags(fs, cfg)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: shadowbaker export <file.glb> <object>")
		os.Exit(1)
	}

	sc := loadScene(fs.Arg(0))
	exp := export.New(sc, render.NewRaycaster(cfg.Bake.Seed), cfg)

	out, err := exp.ExportByName(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %s\n", out)
}

func cmdExportCollection(args []string) {
	cfg := loadConfig(args)
	defer logger.Sync()

	fs := flag.NewFlagSet("export-collection", flag.ExitOnError)
	commonFlags(fs)
	bakeFlags(fs, cfg)
	exportFlags(fs, cfg)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: shadowbaker export-collection <file.glb> [name]")
		os.Exit(1)
	}

	name := cfg.Export.Collection
	if fs.NArg() > 1 {
		name = fs.Arg(1)
	}
	if name == "" {
		name = "Scene"
	}

	sc := loadScene(fs.Arg(0))
	exp := export.New(sc, render.NewRaycaster(cfg.Bake.Seed), cfg)

	res, err := exp.ExportCollection(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, path := range res.Exported {
		fmt.Printf("Exported %s\n", path)
	}
	for member, memberErr := range res.Failed {
		fmt.Fprintf(os.Stderr, "Skipped %s: %v\n", member, memberErr)
	}
	fmt.Printf("%d exported, %d skipped\n", len(res.Exported), len(res.Failed))
	if len(res.Failed) > 0 {
		os.Exit(1)
	}
}

func cmdPresets() {
	fmt.Println("Height presets:")
	for _, name := range export.PresetNames() {
		preset, _ := export.Preset(name)
		rangeStr := fmt.Sprintf("%.2fm - %.2fm", preset.Min, preset.Max)
		if preset.Max > 100 {
			rangeStr = "any height"
		}
		fmt.Printf("  %-12s %s\n", name, rangeStr)
	}
}
