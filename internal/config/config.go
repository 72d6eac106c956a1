// Package config handles tool configuration loading and management.
package config

// Config holds all shadowbaker settings.
type Config struct {
	Bake    BakeConfig    `yaml:"bake"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// BakeConfig holds light-rig and bake parameters.
type BakeConfig struct {
	NumLights    int     `yaml:"num_lights"`    // number of suns in the rig, 1-16
	LightAngle   float64 `yaml:"light_angle"`   // angular diameter in degrees (shadow softness)
	LightPower   float64 `yaml:"light_power"`   // per-light power in watts
	Symmetric    bool    `yaml:"symmetric"`     // disable the random angular jitter
	RingDistance float64 `yaml:"ring_distance"` // extra horizontal clearance beyond the object footprint
	Samples      int     `yaml:"samples"`       // shadow samples per pixel per light
	Seed         int64   `yaml:"seed"`          // jitter/sampling seed, 0 = time-based
}

// ExportConfig holds GLB export parameters.
type ExportConfig struct {
	OutputDir  string `yaml:"output_dir"`
	Preset     string `yaml:"preset"`     // height-range preset name, "" skips the check
	Collection string `yaml:"collection"` // collection name for batch export
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Bake: BakeConfig{
			NumLights:    4,
			LightAngle:   13.3,
			LightPower:   5.0,
			Symmetric:    false,
			RingDistance: 1.0,
			Samples:      64,
			Seed:         0,
		},
		Export: ExportConfig{
			OutputDir:  ".",
			Preset:     "Table",
			Collection: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
