package config

import "sort"

var Presets = map[string]*Config{
	"slow": {
		Motor: MotorConfig{Speed: 2, Resolution: "full", Direction: "forward"},
	},
	"fast": {
		Motor: MotorConfig{Speed: 100, Resolution: "full", Direction: "forward"},
	},
	"fine": {
		Motor: MotorConfig{Speed: 40, Resolution: "eighth", Direction: "forward"},
	},
	"reverse": {
		Motor: MotorConfig{Speed: 10, Resolution: "half", Direction: "backward"},
	},
	"homing": {
		Motor: MotorConfig{Speed: 25, Resolution: "quarter", Direction: "backward", HaltAtTarget: true},
	},
}

// GetPreset returns a full configuration built from the named preset's
// motor settings, or nil if the preset does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Motor = p.Motor
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
