package config

// Theme defines the board colors
type Theme struct {
	// Preset name ("default" or "monochrome")
	Preset string `yaml:"preset"`

	Accent         string `yaml:"accent"`
	LaneBorder     string `yaml:"lane_border"`
	CardBorder     string `yaml:"card_border"`
	SelectedBorder string `yaml:"selected_border"`
	GrabbedBorder  string `yaml:"grabbed_border"`
	Subtle         string `yaml:"subtle"`
	Value          string `yaml:"value"`
	ErrorFg        string `yaml:"error_fg"`
	ErrorBg        string `yaml:"error_bg"`
}

// DefaultTheme returns the default purple theme
func DefaultTheme() Theme {
	return Theme{
		Preset:         "default",
		Accent:         "#7D56F4",
		LaneBorder:     "#444444",
		CardBorder:     "#5A5A5A",
		SelectedBorder: "#7D56F4",
		GrabbedBorder:  "#F97316",
		Subtle:         "#888888",
		Value:          "#22C55E",
		ErrorFg:        "#FFFFFF",
		ErrorBg:        "#EF4444",
	}
}

// MonochromeTheme returns a black and white theme
func MonochromeTheme() Theme {
	return Theme{
		Preset:         "monochrome",
		Accent:         "#FFFFFF",
		LaneBorder:     "#808080",
		CardBorder:     "#808080",
		SelectedBorder: "#FFFFFF",
		GrabbedBorder:  "#FFFFFF",
		Subtle:         "#A0A0A0",
		Value:          "#FFFFFF",
		ErrorFg:        "#000000",
		ErrorBg:        "#FFFFFF",
	}
}

// GetPreset returns a preset theme by name
func GetPreset(name string) Theme {
	if name == "monochrome" {
		return MonochromeTheme()
	}
	return DefaultTheme()
}

// ApplyDefaults fills in missing colors from the preset
func (t *Theme) ApplyDefaults() {
	preset := GetPreset(t.Preset)
	if t.Preset == "" {
		t.Preset = preset.Preset
	}

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&t.Accent, preset.Accent)
	fill(&t.LaneBorder, preset.LaneBorder)
	fill(&t.CardBorder, preset.CardBorder)
	fill(&t.SelectedBorder, preset.SelectedBorder)
	fill(&t.GrabbedBorder, preset.GrabbedBorder)
	fill(&t.Subtle, preset.Subtle)
	fill(&t.Value, preset.Value)
	fill(&t.ErrorFg, preset.ErrorFg)
	fill(&t.ErrorBg, preset.ErrorBg)
}
