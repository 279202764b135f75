package config

// KeyMappings defines all configurable key bindings of the board
type KeyMappings struct {
	// Drag and drop
	Grab      string `yaml:"grab"`
	GrabLane  string `yaml:"grab_lane"`
	MoveLeft  string `yaml:"move_left"`
	MoveRight string `yaml:"move_right"`
	MoveUp    string `yaml:"move_up"`
	MoveDown  string `yaml:"move_down"`
	Drop      string `yaml:"drop"`
	Cancel    string `yaml:"cancel"`

	// Navigation
	PrevLane   string `yaml:"prev_lane"`
	NextLane   string `yaml:"next_lane"`
	PrevTicket string `yaml:"prev_ticket"`
	NextTicket string `yaml:"next_ticket"`

	// Other
	Reload   string `yaml:"reload"`
	ShowHelp string `yaml:"show_help"`
	Quit     string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		Grab:      " ",
		GrabLane:  "g",
		MoveLeft:  "H",
		MoveRight: "L",
		MoveUp:    "K",
		MoveDown:  "J",
		Drop:      "enter",
		Cancel:    "esc",

		PrevLane:   "h",
		NextLane:   "l",
		PrevTicket: "k",
		NextTicket: "j",

		Reload:   "r",
		ShowHelp: "?",
		Quit:     "q",
	}
}

// applyDefaults fills in missing key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&k.Grab, defaults.Grab)
	fill(&k.GrabLane, defaults.GrabLane)
	fill(&k.MoveLeft, defaults.MoveLeft)
	fill(&k.MoveRight, defaults.MoveRight)
	fill(&k.MoveUp, defaults.MoveUp)
	fill(&k.MoveDown, defaults.MoveDown)
	fill(&k.Drop, defaults.Drop)
	fill(&k.Cancel, defaults.Cancel)
	fill(&k.PrevLane, defaults.PrevLane)
	fill(&k.NextLane, defaults.NextLane)
	fill(&k.PrevTicket, defaults.PrevTicket)
	fill(&k.NextTicket, defaults.NextTicket)
	fill(&k.Reload, defaults.Reload)
	fill(&k.ShowHelp, defaults.ShowHelp)
	fill(&k.Quit, defaults.Quit)
}
