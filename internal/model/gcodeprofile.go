package model

// GCodeProfile defines a post-processor configuration for a beam saw line
// controller. The beam is fed along X against a fixed saw; Z moves the blade.
type GCodeProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       string `json:"units"` // "mm" or "inches"
	IsBuiltIn   bool   `json:"is_built_in"`

	// Startup codes
	StartCode  []string `json:"start_code"`
	BladeStart string   `json:"blade_start"` // Blade on command (e.g., "M3 S%d")
	BladeStop  string   `json:"blade_stop"`
	HomeAll    string   `json:"home_all"`

	// Beam clamping
	ClampOn  string `json:"clamp_on"`
	ClampOff string `json:"clamp_off"`

	// Motion
	AbsoluteMode string `json:"absolute_mode"`
	RapidMove    string `json:"rapid_move"`
	FeedMove     string `json:"feed_move"`

	EndCode []string `json:"end_code"` // Supports the [SafeZ] placeholder

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"` // e.g. ")" for Fanuc

	DecimalPlaces int `json:"decimal_places"`
}

// Built-in saw controller profiles. Generic must stay last.
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC driven saw line",
		Units:         "mm",
		IsBuiltIn:     true,
		StartCode:     []string{"G90", "G21", "G94"},
		BladeStart:    "M3 S%d",
		BladeStop:     "M5",
		HomeAll:       "G28 X0 Z0",
		ClampOn:       "M7",
		ClampOff:      "M9",
		AbsoluteMode:  "G90",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 1,
	},
	{
		Name:          "Mach3",
		Description:   "Mach3 CNC control software",
		Units:         "mm",
		IsBuiltIn:     true,
		StartCode:     []string{"G90", "G21", "G94"},
		BladeStart:    "M3 S%d",
		BladeStop:     "M5",
		HomeAll:       "G28 X0 Z0",
		ClampOn:       "M8",
		ClampOff:      "M9",
		AbsoluteMode:  "G90",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G28 X0", "M30"},
		CommentPrefix: ";",
		DecimalPlaces: 2,
	},
	{
		Name:          "Fanuc",
		Description:   "Fanuc style controller with parenthesised comments",
		Units:         "mm",
		IsBuiltIn:     true,
		StartCode:     []string{"G90", "G21"},
		BladeStart:    "M03 S%d",
		BladeStop:     "M05",
		HomeAll:       "G28 U0 W0",
		ClampOn:       "M10",
		ClampOff:      "M11",
		AbsoluteMode:  "G90",
		RapidMove:     "G00",
		FeedMove:      "G01",
		EndCode:       []string{"G00 Z[SafeZ]", "M30"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 3,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard GCode",
		Units:         "mm",
		IsBuiltIn:     true,
		StartCode:     []string{"G90", "G21"},
		BladeStart:    "M3 S%d",
		BladeStop:     "M5",
		HomeAll:       "G28 X0 Z0",
		AbsoluteMode:  "G90",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 1,
	},
}

// AllProfiles returns the built-in profiles followed by the custom ones.
// A custom profile with a built-in name is skipped.
func AllProfiles(custom []GCodeProfile) []GCodeProfile {
	all := append([]GCodeProfile(nil), GCodeProfiles...)
	for _, c := range custom {
		if isBuiltInName(c.Name) {
			continue
		}
		c.IsBuiltIn = false
		all = append(all, c)
	}
	return all
}

func isBuiltInName(name string) bool {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// GetProfile returns a profile by name from the built-in and custom sets,
// or the Generic profile if not found.
func GetProfile(name string, custom ...GCodeProfile) GCodeProfile {
	for _, p := range AllProfiles(custom) {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1]
}

// GetProfileNames returns a list of all available profile names.
func GetProfileNames(custom ...GCodeProfile) []string {
	var names []string
	for _, p := range AllProfiles(custom) {
		names = append(names, p.Name)
	}
	return names
}
