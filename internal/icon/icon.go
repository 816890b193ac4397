// Package icon maps the symbolic icon and colour names stored on categories
// to the closed set the UI can render.
package icon

// Fallback is rendered for any name outside the known set.
const Fallback = "Globe"

var known = map[string]struct{}{
	"BookOpen":      {},
	"Briefcase":     {},
	"Calendar":      {},
	"Camera":        {},
	"Cloud":         {},
	"Code":          {},
	"DollarSign":    {},
	"Film":          {},
	"Folder":        {},
	"Gamepad2":      {},
	"Globe":         {},
	"GraduationCap": {},
	"Heart":         {},
	"Home":          {},
	"LayoutGrid":    {},
	"Mail":          {},
	"MessageCircle": {},
	"Music":         {},
	"Newspaper":     {},
	"Palette":       {},
	"PenTool":       {},
	"ShoppingCart":  {},
	"Sparkles":      {},
	"Star":          {},
	"Terminal":      {},
	"Wrench":        {},
	"Zap":           {},
}

// Resolve returns name when it is a known icon, otherwise Fallback.
func Resolve(name string) string {
	if _, ok := known[name]; ok {
		return name
	}
	return Fallback
}

// Theme is the set of style classes derived from a category colour.
type Theme struct {
	Color      string `json:"color"`
	Text       string `json:"text"`
	Background string `json:"background"`
	Hover      string `json:"hover"`
	Badge      string `json:"badge"`
}

const DefaultColor = "vibe-accent"

var themes = map[string]Theme{
	"vibe-accent": {
		Color:      "vibe-accent",
		Text:       "text-vibe-accent",
		Background: "bg-vibe-accent/5",
		Hover:      "group-hover:bg-vibe-accent",
		Badge:      "bg-vibe-accent/10 text-vibe-accent",
	},
	"vibe-mint": {
		Color:      "vibe-mint",
		Text:       "text-vibe-mint",
		Background: "bg-vibe-mint/5",
		Hover:      "group-hover:bg-vibe-mint",
		Badge:      "bg-vibe-mint/10 text-vibe-mint",
	},
	"slate-400": {
		Color:      "slate-400",
		Text:       "text-slate-400",
		Background: "bg-slate-100/50",
		Hover:      "group-hover:bg-slate-500",
		Badge:      "bg-vibe-accent/10 text-vibe-accent",
	},
}

// ThemeFor returns the theme of color, falling back to DefaultColor.
func ThemeFor(color string) Theme {
	if t, ok := themes[color]; ok {
		return t
	}
	return themes[DefaultColor]
}
