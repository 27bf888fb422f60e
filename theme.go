package minerva

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg int // user message accent
	Error   int // error messages
	Muted   int // status bar, timestamps, placeholders
	Accent  int // headings, links, current session marker
	Source  int // grounding source citations
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg: 4,
		Error:   1,
		Muted:   8,
		Accent:  5,
		Source:  6,
	}
}
