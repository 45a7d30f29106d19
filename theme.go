package imagechat

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg int // User prompt accent
	Image   int // Image list entries
	Error   int // Error messages
	Notice  int // Informational notices
	Success int // Saved-file confirmations
	Muted   int // Status bar, placeholders
	Accent  int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg: 4,
		Image:   6,
		Error:   1,
		Notice:  3,
		Success: 2,
		Muted:   8,
		Accent:  5,
	}
}
