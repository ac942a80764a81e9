package colors

// Color is an ANSI SGR code.
type Color int

// ANSI codes used by the console writer. Taken from zerolog's console writer.
const (
	// RED is the ANSI code for red
	RED Color = iota + 31
	// GREEN is the ANSI code for green
	GREEN
	// YELLOW is the ANSI code for yellow
	YELLOW
	// BLUE is the ANSI code for blue
	BLUE
	// MAGENTA is the ANSI code for magenta
	MAGENTA
	// CYAN is the ANSI code for cyan
	CYAN
	// BOLD is the ANSI code for bold text
	BOLD Color = 1
	// ITALIC is the ANSI code for italic text
	ITALIC Color = 3
	// DARK_GRAY is the ANSI code for dark gray
	DARK_GRAY Color = 90
)

// Glyphs used for console output.
const (
	// LEFT_ARROW prefixes informational log lines
	LEFT_ARROW = "⇾"
	// QUESTION_MARK is wrapped in brackets in front of every interactive question
	QUESTION_MARK = "?"
	// LIGHTNING prefixes the line announcing where a config is written
	LIGHTNING = "⚡️"
	// PARTY prefixes the completion line of the wizard
	PARTY = "\U0001f389"
)
