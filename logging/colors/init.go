package colors

// enabled reports whether Colorize emits ANSI sequences at all. It is flipped off by DisableColor (e.g. --no-color)
// and, on Windows, when the console does not support virtual terminal sequences.
var enabled = true

// init will ensure that ANSI coloring is enabled on Windows and Unix systems. Note that ANSI coloring is enabled by
// default on Unix system and Windows needs specific kernel calls for enablement
func init() {
	EnableColor()
}

// DisableColor turns every ColorFunc into a plain formatter.
func DisableColor() {
	enabled = false
}

// Enabled returns whether colorized output is currently produced.
func Enabled() bool {
	return enabled
}
