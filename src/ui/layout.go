package ui

// Layout holds the body sizes of every document area for a window size.
type Layout struct {
	InputW, InputH     int
	OutputW, OutputH   int
	ConsoleW, ConsoleH int
	ArgsW              int
}

const (
	headerLines = 1
	argsLines   = 3 // bordered single-line input
	statusLines = 1
	footerLines = 1
	boxChrome   = 2 // top and bottom border
	tabLines    = 1
	minBody     = 1
)

// ComputeLayout splits the window 5:2 between the editor row and the
// console, and the editor row evenly between inputs and outputs.
func ComputeLayout(width, height int) Layout {
	avail := height - headerLines - argsLines - statusLines - footerLines
	if avail < 0 {
		avail = 0
	}
	top := avail * 5 / 7
	bottom := avail - top

	leftW := width / 2
	rightW := width - leftW

	return Layout{
		InputW:   atLeast(leftW-boxChrome, minBody),
		InputH:   atLeast(top-boxChrome-tabLines, minBody),
		OutputW:  atLeast(rightW-boxChrome, minBody),
		OutputH:  atLeast(top-boxChrome-tabLines, minBody),
		ConsoleW: atLeast(width-boxChrome, minBody),
		ConsoleH: atLeast(bottom-boxChrome-tabLines, minBody),
		ArgsW:    atLeast(width-boxChrome-len(argsLabel)-2, minBody),
	}
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
