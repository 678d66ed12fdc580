package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const bannerWidth = 60

// PrintBanner draws a boxed title on w. The box grows when the title does not fit.
func PrintBanner(w io.Writer, title string) {
	inner := bannerWidth - 2
	if n := utf8.RuneCountInString(title) + 2; n > inner {
		inner = n
	}

	edge := strings.Repeat("═", inner)
	fmt.Fprintf(w, "╔%s╗\n", edge)
	fmt.Fprintf(w, "║%s║\n", padCenter(title, inner))
	fmt.Fprintf(w, "╚%s╝\n", edge)
}

func padCenter(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return string([]rune(text)[:width])
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-n-left)
}
