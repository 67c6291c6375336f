package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// padRight pads s with pad up to width cells
func padRight(s string, width int, pad string) string {
	missing := width - runewidth.StringWidth(s)
	if missing <= 0 {
		return s
	}
	return s + strings.Repeat(pad, missing)
}

// padBoth centers s in width cells; an odd remainder goes to the right
func padBoth(s string, width int, pad string) string {
	missing := width - runewidth.StringWidth(s)
	if missing <= 0 {
		return s
	}
	left := missing / 2
	return strings.Repeat(pad, left) + s + strings.Repeat(pad, missing-left)
}

// wordWrap breaks s at spaces so that lines fit in width cells.
// Words longer than width are never cut. Existing line breaks are kept.
func wordWrap(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, width int) string {
	if runewidth.StringWidth(line) <= width {
		return line
	}
	words := strings.Split(line, " ")

	var b strings.Builder
	b.WriteString(words[0])
	current := runewidth.StringWidth(words[0])
	for _, w := range words[1:] {
		ww := runewidth.StringWidth(w)
		if current+1+ww <= width {
			b.WriteByte(' ')
			current += 1 + ww
			b.WriteString(w)
			continue
		}
		b.WriteByte('\n')
		b.WriteString(w)
		current = ww
	}
	return b.String()
}

// prefixBlock prepends prefix to the lines of text. Unless all is set,
// lines that are empty or start with a space get blank padding of the
// same width instead, which keeps the indentation of dumped values.
func prefixBlock(text, prefix string, all bool) string {
	if text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	trailing := false
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		trailing = true
	}

	padding := strings.Repeat(" ", runewidth.StringWidth(prefix))
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if all || (line != "" && line[0] != ' ') {
			b.WriteString(prefix)
		} else {
			b.WriteString(padding)
		}
		b.WriteString(line)
	}
	if trailing {
		b.WriteByte('\n')
	}
	return b.String()
}

// textBlock wraps s to the message width and indents every line by the
// prefix length. Leading and trailing whitespace of the block is trimmed,
// so the first line ends up flush left.
func (f *EasyLogFormatter) textBlock(s string) string {
	wrapped := wordWrap(s, f.MaxLineLength-f.PrefixLength)
	indent := strings.Repeat(" ", f.PrefixLength)
	lines := strings.Split(wrapped, "\n")
	for i := range lines {
		lines[i] = indent + lines[i]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// subtitle renders a centered banner line
func (f *EasyLogFormatter) subtitle(title string) string {
	return padBoth("###  "+title+"  ", f.MaxLineLength, "#") + "\n"
}

// title renders a subtitle between two full-width rules
func (f *EasyLogFormatter) title(title string) string {
	rule := strings.Repeat("#", f.MaxLineLength)
	return rule + "\n" + f.subtitle(title) + rule + "\n"
}

// section renders a record header line
func (f *EasyLogFormatter) section(text string) string {
	return padRight("___ "+text+" ", f.MaxLineLength, "_") + "\n"
}
