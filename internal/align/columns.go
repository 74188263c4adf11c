package align

import "strings"

// Columns aligns lines on delim, one column per pass, and returns the
// aligned lines joined by newlines.
//
// Each pass finds the next occurrence of delim in every line and pads the
// lines whose occurrence sits left of the rightmost one. A line that runs out
// of occurrences stops taking part. The loop ends when no line has an
// occurrence left.
func Columns(lines []*Line, delim string, alignFirst bool, guard *Guard) (string, error) {
	if _, err := alignColumns(lines, delim, alignFirst, guard); err != nil {
		return "", err
	}
	return JoinLines(lines), nil
}

// alignColumns runs the pass loop in place and returns the number of passes
// that found at least one occurrence.
func alignColumns(lines []*Line, delim string, alignFirst bool, guard *Guard) (int, error) {
	matches := make([]int, len(lines))
	passes := 0

	for {
		if guard.HasTicked() {
			return passes, timeoutError("align.Columns")
		}

		maxpos := -1
		for i, l := range lines {
			matches[i] = l.FindNext(delim, alignFirst)
			if matches[i] > maxpos {
				maxpos = matches[i]
			}
		}
		if maxpos < 0 {
			return passes, nil
		}
		passes++

		for i, l := range lines {
			pos := matches[i]
			if pos < 0 || pos >= maxpos {
				continue
			}
			l.Insert(pos, strings.Repeat(" ", maxpos-pos))
		}
	}
}
