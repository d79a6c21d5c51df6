package deck

import (
	"bytes"
	"regexp"
	"strconv"

	"katgen/internal/core/domain"
)

// TextOptions tune how long descriptions are shrunk to fit their text
// frame. Sizes are in points; a zero threshold disables that step.
type TextOptions struct {
	ShrinkMidThreshold int
	ShrinkMidSize      int
	ShrinkMaxThreshold int
	ShrinkMaxSize      int
}

// shrinkSize returns the override size in points for a description of
// the given rune count, or 0 when the template size should stand.
func (o TextOptions) shrinkSize(runes int) int {
	if o.ShrinkMaxThreshold > 0 && runes > o.ShrinkMaxThreshold {
		return o.ShrinkMaxSize
	}
	if o.ShrinkMidThreshold > 0 && runes > o.ShrinkMidThreshold {
		return o.ShrinkMidSize
	}
	return 0
}

var (
	runBlockRe = regexp.MustCompile(`(?s)<a:r>.*?</a:r>`)
	rPrSzRe    = regexp.MustCompile(`(<a:rPr\b[^>]*?\ssz=")\d+(")`)
	rPrOpenRe  = regexp.MustCompile(`<a:rPr\b`)
)

// SubstituteShapeText replaces field tokens inside a shape's text runs
// and reports whether anything changed. Run formatting is preserved;
// only runs carrying the description token get a size override when
// the substituted description exceeds the shrink thresholds.
func SubstituteShapeText(raw []byte, value func(domain.Field) string, opts TextOptions) ([]byte, bool) {
	replaced := false

	substitute := func(block []byte) []byte {
		return runTextRe.ReplaceAllFunc(block, func(m []byte) []byte {
			sub := runTextRe.FindSubmatch(m)
			text := xmlUnescape(string(sub[1]))
			out, changed := domain.SubstituteTokens(text, value)
			if !changed {
				return m
			}
			replaced = true
			var b bytes.Buffer
			b.WriteString("<a:t>")
			xmlEscapeTo(&b, out)
			b.WriteString("</a:t>")
			return b.Bytes()
		})
	}

	descToken := []byte(domain.Token(domain.FieldDescription))
	out := runBlockRe.ReplaceAllFunc(raw, func(run []byte) []byte {
		hadDescription := bytes.Contains(run, descToken)
		run = substitute(run)
		if hadDescription {
			if size := opts.shrinkSize(len([]rune(value(domain.FieldDescription)))); size > 0 {
				run = overrideRunSize(run, size)
			}
		}
		return run
	})

	// Text can also live outside explicit runs, e.g. in field elements.
	// Runs were handled above and are skipped here, otherwise a value
	// that itself contains brace text would be substituted again.
	out = substituteOutsideRuns(out, substitute)

	return out, replaced
}

// substituteOutsideRuns applies substitute to the stretches of data
// that lie between <a:r> blocks, leaving the runs themselves alone.
func substituteOutsideRuns(data []byte, substitute func([]byte) []byte) []byte {
	locs := runBlockRe.FindAllIndex(data, -1)
	if len(locs) == 0 {
		return substitute(data)
	}

	var b bytes.Buffer
	prev := 0
	for _, loc := range locs {
		b.Write(substitute(data[prev:loc[0]]))
		b.Write(data[loc[0]:loc[1]])
		prev = loc[1]
	}
	b.Write(substitute(data[prev:]))
	return b.Bytes()
}

// setShapeText rewrites a shape's literal text: the first run receives
// the given text, later runs are blanked. Shapes without any run pass
// through unchanged.
func setShapeText(raw []byte, text string) []byte {
	first := true
	return runTextRe.ReplaceAllFunc(raw, func([]byte) []byte {
		if !first {
			return []byte("<a:t></a:t>")
		}
		first = false
		var b bytes.Buffer
		b.WriteString("<a:t>")
		xmlEscapeTo(&b, text)
		b.WriteString("</a:t>")
		return b.Bytes()
	})
}

// overrideRunSize forces the run's font size, rewriting an existing sz
// attribute or inserting run properties when the run has none.
func overrideRunSize(run []byte, points int) []byte {
	sz := strconv.Itoa(points * 100)

	if rPrSzRe.Match(run) {
		return rPrSzRe.ReplaceAll(run, []byte("${1}"+sz+"${2}"))
	}

	if loc := rPrOpenRe.FindIndex(run); loc != nil {
		var b bytes.Buffer
		b.Write(run[:loc[1]])
		b.WriteString(` sz="` + sz + `"`)
		b.Write(run[loc[1]:])
		return b.Bytes()
	}

	if i := bytes.Index(run, []byte("<a:t>")); i >= 0 {
		var b bytes.Buffer
		b.Write(run[:i])
		b.WriteString(`<a:rPr lang="pl-PL" sz="` + sz + `" dirty="0"/>`)
		b.Write(run[i:])
		return b.Bytes()
	}

	return run
}
