package stage

import "strings"

// funcToken replaces gcov function-definition lines in the condensed output.
// Function lines carry no per-line count and must not be mistaken for a
// coverage count line downstream.
const funcToken = "func"

// gcovLine is one parsed entry of a gcov report body.
type gcovLine struct {
	Count string
	Line  string
	Func  bool
}

// gcovReport is a line-oriented gcov file reduced to what the server
// consumes: the source path header plus one entry per executable line.
type gcovReport struct {
	Header string
	Lines  []gcovLine
}

// parseGcov reads gcov output as an explicit grammar rather than chained
// text substitutions, so malformed lines and multi-colon source text are
// handled by explicit cases. Rules, in order:
//   - the first line is the header, kept verbatim
//   - lines beginning with "function" become a func marker
//   - block-closing summary lines (ending in "}") are dropped
//   - lines without an execution count and line number are dropped
//   - non-executable lines (count "-") are dropped
func parseGcov(data []byte) gcovReport {
	lines := strings.Split(string(data), "\n")
	rep := gcovReport{Header: lines[0]}
	for _, raw := range lines[1:] {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "function") {
			rep.Lines = append(rep.Lines, gcovLine{Func: true})
			continue
		}
		if strings.HasSuffix(trimmed, "}") {
			continue
		}
		fields := strings.Split(raw, ":")
		if len(fields) < 2 {
			continue
		}
		count := strings.TrimSpace(fields[0])
		if count == "" || strings.HasPrefix(count, "-") {
			continue
		}
		rep.Lines = append(rep.Lines, gcovLine{Count: count, Line: strings.TrimSpace(fields[1])})
	}
	return rep
}

// condensed renders the report as the header followed by execution_count:
// line_number: triples, one per line.
func (r gcovReport) condensed() []byte {
	var b strings.Builder
	b.WriteString(r.Header)
	b.WriteByte('\n')
	for _, l := range r.Lines {
		if l.Func {
			b.WriteString(funcToken)
		} else {
			b.WriteString(l.Count)
			b.WriteByte(':')
			b.WriteString(l.Line)
			b.WriteByte(':')
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// condenseGcov rewrites raw gcov output into the condensed line-coverage
// representation.
func condenseGcov(data []byte) []byte {
	return parseGcov(data).condensed()
}
