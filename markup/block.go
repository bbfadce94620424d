package markup

import (
	"regexp"
	"strings"

	"imgpath/variant"
)

var (
	blockOpener = regexp.MustCompile(`(?:^|[^\w-])img(?:[.#][\w-]+)*\(`)
	blockSrc    = regexp.MustCompile(`(?i)(?:^|[\s(,])src\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// Block handles indentation significant templates (pug) where image is an
// img(...) call with attributes possibly spread over several lines.
type Block struct {
	Indent int
}

type blockState int

const (
	seekingReference blockState = iota
	inBlock
	blockDone
)

type lineSpan struct {
	start, end int
}

// lineSpans splits source into lines, end excludes line terminator.
func lineSpans(src string) []lineSpan {
	var spans []lineSpan
	for start := 0; start <= len(src); {
		i := strings.IndexByte(src[start:], '\n')
		if i < 0 {
			spans = append(spans, lineSpan{start, len(src)})
			break
		}
		end := start + i
		if end > start && src[end-1] == '\r' {
			end--
		}
		spans = append(spans, lineSpan{start, end})
		start += i + 1
	}
	return spans
}

// parenScanner tracks parenthesis depth across lines ignoring quoted text.
type parenScanner struct {
	depth   int
	quote   byte
	escaped bool
}

// feed returns index of the parenthesis closing the block or -1.
func (s *parenScanner) feed(seg string) int {
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if s.quote != 0 {
			switch {
			case s.escaped:
				s.escaped = false
			case c == '\\':
				s.escaped = true
			case c == s.quote:
				s.quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			s.quote = c
		case '(':
			s.depth++
		case ')':
			s.depth--
			if s.depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (d *Block) Kind() Kind {
	return KindBlock
}

// Locate walks lines looking for img( openers. First src attribute inside
// the block is the reference, block ends on the line with matching closing
// parenthesis. Search for the next block resumes on the following line.
func (d *Block) Locate(src string) []Reference {
	var (
		refs    []Reference
		lines   = lineSpans(src)
		state   = seekingReference
		ref     Reference
		scan    parenScanner
		from    int
		found   bool
		ignored bool
		valEnd  int
	)

	for i := 0; i < len(lines); {
		ln := lines[i]
		line := src[ln.start:ln.end]

		switch state {
		case seekingReference:
			loc := blockOpener.FindStringIndex(line)
			if loc == nil {
				i++
				continue
			}
			ref = Reference{Start: ln.start, Close: -1}
			scan = parenScanner{depth: 1}
			from, found, ignored = loc[1], false, false
			state = inBlock

		case inBlock:
			seg := line[from:]
			closeAt := scan.feed(seg)
			search := seg
			if closeAt >= 0 {
				search = seg[:closeAt]
			}
			if !found && !ignored {
				if sm := blockSrc.FindStringSubmatchIndex(search); sm != nil {
					vs, ve := sm[2], sm[3]
					if vs < 0 {
						vs, ve = sm[4], sm[5]
					}
					if value := search[vs:ve]; variant.IsRaster(value) {
						found = true
						ref.Path = value
						ref.ValueStart = ln.start + from + vs
						ref.ValueEnd = ln.start + from + ve
						valEnd = ln.end
					} else {
						ignored = true
					}
				}
			}
			if closeAt >= 0 {
				ref.Close = ln.start + from + closeAt
				ref.End = ln.end
				state = blockDone
				continue
			}
			from = 0
			i++

		case blockDone:
			if found {
				refs = append(refs, ref)
			}
			state = seekingReference
			i++
		}
	}

	// unterminated block, value can still be replaced
	if state == inBlock && found {
		ref.End = valEnd
		refs = append(refs, ref)
	}
	return refs
}

// Rewrite replaces src value and, when there are markers, moves closing
// parenthesis to its own line after marker lines.
func (d *Block) Rewrite(src string, ref Reference, main string, markers []Marker, nl string) string {
	text := src[ref.Start:ref.ValueStart] + main
	if len(markers) == 0 || ref.Close < 0 {
		return text + src[ref.ValueEnd:ref.End]
	}
	text += src[ref.ValueEnd:ref.Close]
	tail := src[ref.Close+1 : ref.End]

	ls := strings.LastIndexByte(text, '\n') + 1
	var b strings.Builder
	b.WriteString(text[:ls])
	if head := text[ls:]; strings.TrimSpace(head) != "" {
		b.WriteString(strings.TrimRight(head, " \t"))
		b.WriteString(nl)
	}

	indent := lineIndent(src, ref.Start) + strings.Repeat(" ", d.Indent)
	for _, m := range markers {
		b.WriteString(indent)
		b.WriteString(m.Name)
		b.WriteString(`="`)
		b.WriteString(strings.ReplaceAll(m.Value, `"`, `\"`))
		b.WriteString(`"`)
		b.WriteString(nl)
	}
	b.WriteString(indent)
	b.WriteString(")")
	b.WriteString(tail)
	return b.String()
}
