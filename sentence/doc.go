package sentence

// Span is a slice of a Doc, from the token Start up to, but not including,
// the token End.
type Span struct {
	Doc   *Doc
	Start int
	End   int
}

// Span returns the tokens [start, end) of the doc. Out of range bounds are
// clamped.
func (d *Doc) Span(start, end int) Span {
	if start < 0 {
		start = 0
	}

	if end > len(d.Tokens) {
		end = len(d.Tokens)
	}

	if end < start {
		end = start
	}

	return Span{Doc: d, Start: start, End: end}
}

// ancestorOf reports whether the token a is an ancestor of (or is) the token i.
func (d *Doc) ancestorOf(a, i int) bool {
	// a head chain longer than the doc means a cycle in malformed input
	for steps := 0; steps <= len(d.Tokens); steps++ {
		if i == a {
			return true
		}

		head := d.Tokens[i].Head
		if head == i || head < 0 || head >= len(d.Tokens) {
			return false
		}
		i = head
	}

	return false
}

// LeftEdge returns the index of the leftmost token of the subtree of the
// token i.
func (d *Doc) LeftEdge(i int) int {
	edge := i
	for j := i - 1; j >= 0; j-- {
		if d.ancestorOf(i, j) {
			edge = j
		}
	}

	return edge
}

// RightEdge returns the index of the rightmost token of the subtree of the
// token i.
func (d *Doc) RightEdge(i int) int {
	edge := i
	for j := i + 1; j < len(d.Tokens); j++ {
		if d.ancestorOf(i, j) {
			edge = j
		}
	}

	return edge
}

// Subtree returns the span from the left edge to the right edge of the token
// i.
func (d *Doc) Subtree(i int) Span {
	return d.Span(d.LeftEdge(i), d.RightEdge(i)+1)
}

// Children returns the indexes of the tokens whose head is i.
func (d *Doc) Children(i int) []int {
	var children []int
	for _, t := range d.Tokens {
		if t.Head == i && t.Id != i {
			children = append(children, t.Id)
		}
	}

	return children
}

// Sentences groups the tokens of the doc by sentence.
func (d *Doc) Sentences() [][]Token {
	var sentences [][]Token
	last := -1
	for _, t := range d.Tokens {
		if len(sentences) == 0 || t.SentenceId != last {
			sentences = append(sentences, []Token{})
			last = t.SentenceId
		}

		sentences[len(sentences)-1] = append(sentences[len(sentences)-1], t)
	}

	return sentences
}

// Tokens returns the tokens of the span.
func (s Span) Tokens() []Token {
	if s.Doc == nil {
		return nil
	}

	return s.Doc.Tokens[s.Start:s.End]
}

// Len returns the number of tokens of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Sub returns the sub span [start, end) with offsets relative to s.
func (s Span) Sub(start, end int) Span {
	return Span{Doc: s.Doc, Start: s.Start + start, End: s.Start + end}
}

// Contains reports whether the doc token i is inside the span.
func (s Span) Contains(i int) bool {
	return i >= s.Start && i < s.End
}

// StartChar returns the rune offset of the span in the doc text.
func (s Span) StartChar() int {
	if s.Len() == 0 {
		return 0
	}

	return s.Doc.Tokens[s.Start].Idx
}

// EndChar returns the rune offset just after the last token of the span.
func (s Span) EndChar() int {
	if s.Len() == 0 {
		return 0
	}

	return s.Doc.Tokens[s.End-1].End()
}

// Text returns the verbatim text of the span, including inner whitespace.
func (s Span) Text() string {
	if s.Len() == 0 {
		return ""
	}

	runes := []rune(s.Doc.Text)
	start, end := s.StartChar(), s.EndChar()
	if start >= 0 && end <= len(runes) && start <= end {
		return string(runes[start:end])
	}

	// offsets do not refer to the doc text, rebuild it from the tokens
	text := ""
	for i, t := range s.Tokens() {
		if i > 0 {
			text += " "
		}
		text += t.Text
	}

	return text
}
