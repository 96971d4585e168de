package file

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	sent "github.com/revelaction/terms/sentence"
)

// ReadConllu reads the CoNLL-U file at path.
func ReadConllu(path string) ([]sent.Doc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeConllu(f)
}

// DecodeConllu decodes already parsed sentences in the CoNLL-U format, one
// Doc per sentence.
//
// The doc id is taken from the "# sent_id" comment, the text from "# text".
// Without text comment, the text is rebuilt from the word forms honoring
// SpaceAfter=No. The words of a multiword token (1-2) all take the offset and
// the surface form of the token, f.ex. "del" for "de" and "el"; their own
// forms stay in the lemmas. Empty nodes (1.1) are skipped.
func DecodeConllu(r io.Reader) ([]sent.Doc, error) {
	var docs []sent.Doc
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var cur *conlluSentence
	flush := func() error {
		if cur == nil {
			return nil
		}

		doc, err := cur.doc(len(docs) + 1)
		if err != nil {
			return err
		}

		docs = append(docs, doc)
		cur = nil
		return nil
	}

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(text) == "" {
			if err := flush(); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			continue
		}

		if cur == nil {
			cur = &conlluSentence{}
		}

		if strings.HasPrefix(text, "#") {
			cur.comment(text)
			continue
		}

		if err := cur.word(text); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line, err)
	}

	return docs, nil
}

type conlluWord struct {
	id                              int
	form, lemma, upos, xpos, deprel string
	head                            int
	spaceAfter                      bool
}

// conlluRange is a multiword token: the words first to last written as form.
type conlluRange struct {
	first, last int
	form        string
	spaceAfter  bool
}

type conlluSentence struct {
	id     string
	text   string
	words  []conlluWord
	ranges []conlluRange
}

func (s *conlluSentence) comment(line string) {
	key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), "=")
	if !ok {
		return
	}

	switch strings.TrimSpace(key) {
	case "sent_id":
		s.id = strings.TrimSpace(value)
	case "text":
		s.text = strings.TrimSpace(value)
	}
}

func (s *conlluSentence) word(line string) error {
	cols := strings.Split(line, "\t")
	if len(cols) != 10 {
		return fmt.Errorf("expected 10 columns, got %d", len(cols))
	}

	if first, last, ok := strings.Cut(cols[0], "-"); ok {
		r := conlluRange{form: cols[1], spaceAfter: !strings.Contains(cols[9], "SpaceAfter=No")}
		var err1, err2 error
		r.first, err1 = strconv.Atoi(first)
		r.last, err2 = strconv.Atoi(last)
		if err1 != nil || err2 != nil || r.first > r.last {
			return fmt.Errorf("invalid multiword token range %q", cols[0])
		}

		s.ranges = append(s.ranges, r)
		return nil
	}

	// empty nodes
	if strings.Contains(cols[0], ".") {
		return nil
	}

	id, err := strconv.Atoi(cols[0])
	if err != nil {
		return fmt.Errorf("invalid word id %q: %w", cols[0], err)
	}

	head, err := strconv.Atoi(cols[6])
	if err != nil {
		return fmt.Errorf("invalid head %q: %w", cols[6], err)
	}

	s.words = append(s.words, conlluWord{
		id:         id,
		form:       cols[1],
		lemma:      underscore(cols[2]),
		upos:       underscore(cols[3]),
		xpos:       underscore(cols[4]),
		deprel:     underscore(cols[7]),
		head:       head,
		spaceAfter: !strings.Contains(cols[9], "SpaceAfter=No"),
	})

	return nil
}

func underscore(s string) string {
	if s == "_" {
		return ""
	}
	return s
}

// rangeOf returns the multiword token containing the word id.
func (s *conlluSentence) rangeOf(id int) (conlluRange, bool) {
	for _, r := range s.ranges {
		if id >= r.first && id <= r.last {
			return r, true
		}
	}
	return conlluRange{}, false
}

func (s *conlluSentence) doc(n int) (sent.Doc, error) {
	doc := sent.Doc{Id: s.id}
	if doc.Id == "" {
		doc.Id = strconv.Itoa(n)
	}

	var rebuilt strings.Builder
	rebuiltLen := 0
	runes := []rune(s.text)
	cursor := 0

	// offset of the current multiword token
	rangeIdx := 0

	for i, w := range s.words {
		if w.head < 0 || w.head > len(s.words) {
			return doc, fmt.Errorf("sentence %s: head %d out of range", doc.Id, w.head)
		}

		head := w.head - 1
		if w.head == 0 {
			head = i
		}

		surface, spaceAfter := w.form, w.spaceAfter
		r, inRange := s.rangeOf(w.id)
		if inRange {
			surface, spaceAfter = r.form, r.spaceAfter
		}

		var idx int
		switch {
		case inRange && w.id != r.first:
			idx = rangeIdx
		case s.text != "":
			idx = locate(runes, cursor, surface)
			cursor = idx + len([]rune(surface))
		default:
			idx = rebuiltLen
			rebuilt.WriteString(surface)
			rebuiltLen += len([]rune(surface))
			if spaceAfter && i < len(s.words)-1 {
				rebuilt.WriteString(" ")
				rebuiltLen++
			}
		}

		if inRange && w.id == r.first {
			rangeIdx = idx
		}

		doc.Tokens = append(doc.Tokens, sent.Token{
			Id:      i,
			Head:    head,
			Pos:     w.upos,
			Dep:     w.deprel,
			Tag:     w.xpos,
			Idx:     idx,
			Text:    surface,
			Lemma:   w.lemma,
			Index:   i,
			IsPunct: w.upos == "PUNCT",
		})

		if w.deprel == "root" {
			doc.Tokens[i].Dep = "ROOT"
		}
	}

	doc.Text = s.text
	if doc.Text == "" {
		doc.Text = rebuilt.String()
	}

	return doc, nil
}

// locate returns the rune offset of form in the text, from the cursor. If
// the form is not found the cursor is returned.
func locate(runes []rune, cursor int, form string) int {
	w := []rune(form)
	for i := cursor; i+len(w) <= len(runes); i++ {
		match := true
		for j, r := range w {
			if runes[i+j] != r {
				match = false
				break
			}
		}

		if match {
			return i
		}
	}

	return cursor
}
