package pipeline

import (
	"strings"

	sent "github.com/revelaction/terms/sentence"
)

// chunk is a base noun phrase: [start, end] with its head token.
type chunk struct {
	start, end, head int
}

// labeler assigns heads and dependency labels to one sentence with a small
// set of rules over the POS tags: base noun phrases, their subject, object
// or prepositional role, and the attachment of the remaining tokens to the
// nearest verb. The labels follow the spacy english scheme.
type labeler struct {
	tokens []sent.Token

	// head and dep by local index, -1 / "" when not yet assigned
	heads []int
	deps  []string

	// chunk index of the token, -1 outside chunks
	chunkOf []int
	chunks  []chunk

	root int
}

func labelSentence(tokens []sent.Token) {
	if len(tokens) == 0 {
		return
	}

	l := &labeler{
		tokens:  tokens,
		heads:   make([]int, len(tokens)),
		deps:    make([]string, len(tokens)),
		chunkOf: make([]int, len(tokens)),
	}
	for i := range tokens {
		l.heads[i] = -1
		l.chunkOf[i] = -1
	}

	l.findChunks()
	l.findRoot()
	l.set(l.root, l.root, "ROOT")

	l.labelChunkInside()
	l.labelSubjects()
	l.labelPrepositions()
	l.labelObjects()
	l.labelCoordination()
	l.labelRest()

	for i := range tokens {
		tokens[i].Head = tokens[l.heads[i]].Id
		tokens[i].Dep = l.deps[i]
	}
}

func (l *labeler) pos(i int) string {
	return l.tokens[i].Pos
}

func (l *labeler) set(i, head int, dep string) {
	l.heads[i] = head
	l.deps[i] = dep
}

func (l *labeler) assigned(i int) bool {
	return l.heads[i] >= 0
}

func isNominal(pos string) bool {
	return pos == "NOUN" || pos == "PROPN" || pos == "PRON" || pos == "NUM"
}

// findChunks groups runs of determiners, adjectives, numbers, nouns and
// pronouns ending in a nominal. A personal pronoun is a chunk on its own
// and a determiner after a nominal starts a new chunk.
func (l *labeler) findChunks() {
	inRun := func(i int) bool {
		switch l.pos(i) {
		case "DET", "ADJ", "NUM", "NOUN", "PROPN", "PRON":
			return true
		case "PART":
			return l.tokens[i].Tag == "POS"
		}
		return false
	}

	start := -1
	hasNominal := false
	flush := func(end int) {
		if start < 0 {
			return
		}
		// the head is the last nominal of the run
		head := -1
		for j := end; j >= start; j-- {
			if isNominal(l.pos(j)) {
				head = j
				break
			}
		}
		if head >= 0 {
			c := chunk{start: start, end: head, head: head}
			for j := start; j <= head; j++ {
				l.chunkOf[j] = len(l.chunks)
			}
			l.chunks = append(l.chunks, c)
		}
		start = -1
		hasNominal = false
	}

	for i := range l.tokens {
		if !inRun(i) {
			flush(i - 1)
			continue
		}

		personal := l.pos(i) == "PRON" && l.tokens[i].Tag != "PRP$" && l.tokens[i].Tag != "WP$"
		newPhrase := hasNominal && (l.pos(i) == "DET" || l.tokens[i].Tag == "PRP$" || personal)
		if start >= 0 && newPhrase {
			flush(i - 1)
		}

		if start < 0 {
			start = i
		}

		if isNominal(l.pos(i)) {
			hasNominal = true
		}

		if personal {
			flush(i)
		}
	}
	flush(len(l.tokens) - 1)
}

func (l *labeler) findRoot() {
	for _, want := range []string{"VERB", "AUX"} {
		for i := range l.tokens {
			if l.pos(i) == want {
				l.root = i
				return
			}
		}
	}

	if len(l.chunks) > 0 {
		l.root = l.chunks[0].head
		return
	}

	l.root = 0
}

func (l *labeler) labelChunkInside() {
	for _, c := range l.chunks {
		for j := c.start; j < c.head; j++ {
			if l.assigned(j) {
				continue
			}

			dep := "dep"
			switch {
			case l.tokens[j].Tag == "PRP$" || l.tokens[j].Tag == "WP$":
				dep = "poss"
			case j+1 <= c.head && l.tokens[j+1].Tag == "POS":
				dep = "poss"
			case l.tokens[j].Tag == "POS":
				dep = "case"
			case l.pos(j) == "DET":
				dep = "det"
			case l.pos(j) == "ADJ":
				dep = "amod"
			case l.pos(j) == "NUM":
				dep = "nummod"
			case l.pos(j) == "NOUN", l.pos(j) == "PROPN":
				dep = "compound"
			}

			// the possessive marker belongs to its owner
			if l.tokens[j].Tag == "POS" && j > c.start {
				l.set(j, j-1, "case")
				continue
			}
			l.set(j, c.head, dep)
		}
	}
}

// before returns the index of the token before the chunk c, or -1.
func (l *labeler) before(c chunk) int {
	return c.start - 1
}

// phraseStart returns the first chunk of the noun phrase chain that ends in
// the chunk ci: chunks linked by prepositions or coordination.
func (l *labeler) phraseStart(ci int) int {
	for {
		b := l.before(l.chunks[ci])
		if b < 1 {
			return ci
		}

		if l.pos(b) != "ADP" && l.pos(b) != "CCONJ" {
			return ci
		}

		prev := l.chunkOf[b-1]
		if prev < 0 || l.chunks[prev].end != b-1 {
			return ci
		}

		ci = prev
	}
}

// labelSubjects finds, for each verb (and an auxiliary root), the noun
// phrase on its left.
func (l *labeler) labelSubjects() {
	for v := range l.tokens {
		if l.pos(v) != "VERB" && (v != l.root || l.pos(v) != "AUX") {
			continue
		}

		j := v - 1
		passive := false
		for j >= 0 && (l.pos(j) == "ADV" || l.pos(j) == "AUX" || (l.pos(j) == "PART" && l.tokens[j].Tag != "POS")) {
			if l.pos(j) == "AUX" && beForms[strings.ToLower(l.tokens[j].Text)] {
				passive = true
			}
			j--
		}

		if j < 0 || l.chunkOf[j] < 0 || l.chunks[l.chunkOf[j]].end != j {
			continue
		}

		ci := l.phraseStart(l.chunkOf[j])
		head := l.chunks[ci].head
		if l.assigned(head) {
			continue
		}

		dep := "nsubj"
		if passive && l.tokens[v].Tag == "VBN" {
			dep = "nsubjpass"
		}
		l.set(head, v, dep)
	}
}

// labelPrepositions attaches an adposition to the noun phrase or verb on its
// left and the noun phrase on its right to the adposition.
func (l *labeler) labelPrepositions() {
	for i := range l.tokens {
		if l.pos(i) != "ADP" {
			continue
		}

		if i+1 < len(l.tokens) && l.chunkOf[i+1] >= 0 && l.chunks[l.chunkOf[i+1]].start == i+1 {
			obj := l.chunks[l.chunkOf[i+1]].head
			if !l.assigned(obj) {
				l.set(obj, i, "pobj")
			}
		}

		if l.assigned(i) {
			continue
		}

		if i > 0 && l.chunkOf[i-1] >= 0 && l.chunks[l.chunkOf[i-1]].end == i-1 {
			l.set(i, l.chunks[l.chunkOf[i-1]].head, "prep")
			continue
		}

		l.set(i, l.verbBefore(i), "prep")
	}
}

// verbBefore returns the nearest verb on the left of i, the root otherwise.
func (l *labeler) verbBefore(i int) int {
	for j := i - 1; j >= 0; j-- {
		if l.pos(j) == "VERB" {
			return j
		}
	}
	return l.root
}

// labelObjects attaches the noun phrase following a verb (adverbs in
// between) as its direct object. After an auxiliary root it is an
// attribute.
func (l *labeler) labelObjects() {
	for v := range l.tokens {
		if l.pos(v) != "VERB" && (v != l.root || l.pos(v) != "AUX") {
			continue
		}

		j := v + 1
		for j < len(l.tokens) && l.pos(j) == "ADV" {
			j++
		}

		if j >= len(l.tokens) {
			continue
		}

		if l.pos(v) == "AUX" && l.pos(j) == "ADJ" && l.chunkOf[j] < 0 {
			if !l.assigned(j) {
				l.set(j, v, "acomp")
			}
			continue
		}

		ci := l.chunkOf[j]
		if ci < 0 || l.chunks[ci].start != j {
			continue
		}

		head := l.chunks[ci].head
		if l.assigned(head) {
			continue
		}

		dep := "dobj"
		if l.pos(v) == "AUX" {
			dep = "attr"
		}
		l.set(head, v, dep)
	}
}

// labelCoordination links noun phrases joined by a coordinating
// conjunction.
func (l *labeler) labelCoordination() {
	for i := range l.tokens {
		if l.pos(i) != "CCONJ" || i == 0 || i+1 >= len(l.tokens) {
			continue
		}

		left, right := l.chunkOf[i-1], l.chunkOf[i+1]
		if left < 0 || right < 0 || l.chunks[left].end != i-1 || l.chunks[right].start != i+1 {
			continue
		}

		first := l.chunks[left].head
		if !l.assigned(i) {
			l.set(i, first, "cc")
		}

		second := l.chunks[right].head
		if !l.assigned(second) {
			l.set(second, first, "conj")
		}
	}
}

// labelRest attaches every token still without head to the nearest fitting
// word, falling back to the root.
func (l *labeler) labelRest() {
	for i := range l.tokens {
		if l.assigned(i) {
			continue
		}

		switch l.pos(i) {
		case "PUNCT":
			l.set(i, l.root, "punct")

		case "AUX":
			if v := l.verbAfter(i); v >= 0 {
				dep := "aux"
				if beForms[strings.ToLower(l.tokens[i].Text)] && l.tokens[v].Tag == "VBN" {
					dep = "auxpass"
				}
				l.set(i, v, dep)
				continue
			}
			l.set(i, l.root, "dep")

		case "PART":
			dep := "aux"
			if strings.EqualFold(l.tokens[i].Text, "not") || l.tokens[i].Text == "n't" {
				dep = "neg"
			}
			if v := l.verbAfter(i); v >= 0 {
				l.set(i, v, dep)
				continue
			}
			l.set(i, l.root, dep)

		case "ADV":
			if i+1 < len(l.tokens) && (l.pos(i+1) == "VERB" || l.pos(i+1) == "ADJ") {
				l.set(i, i+1, "advmod")
				continue
			}
			l.set(i, l.verbBefore(i), "advmod")

		case "CCONJ":
			l.set(i, l.root, "cc")

		case "VERB":
			l.set(i, l.root, l.clauseDep(i))

		default:
			l.set(i, l.verbBefore(i), "dep")
		}
	}
}

// verbAfter returns the next verb on the right of i, skipping adverbs,
// auxiliaries and particles, or -1.
func (l *labeler) verbAfter(i int) int {
	for j := i + 1; j < len(l.tokens); j++ {
		switch l.pos(j) {
		case "VERB":
			return j
		case "ADV", "AUX", "PART":
			continue
		}
		return -1
	}
	return -1
}

// clauseDep names the relation of a non root verb to the root.
func (l *labeler) clauseDep(v int) string {
	for j := v - 1; j >= 0; j-- {
		switch l.pos(j) {
		case "PART":
			if l.tokens[j].Tag == "TO" {
				return "xcomp"
			}
		case "SCONJ":
			return "advcl"
		case "CCONJ":
			return "conj"
		case "VERB":
			return "ccomp"
		}
	}
	return "ccomp"
}
