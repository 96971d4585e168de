package pipeline

import (
	"strings"
)

// Penn Treebank tags to Universal POS tags
var pennToUPOS = map[string]string{
	"NN":    "NOUN",
	"NNS":   "NOUN",
	"NNP":   "PROPN",
	"NNPS":  "PROPN",
	"JJ":    "ADJ",
	"JJR":   "ADJ",
	"JJS":   "ADJ",
	"VB":    "VERB",
	"VBD":   "VERB",
	"VBG":   "VERB",
	"VBN":   "VERB",
	"VBP":   "VERB",
	"VBZ":   "VERB",
	"MD":    "AUX",
	"RB":    "ADV",
	"RBR":   "ADV",
	"RBS":   "ADV",
	"WRB":   "ADV",
	"DT":    "DET",
	"PDT":   "DET",
	"WDT":   "DET",
	"PRP":   "PRON",
	"PRP$":  "PRON",
	"WP":    "PRON",
	"WP$":   "PRON",
	"EX":    "PRON",
	"IN":    "ADP",
	"RP":    "ADP",
	"TO":    "PART",
	"POS":   "PART",
	"CC":    "CCONJ",
	"CD":    "NUM",
	"UH":    "INTJ",
	"SYM":   "SYM",
	"$":     "SYM",
	"#":     "SYM",
	"FW":    "X",
	"LS":    "X",
	".":     "PUNCT",
	",":     "PUNCT",
	":":     "PUNCT",
	"``":    "PUNCT",
	"''":    "PUNCT",
	"(":     "PUNCT",
	")":     "PUNCT",
	"-LRB-": "PUNCT",
	"-RRB-": "PUNCT",
}

var beForms = map[string]bool{
	"be": true, "is": true, "am": true, "are": true, "was": true, "were": true,
	"been": true, "being": true, "'s": true, "'re": true, "'m": true,
}

var auxForms = map[string]string{
	"have": "have", "has": "have", "had": "have", "having": "have", "'ve": "have",
	"do": "do", "does": "do", "did": "do",
}

var subordinators = map[string]bool{
	"because": true, "if": true, "although": true, "though": true, "while": true,
	"whether": true, "unless": true, "since": true, "whereas": true,
}

var irregularNouns = map[string]string{
	"men":      "man",
	"women":    "woman",
	"children": "child",
	"people":   "person",
	"feet":     "foot",
	"teeth":    "tooth",
	"mice":     "mouse",
	"geese":    "goose",
	"data":     "datum",
}

// upos maps the Penn tag of the token at i to a Universal POS. words and
// tags are the whole sentence; auxiliaries need the right context.
func upos(words, tags []string, i int) string {
	tag := tags[i]
	lower := strings.ToLower(words[i])

	pos, ok := pennToUPOS[tag]
	if !ok {
		pos = "X"
		if isPunctWord(words[i]) {
			pos = "PUNCT"
		}
	}

	switch pos {
	case "VERB":
		if beForms[lower] {
			return "AUX"
		}
		if _, isAux := auxForms[lower]; isAux && nextVerb(tags, i) {
			return "AUX"
		}
	case "ADP":
		if tag == "IN" && subordinators[lower] {
			return "SCONJ"
		}
	}

	return pos
}

// nextVerb reports whether, skipping adverbs and negations, the token after
// i is a verb.
func nextVerb(tags []string, i int) bool {
	for j := i + 1; j < len(tags); j++ {
		switch {
		case strings.HasPrefix(tags[j], "RB"):
			continue
		case strings.HasPrefix(tags[j], "VB"):
			return true
		}
		return false
	}
	return false
}

func isPunctWord(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !strings.ContainsRune(".,;:!?-\"'`()[]{}…", r) {
			return false
		}
	}
	return true
}

// lemma returns a dictionary form for inflected nouns and the auxiliary
// verbs, the lower cased word otherwise.
func lemma(word, tag, pos string) string {
	lower := strings.ToLower(word)
	if pos == "PROPN" {
		return word
	}

	if beForms[lower] && (pos == "AUX" || pos == "VERB") {
		return "be"
	}

	if l, ok := auxForms[lower]; ok && (pos == "AUX" || pos == "VERB") {
		return l
	}

	switch tag {
	case "NNS":
		return singular(lower)
	case "VBZ":
		return singular(lower)
	}

	return lower
}

// singular removes the regular english plural (or third person) suffix.
func singular(w string) string {
	if l, ok := irregularNouns[w]; ok {
		return l
	}

	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return strings.TrimSuffix(w, "ies") + "y"
	case strings.HasSuffix(w, "sses"),
		strings.HasSuffix(w, "xes"),
		strings.HasSuffix(w, "ches"),
		strings.HasSuffix(w, "shes"),
		strings.HasSuffix(w, "zes"):
		return strings.TrimSuffix(w, "es")
	case strings.HasSuffix(w, "ss"),
		strings.HasSuffix(w, "us"),
		strings.HasSuffix(w, "is"):
		return w
	case len(w) > 2 && strings.HasSuffix(w, "s"):
		return strings.TrimSuffix(w, "s")
	}

	return w
}
