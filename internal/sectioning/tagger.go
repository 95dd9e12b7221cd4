package sectioning

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jdkato/prose/v2"
)

// PartOfSpeech is the coarse tag the heading rules care about
type PartOfSpeech string

const (
	POSNoun       PartOfSpeech = "NOUN"
	POSProperNoun PartOfSpeech = "PROPN"
	POSAdjective  PartOfSpeech = "ADJ"
	POSVerb       PartOfSpeech = "VERB"
	POSOther      PartOfSpeech = "X"
)

// Token is one tagged word of a line
type Token struct {
	Text  string
	POS   PartOfSpeech
	Title bool
}

// Tagger tokenizes a line and tags each token. Implementations must be safe
// for concurrent use. A failure is reported as a *ClassificationFault.
type Tagger interface {
	Tag(line string) ([]Token, error)
}

// proseModel loads the averaged-perceptron weights once per process. The
// model is only read while tagging, so every ProseTagger shares it.
var proseModel = sync.OnceValue(func() *prose.Model {
	doc, err := prose.NewDocument("",
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil
	}
	return doc.Model
})

// ProseTagger tags lines with the prose averaged-perceptron model.
type ProseTagger struct {
	model *prose.Model
}

// NewProseTagger returns a tagger backed by github.com/jdkato/prose. The
// first call loads the model.
func NewProseTagger() *ProseTagger {
	return &ProseTagger{model: proseModel()}
}

// Tag implements Tagger. Panics inside the model are converted into a
// ClassificationFault so that one bad line cannot abort a pass.
func (t *ProseTagger) Tag(line string) (tokens []Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = &ClassificationFault{Line: line, Message: fmt.Sprintf("tagger panic: %v", r)}
		}
	}()

	doc, err := prose.NewDocument(line,
		prose.UsingModel(t.model),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, &ClassificationFault{Line: line, Message: "failed to tag line", Cause: err}
	}

	for _, tok := range doc.Tokens() {
		tokens = append(tokens, Token{
			Text:  tok.Text,
			POS:   coarsePOS(tok.Tag),
			Title: isTitle(tok.Text),
		})
	}
	return tokens, nil
}

// coarsePOS folds Penn Treebank tags into the categories used by the
// heading rules. Modals are not verbs here.
func coarsePOS(tag string) PartOfSpeech {
	switch {
	case tag == "NNP" || tag == "NNPS":
		return POSProperNoun
	case strings.HasPrefix(tag, "NN"):
		return POSNoun
	case strings.HasPrefix(tag, "JJ"):
		return POSAdjective
	case strings.HasPrefix(tag, "VB"):
		return POSVerb
	default:
		return POSOther
	}
}
