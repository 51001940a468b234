package inference

import (
	"fmt"
	"sort"
	"strings"
)

// Reserved token ids.
const (
	tokenPad = iota
	tokenUnk
	tokenSos
	tokenEos
)

// Token is one tokenized word with its span in the source text.
type Token struct {
	// ID is the vocabulary id.
	ID int
	// Text is the token's surface form.
	Text string
	// Start is the byte offset where the token begins.
	Start int
	// End is the byte offset just past the token.
	End int
}

// SimpleTokenizer is a whitespace tokenizer with a frequency-built
// vocabulary. Unknown words map to <unk>.
type SimpleTokenizer struct {
	vocab   map[string]int
	reverse map[int]string
}

// NewSimpleTokenizer creates a tokenizer holding only the reserved tokens.
func NewSimpleTokenizer() *SimpleTokenizer {
	t := &SimpleTokenizer{
		vocab:   make(map[string]int),
		reverse: make(map[int]string),
	}
	for id, text := range []string{"<pad>", "<unk>", "<sos>", "<eos>"} {
		t.vocab[text] = id
		t.reverse[id] = text
	}
	return t
}

// BuildFromText grows the vocabulary from text, most frequent words first,
// up to maxVocabSize total entries.
func (t *SimpleTokenizer) BuildFromText(text string, maxVocabSize int) {
	counts := make(map[string]int)
	for _, word := range strings.Fields(text) {
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j] // stable order for equal counts
	})

	for _, word := range words {
		if len(t.vocab) >= maxVocabSize {
			break
		}
		if _, exists := t.vocab[word]; exists {
			continue
		}
		id := len(t.vocab)
		t.vocab[word] = id
		t.reverse[id] = word
	}
}

// Encode tokenizes text into vocabulary tokens. Unknown words become <unk>
// but keep their surface form and span.
func (t *SimpleTokenizer) Encode(text string) ([]Token, error) {
	var tokens []Token
	offset := 0
	for _, word := range strings.Fields(text) {
		start := strings.Index(text[offset:], word) + offset
		id, ok := t.vocab[word]
		if !ok {
			id = tokenUnk
		}
		tokens = append(tokens, Token{
			ID:    id,
			Text:  word,
			Start: start,
			End:   start + len(word),
		})
		offset = start + len(word)
	}
	return tokens, nil
}

// Decode reconstructs text from tokens by vocabulary lookup, falling back
// to each token's surface form for <unk>.
func (t *SimpleTokenizer) Decode(tokens []Token) (string, error) {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		text, ok := t.reverse[tok.ID]
		if !ok {
			return "", fmt.Errorf("unknown token id %d", tok.ID)
		}
		if tok.ID == tokenUnk && tok.Text != "" {
			text = tok.Text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " "), nil
}

// VocabSize returns the number of vocabulary entries, reserved tokens
// included.
func (t *SimpleTokenizer) VocabSize() int {
	return len(t.vocab)
}
