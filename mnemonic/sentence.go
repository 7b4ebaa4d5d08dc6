package mnemonic

// Sentence joins the words for idx with single spaces.
func Sentence(idx []uint16, d *Dictionary) (string, error) {
	return NewSentenceBuilder(d).Build(idx)
}

// SentenceBuilder builds sentences against one dictionary, reusing its
// buffer between calls. It is not safe for concurrent use; give each worker
// its own.
type SentenceBuilder struct {
	dict *Dictionary
	buf  []byte
}

// NewSentenceBuilder returns a builder bound to d.
func NewSentenceBuilder(d *Dictionary) *SentenceBuilder {
	return &SentenceBuilder{dict: d, buf: make([]byte, 0, 128)}
}

// Build returns the space-joined words for idx, in order.
func (b *SentenceBuilder) Build(idx []uint16) (string, error) {
	b.buf = b.buf[:0]
	for i, v := range idx {
		w, ok := b.dict.words[v]
		if !ok {
			return "", &LookupError{Index: v}
		}
		if i > 0 {
			b.buf = append(b.buf, ' ')
		}
		b.buf = append(b.buf, w...)
	}
	return string(b.buf), nil
}
