package input

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/bip39crack"
	"github.com/hupe1980/bip39crack/blobstore"
	"github.com/hupe1980/bip39crack/entropy"
	"github.com/hupe1980/bip39crack/mnemonic"
	"github.com/hupe1980/bip39crack/seed"
)

const maxLineSize = 1 << 20

// scanLines calls fn for every non-blank line with its 1-based number and
// its whitespace-separated fields.
func scanLines(r io.Reader, source string, fn func(line int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return &Error{Source: source, Line: line + 1, Reason: "read", Err: err}
	}
	return nil
}

func parseIndex(source string, line int, field string) (uint16, error) {
	v, err := strconv.ParseUint(field, 10, 16)
	if err != nil || v > entropy.MaxIndex {
		return 0, lineErr(source, line, "word index %q is not a number in [0, %d]", field, entropy.MaxIndex)
	}
	return uint16(v), nil
}

// ParseDictionary reads "<index> <word>" records.
func ParseDictionary(r io.Reader, source string) (*mnemonic.Dictionary, error) {
	words := make(map[uint16]string)
	err := scanLines(r, source, func(line int, fields []string) error {
		if len(fields) != 2 {
			return lineErr(source, line, "want \"<index> <word>\", got %d fields", len(fields))
		}
		idx, err := parseIndex(source, line, fields[0])
		if err != nil {
			return err
		}
		if prev, ok := words[idx]; ok {
			return lineErr(source, line, "duplicate index %d (already %q)", idx, prev)
		}
		words[idx] = fields[1]
		return nil
	})
	if err != nil {
		return nil, err
	}

	dict, err := mnemonic.NewDictionary(words)
	if err != nil {
		return nil, &Error{Source: source, Reason: "invalid dictionary", Err: err}
	}
	return dict, nil
}

// CandidateOptions controls candidate parsing.
type CandidateOptions struct {
	// Wide accepts lines with more than 12 indices.
	Wide bool
}

// ParseCandidates reads one candidate per line. Every index must exist in
// dict.
func ParseCandidates(r io.Reader, source string, dict *mnemonic.Dictionary, opts CandidateOptions) ([]bip39crack.Candidate, error) {
	var out []bip39crack.Candidate
	err := scanLines(r, source, func(line int, fields []string) error {
		n := len(fields)
		if n < entropy.WordCount || (!opts.Wide && n != entropy.WordCount) {
			return lineErr(source, line, "want %d word indices, got %d", entropy.WordCount, n)
		}

		c := make(bip39crack.Candidate, n)
		for i, f := range fields {
			idx, err := parseIndex(source, line, f)
			if err != nil {
				return err
			}
			if !dict.Has(idx) {
				return &Error{Source: source, Line: line, Reason: "unknown word", Err: &mnemonic.LookupError{Index: idx}}
			}
			c[i] = idx
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &Error{Source: source, Reason: "no candidates"}
	}
	return out, nil
}

var errStop = errors.New("stop")

// ParseDigest reads the target digest: one line of decimal byte values.
// Only the first non-blank line is used.
func ParseDigest(r io.Reader, source string) (seed.PartialDigest, error) {
	var raw []byte
	err := scanLines(r, source, func(line int, fields []string) error {
		raw = make([]byte, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseUint(f, 10, 8)
			if err != nil {
				return lineErr(source, line, "byte value %q is not a number in [0, 255]", f)
			}
			raw = append(raw, byte(v))
		}
		if len(raw) > seed.DigestSize {
			return lineErr(source, line, "digest has %d bytes, at most %d allowed", len(raw), seed.DigestSize)
		}
		return errStop
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &Error{Source: source, Reason: "empty digest", Err: seed.ErrDigestLength}
	}
	return seed.NewPartialDigest(raw)
}

// LoadDictionary opens and parses a dictionary file.
func LoadDictionary(ctx context.Context, store blobstore.BlobStore, name string) (*mnemonic.Dictionary, error) {
	rc, err := Open(ctx, store, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ParseDictionary(rc, name)
}

// LoadCandidates opens and parses a candidate index file.
func LoadCandidates(ctx context.Context, store blobstore.BlobStore, name string, dict *mnemonic.Dictionary, opts CandidateOptions) ([]bip39crack.Candidate, error) {
	rc, err := Open(ctx, store, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ParseCandidates(rc, name, dict, opts)
}

// LoadDigest opens and parses a target digest file.
func LoadDigest(ctx context.Context, store blobstore.BlobStore, name string) (seed.PartialDigest, error) {
	rc, err := Open(ctx, store, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ParseDigest(rc, name)
}
