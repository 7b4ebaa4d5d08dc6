// Package input reads the text files that drive a search: the word
// dictionary, the candidate index list and the target digest.
//
// Every malformed record is reported as an *Error that names the source and
// the 1-based line and matches ErrFatalInput:
//
//	if errors.Is(err, input.ErrFatalInput) {
//	    // bad input file, nothing to retry
//	}
//
// Files are read through a blobstore.BlobStore and decompressed by
// extension: ".zst" (zstd), ".gz" (gzip) and ".lz4" (lz4 frame).
package input
