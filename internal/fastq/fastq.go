package fastq

// Package fastq contains minimal helpers to read FASTQ formatted data used
// by the project. It intentionally keeps parsing simple and conservative:
// records are read four lines at a time and validated just enough to keep
// the renderer honest.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// phredOffset is the ASCII offset of Phred+33 encoded quality characters.
const phredOffset = 33

var (
	ErrNoHeader       = errors.New("id line does not start with '@'")
	ErrNoPlus         = errors.New("separator line does not start with '+'")
	ErrLengthMismatch = errors.New("quality length does not match sequence length")
	ErrTruncated      = errors.New("record truncated by end of input")
)

// FormatError reports a malformed record. Record is the 1-based index of
// the record that failed to parse.
type FormatError struct {
	Record int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid format: record %d: %v", e.Record, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// FileError reports a failure to open or decode an input file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Record represents a single FASTQ record. All four lines are kept
// verbatim: Header includes the leading '@', Plus the leading '+' and any
// repeated id after it.
type Record struct {
	Header   string
	Sequence string
	Plus     string
	Quality  string
}

// ID returns the read identifier: the first whitespace-separated token of
// the header without the leading '@'.
func (r Record) ID() string {
	id := strings.TrimPrefix(r.Header, "@")
	if i := strings.IndexByte(id, ' '); i >= 0 {
		id = id[:i]
	}
	return id
}

// MeanQuality returns the mean Phred score of the record, 0 for an empty
// quality string.
func (r Record) MeanQuality() float64 {
	if len(r.Quality) == 0 {
		return 0
	}
	sum := 0
	for i := 0; i < len(r.Quality); i++ {
		sum += Score(r.Quality[i])
	}
	return float64(sum) / float64(len(r.Quality))
}

// Score decodes a Phred+33 quality character. Callers clamp the result if
// they need a bounded range.
func Score(q byte) int {
	return int(q) - phredOffset
}

// Reader reads FASTQ records from an underlying stream. It uses a
// bufio.Reader rather than a Scanner so read lengths are not capped by a
// token size limit.
type Reader struct {
	br    *bufio.Reader
	count int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Read returns the next record. io.EOF signals a clean end of input
// between records; a truncated or malformed record is a *FormatError.
func (r *Reader) Read() (Record, error) {
	header, err := r.line(true)
	if err != nil {
		return Record{}, err
	}
	r.count++
	if !strings.HasPrefix(header, "@") {
		return Record{}, r.formatErr(ErrNoHeader)
	}

	seq, err := r.line(false)
	if err != nil {
		return Record{}, r.bodyErr(err)
	}
	plus, err := r.line(false)
	if err != nil {
		return Record{}, r.bodyErr(err)
	}
	qual, err := r.line(false)
	if err != nil {
		return Record{}, r.bodyErr(err)
	}

	if !strings.HasPrefix(plus, "+") {
		return Record{}, r.formatErr(ErrNoPlus)
	}
	if len(seq) != len(qual) {
		return Record{}, r.formatErr(ErrLengthMismatch)
	}
	return Record{Header: header, Sequence: seq, Plus: plus, Quality: qual}, nil
}

// line returns the next line with the terminator stripped. Blank lines are
// skipped at record boundaries but returned verbatim inside a record so
// validation can reject them.
func (r *Reader) line(atBoundary bool) (string, error) {
	for {
		raw, err := r.br.ReadString('\n')
		if len(raw) == 0 {
			if err == nil {
				err = io.EOF
			}
			return "", err
		}
		line := strings.TrimRight(raw, "\r\n")
		if line == "" && atBoundary {
			if err != nil {
				return "", err
			}
			continue
		}
		return line, nil
	}
}

func (r *Reader) formatErr(err error) error {
	return &FormatError{Record: r.count, Err: err}
}

// bodyErr maps end-of-input inside a record to ErrTruncated and passes
// real read errors through untouched.
func (r *Reader) bodyErr(err error) error {
	if err == io.EOF {
		return r.formatErr(ErrTruncated)
	}
	return err
}

// ReadAll reads records until end of input.
func ReadAll(r io.Reader) ([]Record, error) {
	fr := NewReader(r)
	var records []Record
	for {
		rec, err := fr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// ReadFile opens path and reads up to n records, all of them when n <= 0.
func ReadFile(path string, n int) ([]Record, error) {
	in, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	fr := NewReader(in)
	var records []Record
	for n <= 0 || len(records) < n {
		rec, err := fr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

var gzipMagic = []byte{0x1f, 0x8b}

// Open opens a FASTQ file for reading, transparently decompressing gzip
// input. Compression is detected from the leading magic bytes rather than
// the file name, so a mislabeled .gz still opens correctly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	br := bufio.NewReader(f)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		f.Close()
		return nil, &FileError{Path: path, Err: err}
	}
	if bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, &FileError{Path: path, Err: err}
		}
		return &multiReadCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{f}}, nil
}

// multiReadCloser closes every underlying closer, keeping the first error.
// Open uses it so closing a gzip stream also closes the file beneath it.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
