package fastq

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const twoRecords = "@read1 lane=1\nACGTN\n+\n!!:II\n" +
	"@read2\nGGTT\n+read2\nIIII\n"

func TestReadSimple(t *testing.T) {
	recs, err := ReadAll(strings.NewReader(twoRecords))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	want := Record{Header: "@read1 lane=1", Sequence: "ACGTN", Plus: "+", Quality: "!!:II"}
	if recs[0] != want {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	if recs[1].Plus != "+read2" || recs[1].Quality != "IIII" {
		t.Fatalf("unexpected second record: %+v", recs[1])
	}
}

func TestReadCRLF(t *testing.T) {
	input := strings.ReplaceAll(twoRecords, "\n", "\r\n")
	recs, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 || recs[0].Sequence != "ACGTN" || recs[1].Sequence != "GGTT" {
		t.Fatalf("CRLF input parsed differently: %+v", recs)
	}
}

func TestReadNoTrailingNewline(t *testing.T) {
	recs, err := ReadAll(strings.NewReader("@r\nAC\n+\nII"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Quality != "II" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestReadSkipsBlankLinesBetweenRecords(t *testing.T) {
	input := "@r1\nAC\n+\nII\n\n\n@r2\nGT\n+\nII\n\n"
	recs, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
}

func TestReadEmptyInput(t *testing.T) {
	recs, err := ReadAll(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}

func TestReadTruncated(t *testing.T) {
	recs, err := ReadAll(strings.NewReader("@r1\nAC\n+\nII\n@r2\nGT\n"))
	if err == nil {
		t.Fatal("expected an error for a truncated record")
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 complete record, got %d", len(recs))
	}
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FormatError, got %T", err)
	}
	if ferr.Record != 2 || !errors.Is(err, ErrTruncated) {
		t.Fatalf("unexpected format error: %v", err)
	}
}

func TestReadBadHeader(t *testing.T) {
	_, err := ReadAll(strings.NewReader("read1\nAC\n+\nII\n"))
	if !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestReadBadPlus(t *testing.T) {
	_, err := ReadAll(strings.NewReader("@r1\nAC\nII\nAC\n"))
	if !errors.Is(err, ErrNoPlus) {
		t.Fatalf("expected ErrNoPlus, got %v", err)
	}
}

func TestReadLengthMismatch(t *testing.T) {
	_, err := ReadAll(strings.NewReader("@r1\nACGT\n+\nII\n"))
	var ferr *FormatError
	if !errors.As(err, &ferr) || !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected length mismatch, got %v", err)
	}
	if ferr.Record != 1 {
		t.Fatalf("expected record index 1, got %d", ferr.Record)
	}
}

func TestReadLongLines(t *testing.T) {
	// longer than bufio.Scanner's default token limit
	seq := strings.Repeat("ACGT", 32*1024)
	qual := strings.Repeat("I", len(seq))
	recs, err := ReadAll(strings.NewReader("@long\n" + seq + "\n+\n" + qual + "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || len(recs[0].Sequence) != len(seq) {
		t.Fatalf("long record mangled: got %d bases", len(recs[0].Sequence))
	}
}

func TestOpenPlainAndGzip(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "reads.fastq")
	if err := os.WriteFile(plain, []byte(twoRecords), 0o644); err != nil {
		t.Fatal(err)
	}

	// gzip content deliberately written without a .gz suffix: detection
	// must come from the magic bytes, not the name
	packed := filepath.Join(dir, "reads_packed.fastq")
	f, err := os.Create(packed)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(twoRecords)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, packed} {
		in, err := Open(path)
		if err != nil {
			t.Fatalf("Open(%s): %v", path, err)
		}
		recs, err := ReadAll(in)
		in.Close()
		if err != nil {
			t.Fatalf("ReadAll(%s): %v", path, err)
		}
		if len(recs) != 2 || recs[0].Header != "@read1 lane=1" {
			t.Fatalf("unexpected records from %s: %+v", path, recs)
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.fastq"))
	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FileError, got %T (%v)", err, err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestOpenCorruptGzip(t *testing.T) {
	// gzip magic with a bogus compression method: sniffing says gzip,
	// decoding cannot
	path := filepath.Join(t.TempDir(), "broken.fastq.gz")
	if err := os.WriteFile(path, []byte{0x1f, 0x8b, 0xff, 0, 0, 0, 0, 0, 0, 0}, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FileError, got %T (%v)", err, err)
	}
	if fe.Path != path {
		t.Fatalf("error should carry the path, got %q", fe.Path)
	}
	if !errors.Is(err, gzip.ErrHeader) {
		t.Fatalf("expected wrapped gzip.ErrHeader, got %v", err)
	}
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.fastq")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := Open(path)
	if err != nil {
		t.Fatalf("Open on empty file: %v", err)
	}
	defer in.Close()
	if _, err := NewReader(in).Read(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReadFileLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reads.fastq")
	if err := os.WriteFile(path, []byte(twoRecords), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := ReadFile(path, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].ID() != "read1" {
		t.Fatalf("unexpected records: %+v", recs)
	}
	all, err := ReadFile(path, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected all records with n=0, got %d", len(all))
	}
}

func TestScore(t *testing.T) {
	if got := Score('!'); got != 0 {
		t.Fatalf("Score('!') = %d, want 0", got)
	}
	if got := Score('I'); got != 40 {
		t.Fatalf("Score('I') = %d, want 40", got)
	}
	if got := Score('~'); got != 93 {
		t.Fatalf("Score('~') = %d, want 93", got)
	}
}

func TestRecordHelpers(t *testing.T) {
	rec := Record{Header: "@read1 lane=1", Quality: "!I"}
	if rec.ID() != "read1" {
		t.Fatalf("unexpected id: %q", rec.ID())
	}
	if got := rec.MeanQuality(); got != 20 {
		t.Fatalf("unexpected mean quality: %v", got)
	}
	if got := (Record{}).MeanQuality(); got != 0 {
		t.Fatalf("empty record mean quality = %v, want 0", got)
	}
}
