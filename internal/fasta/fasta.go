// Package fasta provides FASTA reading and writing for protein archives.
package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Record is a single FASTA record. ID is the first whitespace-delimited
// token of the header line; Description is the full header text
// (including the ID).
type Record struct {
	ID          string
	Description string
	Seq         string
}

// wrapWidth is the sequence line width used when writing FASTA output.
const wrapWidth = 60

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for a FASTA path, transparently decompressing
// gzip input. Gzip is detected by the magic number (1F 8B) or a .gz
// suffix.
func Open(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, err
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gz, closers: []io.Closer{gz, fh}}, nil
	}
	return fh, nil
}

// Read parses FASTA records from r in file order.
func Read(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	// Allow very long single-line sequences.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 64*1024*1024)

	var records []Record
	var current Record
	var seq strings.Builder
	inRecord := false

	flush := func() {
		if !inRecord {
			return
		}
		current.Seq = seq.String()
		records = append(records, current)
		seq.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			header := strings.TrimPrefix(line, ">")
			current = Record{Description: header}
			if idx := strings.IndexAny(header, " \t"); idx != -1 {
				current.ID = header[:idx]
			} else {
				current.ID = header
			}
			inRecord = true
		} else if inRecord {
			seq.WriteString(strings.TrimSpace(line))
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	return records, nil
}

// ReadAll reads all records from a FASTA file, gzipped or plain.
func ReadAll(path string) ([]Record, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer rc.Close()
	return Read(rc)
}

// Write writes records to w in FASTA format with wrapped sequence lines.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, ">%s\n", rec.Description); err != nil {
			return err
		}
		for i := 0; i < len(rec.Seq); i += wrapWidth {
			end := i + wrapWidth
			if end > len(rec.Seq) {
				end = len(rec.Seq)
			}
			if _, err := fmt.Fprintf(bw, "%s\n", rec.Seq[i:end]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteFile writes records to path. An empty record set still produces
// an empty file so downstream checks can distinguish "processed, no
// neighbors" from "never processed".
func WriteFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create FASTA file: %w", err)
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// archiveExtensions are the candidate extensions for a sequence archive,
// tried in order, each also with a .gz variant.
var archiveExtensions = []string{".faa", ".fasta", ".fa"}

// FindArchive locates the sequence archive for a base name under root.
// Candidates are {base}.faa|.fasta|.fa and the same with a .gz suffix;
// the first existing path wins.
func FindArchive(root, base string) (string, bool) {
	for _, ext := range archiveExtensions {
		for _, suffix := range []string{"", ".gz"} {
			p := filepath.Join(root, base+ext+suffix)
			if _, err := os.Stat(p); err == nil {
				return p, true
			}
		}
	}
	return "", false
}
