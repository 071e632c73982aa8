package scan

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const (
	// maxLineBytes bounds a single N-Triples line; real dumps carry
	// multi-megabyte literals. Longer lines are skipped, not fatal.
	maxLineBytes = 16 * 1024 * 1024

	// progressInterval is how many lines pass between progress logs
	// and cancellation checks.
	progressInterval = 1_000_000

	readBufSize = 64 * 1024
)

// LineExtractor scans N-Triples files line by line without a grammar:
// a line counts if it has at least three whitespace-separated fields,
// is not a comment, and its second field starts with '<'. The emitted
// token is the raw second field as it appears in the file. Single
// pass, memory independent of file size.
type LineExtractor struct {
	maxLine int
}

// NewLineExtractor creates the N-Triples line extractor.
func NewLineExtractor() *LineExtractor {
	return &LineExtractor{maxLine: maxLineBytes}
}

// Extensions implements Extractor.
func (e *LineExtractor) Extensions() []string {
	return []string{".nt", ".nt.gz"}
}

// Extract implements Extractor. Malformed and oversized lines are
// skipped; only I/O and decompression failures produce a ParseError.
func (e *LineExtractor) Extract(ctx context.Context, path string, emit EmitFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return &ParseError{File: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return &ParseError{File: path, Err: err}
		}
		defer zr.Close()
		r = zr
	}

	if err := e.scanLines(ctx, path, r, emit); err != nil {
		return &ParseError{File: path, Err: err}
	}
	return nil
}

// scanLines reads r line by line, emitting one predicate token per
// candidate line. A line longer than maxLine is drained and dropped
// so a single oversized literal never loses the rest of the file;
// memory stays bounded by maxLine plus one read buffer.
func (e *LineExtractor) scanLines(ctx context.Context, path string, r io.Reader, emit EmitFunc) error {
	br := bufio.NewReaderSize(r, readBufSize)

	var lines int64
	var buf []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, chunk...)
			if len(buf) > e.maxLine {
				lines++
				slog.Warn("skipping oversized line",
					slog.String("file", path), slog.Int64("line", lines))
				buf = buf[:0]
				if derr := drainLine(br); derr != nil {
					if errors.Is(derr, io.EOF) {
						return nil
					}
					return derr
				}
			}
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		buf = append(buf, chunk...)
		if len(buf) > 0 {
			lines++
			if len(buf) > e.maxLine {
				slog.Warn("skipping oversized line",
					slog.String("file", path), slog.Int64("line", lines))
			} else if token, ok := predicateToken(trimEOL(buf)); ok {
				emit(token)
			}
			buf = buf[:0]

			if lines%progressInterval == 0 {
				if cerr := ctx.Err(); cerr != nil {
					return cerr
				}
				slog.Debug("scan progress", slog.String("file", path), slog.Int64("lines", lines))
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// drainLine discards the remainder of the current line.
func drainLine(br *bufio.Reader) error {
	for {
		_, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return err
	}
}

func trimEOL(b []byte) string {
	s := string(b)
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// predicateToken returns the second whitespace-separated field of the
// line when the line is a candidate triple: not a comment, at least
// three fields, second field starting with '<'.
func predicateToken(line string) (string, bool) {
	i := skipSpace(line, 0)
	if i >= len(line) || line[i] == '#' {
		return "", false
	}

	// Subject field.
	i = skipField(line, i)
	i = skipSpace(line, i)
	if i >= len(line) || line[i] != '<' {
		return "", false
	}

	// Predicate field.
	start := i
	i = skipField(line, i)
	token := line[start:i]

	// Require an object field.
	i = skipSpace(line, i)
	if i >= len(line) {
		return "", false
	}
	return token, true
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func skipField(s string, i int) int {
	for i < len(s) && s[i] != ' ' && s[i] != '\t' {
		i++
	}
	return i
}
