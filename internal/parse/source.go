package parse

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

var gzipMagic = [2]byte{0x1f, 0x8b}

// sniffGzip reports whether path begins with the gzip magic header, without
// consuming more than two bytes on a fresh open.
func sniffGzip(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	var head [2]byte
	n, err := f.Read(head[:])
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return n == 2 && head == gzipMagic, nil
}

// openDecompressed opens path and, if its first two bytes are the gzip
// magic header, wraps it in a gzip reader. The returned closer releases both
// the file and (if present) the decompressor.
func openDecompressed(path string) (io.Reader, io.Closer, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, false, fmt.Errorf("opening %s: %w", path, err)
	}
	br := bufio.NewReader(f)
	head, err := br.Peek(2)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(head) == 2 && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, nil, false, fmt.Errorf("decompressing %s: %w", path, err)
		}
		return gz, multiCloser{gz, f}, true, nil
	}
	return br, f, false, nil
}

type multiCloser struct {
	first  io.Closer
	second io.Closer
}

func (m multiCloser) Close() error {
	err1 := m.first.Close()
	err2 := m.second.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

func splitLines(b []byte) []string {
	var out []string
	start := 0
	for i, c := range b {
		if c == '\n' {
			out = append(out, string(trimCR(b[start:i])))
			start = i + 1
		}
	}
	if start < len(b) {
		out = append(out, string(trimCR(b[start:])))
	}
	return out
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

// reverseLineIterator yields lines of a plain-text file back to front,
// reading fixed-size blocks from the tail so that a `--last N` read need not
// touch the whole file. It is the native-Go analogue of the original tool's
// use of a reverse-line-iterator crate (SPEC_FULL §12).
type reverseLineIterator struct {
	f        *os.File
	pos      int64
	buf      []string
	leftover []byte
}

const reverseBlockSize = 64 * 1024

func newReverseLineIterator(path string) (*reverseLineIterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &reverseLineIterator{f: f, pos: info.Size()}, nil
}

func (it *reverseLineIterator) Close() error { return it.f.Close() }

// Next returns the next line (working backward from EOF), or ok=false once
// the start of the file is reached.
func (it *reverseLineIterator) Next() (string, bool, error) {
	for len(it.buf) == 0 {
		if it.pos <= 0 {
			if len(it.leftover) > 0 {
				line := string(trimCR(it.leftover))
				it.leftover = nil
				return line, true, nil
			}
			return "", false, nil
		}
		n := int64(reverseBlockSize)
		if n > it.pos {
			n = it.pos
		}
		start := it.pos - n
		chunk := make([]byte, n)
		if _, err := it.f.ReadAt(chunk, start); err != nil {
			return "", false, fmt.Errorf("reading %s: %w", it.f.Name(), err)
		}
		it.pos = start
		full := append(chunk, it.leftover...)
		it.leftover = nil

		if it.pos > 0 {
			nl := indexByte(full, '\n')
			if nl < 0 {
				// Block is part of one long line; keep accumulating.
				it.leftover = full
				continue
			}
			it.leftover = full[:nl]
			it.buf = splitLines(full[nl+1:])
		} else {
			it.buf = splitLines(full)
		}
	}
	line := it.buf[len(it.buf)-1]
	it.buf = it.buf[:len(it.buf)-1]
	return line, true, nil
}
