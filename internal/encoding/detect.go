// Package encoding normalises uploaded statement files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding a file was decoded from.
type Charset string

const (
	CharsetUTF8        Charset = "UTF-8"
	CharsetUTF16LE     Charset = "UTF-16LE"
	CharsetUTF16BE     Charset = "UTF-16BE"
	CharsetWindows1252 Charset = "windows-1252"
	CharsetISO88599    Charset = "ISO-8859-9"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// sniffSize is how much of the file is inspected before choosing a decoder.
const sniffSize = 4096

// Decode detects the encoding of r and returns a UTF-8 reader together with
// the detected charset.
//
// Detection order:
//  1. BOM (a UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. valid UTF-8 is passed through
//  3. chardet heuristics
//  4. Windows-1252
func Decode(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, CharsetUTF8, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decodeWith(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), CharsetUTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decodeWith(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), CharsetUTF16BE, nil
	}

	if validPrefix(buf) {
		return br, CharsetUTF8, nil
	}

	result, detectErr := chardet.NewTextDetector().DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return br, CharsetUTF8, nil
		case "UTF-16LE":
			return decodeWith(br, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)), CharsetUTF16LE, nil
		case "UTF-16BE":
			return decodeWith(br, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)), CharsetUTF16BE, nil
		case "ISO-8859-9":
			return decodeWith(br, charmap.ISO8859_9), CharsetISO88599, nil
		}
	}

	// ISO-8859-1 is a subset of Windows-1252, which also carries the
	// pound and euro signs banks print.
	return decodeWith(br, charmap.Windows1252), CharsetWindows1252, nil
}

func decodeWith(r io.Reader, e encoding.Encoding) io.Reader {
	return transform.NewReader(r, e.NewDecoder())
}

// validPrefix reports whether buf is valid UTF-8, tolerating a multi-byte
// sequence cut off by the sniff window.
func validPrefix(buf []byte) bool {
	if utf8.Valid(buf) {
		return true
	}

	if len(buf) < sniffSize {
		return false
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return true
		}
	}

	return false
}
