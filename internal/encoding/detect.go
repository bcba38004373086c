package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLen bytes are enough for both BOM detection and the chardet heuristic.
const sniffLen = 4096

// UTF8Reader wraps r so its content reads as UTF-8 regardless of the source
// encoding. Spreadsheet exports arrive as UTF-8 (with or without BOM), UTF-16,
// or a Windows codepage depending on the tool that produced them.
func UTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sniffing input: %w", err)
	}

	if bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}) {
		// UTF-8 BOM carries no information once detected.
		_, _ = br.Discard(3)
		return br, nil
	}

	if dec := utf16Decoder(head); dec != nil {
		return transform.NewReader(br, dec), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	return transform.NewReader(br, legacyDecoder(head)), nil
}

func utf16Decoder(head []byte) transform.Transformer {
	switch {
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	}

	return nil
}

// legacyDecoder picks a single-byte decoder via chardet. Windows-1252 is the
// fallback: it decodes any byte sequence, and most non-Unicode exports in the
// wild use it.
func legacyDecoder(head []byte) transform.Transformer {
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return charmap.Windows1252.NewDecoder()
	}

	switch result.Charset {
	case "ISO-8859-9":
		return charmap.ISO8859_9.NewDecoder()
	case "ISO-8859-15":
		return charmap.ISO8859_15.NewDecoder()
	}

	return charmap.Windows1252.NewDecoder()
}
