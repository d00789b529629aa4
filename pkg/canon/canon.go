// Package canon implements Pactum's canonical byte-exact JSON encoding.
//
// The rules (spec-ordained, not RFC 8785): object keys sorted by UTF-8 byte
// order, no insignificant whitespace, strings escape only a fixed set of
// characters, and floating-point numbers are a hard error — the data model
// represents every domain numeric as a decimal string.
package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

// Marshal produces the canonical encoding of v. v may be any value
// encoding/json accepts (a struct, map, slice, primitive) — it is first
// round-tripped through encoding/json so canonicalization applies uniformly
// regardless of the concrete Go type the caller used to build it.
func Marshal(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon: marshal input: %w", err)
	}
	return MarshalRaw(raw)
}

// MarshalRaw re-encodes an existing JSON document into canonical form.
func MarshalRaw(raw []byte) ([]byte, error) {
	val, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encodeValue(&buf, val); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes a JSON document into the generic value representation used
// by this package: nil, bool, json.Number, string, []interface{}, or
// map[string]interface{}. Numbers are kept as json.Number so canonicalization
// can reject non-integer literals instead of silently rounding them through
// float64.
func Parse(raw []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var val interface{}
	if err := dec.Decode(&val); err != nil {
		return nil, fmt.Errorf("canon: decode: %w", err)
	}
	// The decoder stops after the first value, so "01" would read as 0 with
	// a trailing "1"; anything after the document is rejected instead.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("canon: decode: unexpected data after JSON value")
	}
	return val, nil
}

// String is a convenience wrapper returning the canonical encoding as a string.
func String(v interface{}) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeValue(buf *bytes.Buffer, v interface{}) error {
	switch vv := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if vv {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case json.Number:
		return encodeNumber(buf, vv.String())
	case string:
		return encodeString(buf, vv)
	case []interface{}:
		buf.WriteByte('[')
		for i, e := range vv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]interface{}:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		// Go string comparison is already byte-wise lexicographic on the
		// underlying UTF-8 bytes, which is the ordering object keys need.
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeValue(buf, vv[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("canon: unsupported value type %T", v)
	}
}

// encodeNumber rejects anything that isn't ^(0|[1-9][0-9]*)$ — the data
// model forbids floats, signs, and leading zeros.
func encodeNumber(buf *bytes.Buffer, lit string) error {
	if !isCanonicalUint(lit) {
		return fmt.Errorf("canon: non-integer or malformed numeric literal %q (floats are forbidden)", lit)
	}
	buf.WriteString(lit)
	return nil
}

func isCanonicalUint(s string) bool {
	if s == "0" {
		return true
	}
	if len(s) == 0 || s[0] < '1' || s[0] > '9' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func encodeString(buf *bytes.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("canon: invalid UTF-8 in string literal")
	}
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
	return nil
}
