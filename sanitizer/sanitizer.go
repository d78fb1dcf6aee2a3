// Package sanitizer rewrites text fragments so they can be embedded in a
// single bracketed log line without breaking its structure.
//
// Encoded characters are written as their UTF-8 bytes in hex between angle
// brackets, e.g. "<0a>" for a newline. The built-in policies also encode a
// literal '<', so Unescape restores the original text exactly.
package sanitizer

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Matches runes not classified as printable by strconv.IsPrint
	FilterControl                         // Matches control characters (unicode.IsControl)
	FilterLineBreak                       // Matches '\n', '\r', NEL, LS and PS
	FilterBracket                         // Matches '[' and ']'
	FilterEscape                          // Matches '<', which opens an encoded sequence
	FilterLeadingBracket                  // Matches '[' as the first rune of the text only
)

// Transform flags for character transformation
const (
	TransformStrip     uint64 = 1 << iota // Removes the character
	TransformHexEncode                    // Encodes the character's UTF-8 bytes as "<XXYY>"
	TransformSpace                        // Replaces the character with a single space
)

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw     PolicyPreset = "raw"     // Passthrough
	PolicyMessage PolicyPreset = "message" // Free text placed after the last bracketed field
	PolicyField   PolicyPreset = "field"   // Text placed inside a bracketed field
)

// rule represents a single sanitization rule
type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:     {},
	PolicyMessage: {
		{filter: FilterLineBreak | FilterEscape | FilterLeadingBracket, transform: TransformHexEncode},
	},
	PolicyField: {
		{filter: FilterBracket | FilterEscape, transform: TransformHexEncode},
		{filter: FilterNonPrintable, transform: TransformHexEncode},
	},
}

// filterCheckers maps individual filter flags to their check functions
var filterCheckers = map[uint64]func(rune) bool{
	FilterNonPrintable: func(r rune) bool { return !strconv.IsPrint(r) },
	FilterControl:      unicode.IsControl,
	FilterLineBreak: func(r rune) bool {
		switch r {
		case '\n', '\r', '\u0085', '\u2028', '\u2029':
			return true
		}
		return false
	},
	FilterBracket: func(r rune) bool { return r == '[' || r == ']' },
	FilterEscape:  func(r rune) bool { return r == '<' },
}

// Sanitizer holds an ordered rule list. It keeps no per-call state and is
// safe for concurrent use once configured.
type Sanitizer struct {
	rules []rule
}

// New creates an empty (passthrough) Sanitizer
func New() *Sanitizer {
	return &Sanitizer{}
}

// ForPolicy creates a Sanitizer preloaded with a preset
func ForPolicy(preset PolicyPreset) *Sanitizer {
	return New().Policy(preset)
}

// Rule adds a custom rule to the sanitizer (appended, earliest rule applies first)
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy applies a pre-configured policy to the sanitizer (appended)
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize applies all configured rules to the input string
func (s *Sanitizer) Sanitize(data string) string {
	return string(s.Append(make([]byte, 0, len(data)), data))
}

// Append sanitizes data and appends the result to dst
func (s *Sanitizer) Append(dst []byte, data string) []byte {
	if len(s.rules) == 0 {
		return append(dst, data...)
	}
	for i, r := range data {
		matched := false
		// First match wins
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter, i == 0) {
				dst = applyTransform(dst, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			dst = utf8.AppendRune(dst, r)
		}
	}
	return dst
}

// matchesFilter checks if a rune matches any filter in the mask. first is
// set for the rune at the start of the text.
func matchesFilter(r rune, filterMask uint64, first bool) bool {
	if first && r == '[' && filterMask&FilterLeadingBracket != 0 {
		return true
	}
	for flag, checker := range filterCheckers {
		if (filterMask&flag) != 0 && checker(r) {
			return true
		}
	}
	return false
}

// applyTransform applies the specified transform to the buffer
func applyTransform(buf []byte, r rune, transformMask uint64) []byte {
	switch {
	case (transformMask & TransformStrip) != 0:
		return buf

	case (transformMask & TransformHexEncode) != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		buf = append(buf, '<')
		buf = append(buf, hex.EncodeToString(runeBytes[:n])...)
		return append(buf, '>')

	case (transformMask & TransformSpace) != 0:
		return append(buf, ' ')
	}
	return utf8.AppendRune(buf, r)
}

// Unescape decodes every "<hex>" sequence produced by TransformHexEncode.
// A '<' that does not open a valid sequence is kept as is.
func Unescape(data string) string {
	if !strings.Contains(data, "<") {
		return data
	}
	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i < len(data); {
		if data[i] == '<' {
			if decoded, n, ok := decodeSequence(data[i:]); ok {
				b.Write(decoded)
				i += n
				continue
			}
		}
		b.WriteByte(data[i])
		i++
	}
	return b.String()
}

// decodeSequence decodes one encoded rune at the start of data and returns
// its bytes and the length consumed
func decodeSequence(data string) ([]byte, int, bool) {
	end := strings.IndexByte(data, '>')
	if end < 3 || end > 2*utf8.UTFMax+1 {
		return nil, 0, false
	}
	raw, err := hex.DecodeString(data[1:end])
	if err != nil {
		return nil, 0, false
	}
	if r, size := utf8.DecodeRune(raw); size != len(raw) || (r == utf8.RuneError && size <= 1) {
		return nil, 0, false
	}
	return raw, end + 1, true
}

var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders an arbitrary value on a single line, with type information for
// composite values
func Dump(v any) string {
	var b bytes.Buffer
	dumper.Fdump(&b, v)
	out := bytes.TrimSpace(b.Bytes())
	// Collapse the multi-line dump
	out = bytes.Join(bytes.Fields(out), []byte{' '})
	return string(out)
}
