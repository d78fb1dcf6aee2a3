// Package formatter renders log records through an output template made of
// literal text and {Property[:format]} placeholders.
package formatter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AlexandreIorio/dotlogs/sanitizer"
)

// Record is the data available to a template
type Record struct {
	Time      time.Time
	LevelCode string // Three letter code, e.g. "INF"
	LevelName string // Full name, e.g. "Information"
	Caller    string
	File      string
	Line      int
	Message   string
}

type segmentKind int

const (
	segLiteral segmentKind = iota
	segTimestamp
	segLevel
	segCaller
	segFile
	segLine
	segMessage
	segNewLine
)

// segment is one compiled piece of the template
type segment struct {
	kind    segmentKind
	literal string // literal text, or the Go time layout for segTimestamp
	upper   bool   // level rendered as upper case code
}

// Formatter is immutable once compiled and safe for concurrent use
type Formatter struct {
	template string
	segments []segment
	message  *sanitizer.Sanitizer
	field    *sanitizer.Sanitizer
}

// DefaultTimestampPattern is used when {Timestamp} carries no format
const DefaultTimestampPattern = "yyyy-MM-dd HH:mm:ss"

// New compiles a template. Optional sanitizers replace the message and field
// sanitizers, in that order.
func New(template string, s ...*sanitizer.Sanitizer) (*Formatter, error) {
	f := &Formatter{
		template: template,
		message:  sanitizer.ForPolicy(sanitizer.PolicyMessage),
		field:    sanitizer.ForPolicy(sanitizer.PolicyField),
	}
	if len(s) > 0 && s[0] != nil {
		f.message = s[0]
	}
	if len(s) > 1 && s[1] != nil {
		f.field = s[1]
	}

	segments, err := compile(template)
	if err != nil {
		return nil, err
	}
	f.segments = segments
	return f, nil
}

// Template returns the source template
func (f *Formatter) Template() string {
	return f.template
}

// Append renders r and appends it to dst. The output always ends with exactly
// one newline.
func (f *Formatter) Append(dst []byte, r *Record) []byte {
	start := len(dst)
	for _, seg := range f.segments {
		switch seg.kind {
		case segLiteral:
			dst = append(dst, seg.literal...)
		case segTimestamp:
			dst = r.Time.AppendFormat(dst, seg.literal)
		case segLevel:
			if seg.upper {
				dst = append(dst, r.LevelCode...)
			} else {
				dst = append(dst, r.LevelName...)
			}
		case segCaller:
			dst = f.field.Append(dst, r.Caller)
		case segFile:
			dst = f.field.Append(dst, filepath.Base(r.File))
		case segLine:
			dst = strconv.AppendInt(dst, int64(r.Line), 10)
		case segMessage:
			dst = f.message.Append(dst, r.Message)
		case segNewLine:
			// Deferred to the end so a record is never split over two lines
		}
	}

	// Collapse trailing line breaks into the single terminator
	end := len(dst)
	for end > start && (dst[end-1] == '\n' || dst[end-1] == '\r') {
		end--
	}
	dst = dst[:end]
	return append(dst, '\n')
}

// Format is a convenience wrapper around Append
func (f *Formatter) Format(r *Record) string {
	return string(f.Append(nil, r))
}

// compile splits a template into segments
func compile(template string) ([]segment, error) {
	var segments []segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{kind: segLiteral, literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			// "{{" is an escaped brace
			if i+1 < len(template) && template[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("formatter: unterminated placeholder at offset %d", i)
			}
			token := template[i+1 : i+end]
			seg, ok := parsePlaceholder(token)
			if !ok {
				// Unknown properties are kept verbatim
				literal.WriteString(template[i : i+end+1])
			} else {
				flush()
				segments = append(segments, seg)
			}
			i += end
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				i++
			}
			literal.WriteByte('}')
		default:
			literal.WriteByte(c)
		}
	}
	flush()
	return segments, nil
}

// parsePlaceholder maps a property name (case-insensitive) and optional
// format to a segment
func parsePlaceholder(token string) (segment, bool) {
	name, format, _ := strings.Cut(token, ":")
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "timestamp":
		if format == "" {
			format = DefaultTimestampPattern
		}
		return segment{kind: segTimestamp, literal: Layout(format)}, true
	case "level":
		return segment{kind: segLevel, upper: strings.HasPrefix(strings.ToLower(format), "u")}, true
	case "caller":
		return segment{kind: segCaller}, true
	case "file":
		return segment{kind: segFile}, true
	case "line":
		return segment{kind: segLine}, true
	case "message":
		return segment{kind: segMessage}, true
	case "newline":
		return segment{kind: segNewLine}, true
	}
	return segment{}, false
}

// layoutTokens maps date pattern tokens to Go layout elements, longest first
var layoutTokens = []struct {
	pattern string
	layout  string
}{
	{"yyyy", "2006"},
	{"fff", "000"},
	{"yy", "06"},
	{"MM", "01"},
	{"dd", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"tt", "PM"},
	{"zzz", "-07:00"},
}

// Layout converts a yyyy-MM-dd style date pattern into a Go time layout.
// Characters that are not part of a token are copied through.
func Layout(pattern string) string {
	var sb strings.Builder
	for i := 0; i < len(pattern); {
		matched := false
		for _, tok := range layoutTokens {
			if strings.HasPrefix(pattern[i:], tok.pattern) {
				sb.WriteString(tok.layout)
				i += len(tok.pattern)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(pattern[i])
			i++
		}
	}
	return sb.String()
}
