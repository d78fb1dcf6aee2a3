package dotlogs

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/AlexandreIorio/dotlogs/sanitizer"
)

// FormatArgs joins args into one message, space separated. Scalars are
// rendered directly, composite values fall back to a one-line dump.
func FormatArgs(args ...any) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, arg := range args {
		if i > 0 {
			buf.B = append(buf.B, ' ')
		}
		buf.B = appendValue(buf.B, arg)
	}
	return string(buf.B)
}

// appendValue converts any value to its message representation
func appendValue(dst []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(dst, val...)
	case int:
		return strconv.AppendInt(dst, int64(val), 10)
	case int32:
		return strconv.AppendInt(dst, int64(val), 10)
	case int64:
		return strconv.AppendInt(dst, val, 10)
	case uint:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(dst, val, 10)
	case float32:
		return strconv.AppendFloat(dst, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(dst, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(dst, val)
	case nil:
		return append(dst, "nil"...)
	case time.Time:
		return val.UTC().AppendFormat(dst, timestampLayout)
	case time.Duration:
		return append(dst, val.String()...)
	case error:
		return append(dst, val.Error()...)
	case fmt.Stringer:
		return append(dst, val.String()...)
	case []byte:
		return hex.AppendEncode(dst, val)
	default:
		return append(dst, sanitizer.Dump(val)...)
	}
}
