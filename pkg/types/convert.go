// pkg/types/convert.go
package types

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnsupportedConversion is returned when a column cannot be read as the
// requested type through the requested access method.
var ErrUnsupportedConversion = errors.New("unsupported conversion")

// converter coerces a non-nil raw value into one target representation.
type converter func(raw any) (any, error)

var converters map[ValueType]converter

func init() {
	converters = map[ValueType]converter{
		TypeBool:      toBool,
		TypeInt8:      narrowInt(TypeInt8, math.MinInt8, math.MaxInt8, func(v int64) any { return int8(v) }),
		TypeInt16:     narrowInt(TypeInt16, math.MinInt16, math.MaxInt16, func(v int64) any { return int16(v) }),
		TypeInt32:     narrowInt(TypeInt32, math.MinInt32, math.MaxInt32, func(v int64) any { return int32(v) }),
		TypeInt64:     func(raw any) (any, error) { return toInt64(raw) },
		TypeFloat32:   toFloat32,
		TypeFloat64:   func(raw any) (any, error) { return toFloat64(raw) },
		TypeDecimal:   func(raw any) (any, error) { return ToDecimal(raw) },
		TypeString:    func(raw any) (any, error) { return toString(raw), nil },
		TypeBytes:     toBytes,
		TypeDate:      temporal(TypeDate, nil),
		TypeTime:      temporal(TypeTime, nil),
		TypeTimestamp: temporal(TypeTimestamp, nil),
		TypeURL:       toURL,
		TypeBlob:      toBlob,
		TypeClob:      toClob,
		TypeXML:       toXML,
		TypeReader:    toReader,
	}
}

// Convert reads raw as the representation named by typ. NULL stays nil for
// every type. Types without a registered converter (including TypeObject)
// return raw unchanged.
func Convert(raw any, typ ValueType) (any, error) {
	if raw == nil {
		return nil, nil
	}
	conv, ok := converters[typ]
	if !ok {
		return raw, nil
	}
	return conv(raw)
}

// ConvertCalendar reads raw as a date, time or timestamp whose wall clock is
// interpreted in loc. A nil loc means UTC.
func ConvertCalendar(raw any, typ ValueType, loc *time.Location) (any, error) {
	if !typ.IsTemporal() {
		return nil, fmt.Errorf("%w: calendar value as %s", ErrUnsupportedConversion, typ)
	}
	if raw == nil {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	return temporal(typ, loc)(raw)
}

// ConvertStream opens raw as an input stream of the given kind.
func ConvertStream(raw any, kind StreamKind) (io.Reader, error) {
	switch kind {
	case StreamASCII, StreamUnicode, StreamBinary:
	default:
		return nil, fmt.Errorf("%w: input stream kind %q", ErrUnsupportedConversion, string(kind))
	}
	if raw == nil {
		return nil, nil
	}
	if r, ok := raw.(io.Reader); ok {
		return r, nil
	}
	switch kind {
	case StreamBinary:
		b, err := toBytes(raw)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(b.([]byte)), nil
	case StreamASCII:
		return strings.NewReader(asciiOnly(toString(raw))), nil
	default:
		enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
		return transform.NewReader(strings.NewReader(toString(raw)), enc), nil
	}
}

func unsupported(raw any, typ ValueType) error {
	return fmt.Errorf("%w: cannot read %T as %s", ErrUnsupportedConversion, raw, typ)
}

func asciiOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > 127 {
			r = '?'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toBool(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return parseBool(v, raw)
	case []byte:
		return parseBool(string(v), raw)
	case decimal.Decimal:
		return !v.IsZero(), nil
	case float32:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case uint:
		return v != 0, nil
	case uint64:
		return v != 0, nil
	}
	if i, ok := asInt64(raw); ok {
		return i != 0, nil
	}
	return nil, unsupported(raw, TypeBool)
}

func parseBool(s string, raw any) (any, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil, unsupported(raw, TypeBool)
	}
	return b, nil
}

// asInt64 handles the integer family without allocation.
func asInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}

func toInt64(raw any) (int64, error) {
	if i, ok := asInt64(raw); ok {
		return i, nil
	}
	switch v := raw.(type) {
	case uint, uint64:
		return 0, fmt.Errorf("%w: %v overflows %s", ErrUnsupportedConversion, v, TypeInt64)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string, []byte, decimal.Decimal:
		d, err := ToDecimal(v)
		if err != nil {
			return 0, unsupported(raw, TypeInt64)
		}
		return d.IntPart(), nil
	}
	return 0, unsupported(raw, TypeInt64)
}

func narrowInt(typ ValueType, lo, hi int64, cast func(int64) any) converter {
	return func(raw any) (any, error) {
		switch raw.(type) {
		case int8:
			if typ == TypeInt8 {
				return raw, nil
			}
		case int16:
			if typ == TypeInt16 {
				return raw, nil
			}
		case int32:
			if typ == TypeInt32 {
				return raw, nil
			}
		}
		v, err := toInt64(raw)
		if err != nil {
			return nil, unsupported(raw, typ)
		}
		if v < lo || v > hi {
			return nil, fmt.Errorf("%w: %d overflows %s", ErrUnsupportedConversion, v, typ)
		}
		return cast(v), nil
	}
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, nil
	case string:
		return parseFloat(v, raw)
	case []byte:
		return parseFloat(string(v), raw)
	case uint:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	if i, ok := asInt64(raw); ok {
		return float64(i), nil
	}
	return 0, unsupported(raw, TypeFloat64)
}

func parseFloat(s string, raw any) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, unsupported(raw, TypeFloat64)
	}
	return f, nil
}

func toFloat32(raw any) (any, error) {
	if f, ok := raw.(float32); ok {
		return f, nil
	}
	f, err := toFloat64(raw)
	if err != nil {
		return nil, unsupported(raw, TypeFloat32)
	}
	return float32(f), nil
}

func toString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case Clob:
		return string(v)
	case XML:
		return string(v)
	case Blob:
		return string(v)
	case decimal.Decimal:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return v.Format("2006-01-02 15:04:05.999999999")
	case *url.URL:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", raw)
}

func toBytes(raw any) (any, error) {
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case Blob:
		return []byte(v), nil
	case string:
		return []byte(v), nil
	case io.Reader:
		return nil, unsupported(raw, TypeBytes)
	}
	return []byte(toString(raw)), nil
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"15:04:05.999999999",
}

func parseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// temporal returns a converter for typ. With a nil loc the value keeps its own
// location; otherwise its wall clock is re-read in loc.
func temporal(typ ValueType, loc *time.Location) converter {
	return func(raw any) (any, error) {
		var t time.Time
		switch v := raw.(type) {
		case time.Time:
			t = v
			if loc != nil {
				t = time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), loc)
			}
		case string, []byte:
			in := loc
			if in == nil {
				in = time.UTC
			}
			parsed, ok := parseTime(toString(v), in)
			if !ok {
				return nil, unsupported(raw, typ)
			}
			t = parsed
		default:
			return nil, unsupported(raw, typ)
		}
		switch typ {
		case TypeDate:
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
		case TypeTime:
			return time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()), nil
		default:
			return t, nil
		}
	}
}

func toURL(raw any) (any, error) {
	switch v := raw.(type) {
	case *url.URL:
		return v, nil
	case url.URL:
		return &v, nil
	case string, []byte:
		u, err := url.Parse(toString(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedConversion, err)
		}
		return u, nil
	}
	return nil, unsupported(raw, TypeURL)
}

func toBlob(raw any) (any, error) {
	switch v := raw.(type) {
	case Blob:
		return v, nil
	case []byte:
		return Blob(v), nil
	case string:
		return Blob(v), nil
	}
	return nil, unsupported(raw, TypeBlob)
}

func toClob(raw any) (any, error) {
	switch v := raw.(type) {
	case Clob:
		return v, nil
	case string, []byte:
		return Clob(toString(v)), nil
	}
	return nil, unsupported(raw, TypeClob)
}

func toXML(raw any) (any, error) {
	switch v := raw.(type) {
	case XML:
		return v, nil
	case string, []byte:
		return XML(toString(v)), nil
	}
	return nil, unsupported(raw, TypeXML)
}

func toReader(raw any) (any, error) {
	switch v := raw.(type) {
	case io.Reader:
		return v, nil
	case []byte:
		return bytes.NewReader(v), nil
	case Blob:
		return bytes.NewReader(v), nil
	case string, Clob, XML:
		return strings.NewReader(toString(v)), nil
	}
	return nil, unsupported(raw, TypeReader)
}
