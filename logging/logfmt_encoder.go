package logging

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// logfmtEncoder writes entries as space separated key=value pairs. Values
// containing whitespace, quotes, or equals signs are quoted.
type logfmtEncoder struct {
	*zapcore.EncoderConfig
	buf    *buffer.Buffer
	prefix string
}

var _ zapcore.Encoder = (*logfmtEncoder)(nil)

// NewLogfmtEncoder creates a logfmt encoder with the given key names.
func NewLogfmtEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &logfmtEncoder{
		EncoderConfig: &cfg,
		buf:           bufferPool.Get(),
	}
}

func (e *logfmtEncoder) clone() *logfmtEncoder {
	c := &logfmtEncoder{
		EncoderConfig: e.EncoderConfig,
		buf:           bufferPool.Get(),
		prefix:        e.prefix,
	}
	c.buf.Write(e.buf.Bytes())
	return c
}

func (e *logfmtEncoder) Clone() zapcore.Encoder { return e.clone() }

func (e *logfmtEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := bufferPool.Get()

	if e.TimeKey != "" {
		writeKey(line, e.TimeKey)
		line.AppendString(ent.Time.Format("15:04:05"))
	}
	if e.LevelKey != "" {
		writeKey(line, e.LevelKey)
		line.AppendString(ent.Level.String())
	}
	if e.CallerKey != "" && ent.Caller.Defined {
		writeKey(line, e.CallerKey)
		line.AppendString(ent.Caller.TrimmedPath())
	}
	if e.MessageKey != "" {
		writeKey(line, e.MessageKey)
		writeValue(line, ent.Message)
	}

	// Context fields accumulated by With plus the per call fields. Each
	// field renders itself through the ObjectEncoder methods below.
	ctx := e.clone()
	for i := range fields {
		fields[i].AddTo(ctx)
	}
	if ctx.buf.Len() > 0 {
		line.AppendByte(' ')
		line.Write(ctx.buf.Bytes())
	}
	ctx.buf.Free()

	if e.StacktraceKey != "" && ent.Stack != "" {
		writeKey(line, e.StacktraceKey)
		writeValue(line, ent.Stack)
	}

	if e.LineEnding != "" {
		line.AppendString(e.LineEnding)
	} else {
		line.AppendString(zapcore.DefaultLineEnding)
	}
	return line, nil
}

func writeKey(buf *buffer.Buffer, key string) {
	if buf.Len() > 0 {
		buf.AppendByte(' ')
	}
	buf.AppendString(key)
	buf.AppendByte('=')
}

func writeValue(buf *buffer.Buffer, s string) {
	if !strings.ContainsAny(s, " \t\n\r\"=") {
		buf.AppendString(s)
		return
	}
	buf.AppendByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.AppendString(`\"`)
		case '\\':
			buf.AppendString(`\\`)
		case '\n':
			buf.AppendString(`\n`)
		case '\r':
			buf.AppendString(`\r`)
		case '\t':
			buf.AppendString(`\t`)
		default:
			buf.AppendString(string(r))
		}
	}
	buf.AppendByte('"')
}

func (e *logfmtEncoder) addKey(key string) {
	writeKey(e.buf, e.prefix+key)
}

func (e *logfmtEncoder) AddString(key, val string) {
	e.addKey(key)
	writeValue(e.buf, val)
}

func (e *logfmtEncoder) AddBool(key string, val bool) {
	e.addKey(key)
	e.buf.AppendBool(val)
}

func (e *logfmtEncoder) AddInt64(key string, val int64) {
	e.addKey(key)
	e.buf.AppendInt(val)
}

func (e *logfmtEncoder) AddUint64(key string, val uint64) {
	e.addKey(key)
	e.buf.AppendUint(val)
}

func (e *logfmtEncoder) AddFloat64(key string, val float64) {
	e.addKey(key)
	e.buf.AppendString(strconv.FormatFloat(val, 'f', -1, 64))
}

func (e *logfmtEncoder) AddFloat32(key string, val float32) {
	e.addKey(key)
	e.buf.AppendString(strconv.FormatFloat(float64(val), 'f', -1, 32))
}

func (e *logfmtEncoder) AddDuration(key string, val time.Duration) {
	e.addKey(key)
	e.buf.AppendString(val.String())
}

func (e *logfmtEncoder) AddTime(key string, val time.Time) {
	e.addKey(key)
	e.buf.AppendString(val.Format(time.RFC3339))
}

func (e *logfmtEncoder) AddBinary(key string, val []byte)     { e.AddString(key, string(val)) }
func (e *logfmtEncoder) AddByteString(key string, val []byte) { e.AddString(key, string(val)) }

func (e *logfmtEncoder) AddComplex128(key string, val complex128) {
	e.AddString(key, strconv.FormatComplex(val, 'f', -1, 128))
}

func (e *logfmtEncoder) AddComplex64(key string, val complex64) {
	e.AddComplex128(key, complex128(val))
}

func (e *logfmtEncoder) AddInt(key string, val int)     { e.AddInt64(key, int64(val)) }
func (e *logfmtEncoder) AddInt32(key string, val int32) { e.AddInt64(key, int64(val)) }
func (e *logfmtEncoder) AddInt16(key string, val int16) { e.AddInt64(key, int64(val)) }
func (e *logfmtEncoder) AddInt8(key string, val int8)   { e.AddInt64(key, int64(val)) }

func (e *logfmtEncoder) AddUint(key string, val uint)       { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUint32(key string, val uint32)   { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUint16(key string, val uint16)   { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUint8(key string, val uint8)     { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUintptr(key string, val uintptr) { e.AddUint64(key, uint64(val)) }

func (e *logfmtEncoder) AddReflected(key string, val interface{}) error {
	e.addKey(key)
	writeValue(e.buf, fmt.Sprint(val))
	return nil
}

func (e *logfmtEncoder) AddArray(key string, arr zapcore.ArrayMarshaler) error {
	return e.AddReflected(key, arr)
}

func (e *logfmtEncoder) AddObject(key string, obj zapcore.ObjectMarshaler) error {
	return e.AddReflected(key, obj)
}

// OpenNamespace prefixes subsequent keys: zap.Namespace("db") followed by
// zap.Int("rows", 3) renders as db.rows=3.
func (e *logfmtEncoder) OpenNamespace(key string) {
	e.prefix = e.prefix + key + "."
}
