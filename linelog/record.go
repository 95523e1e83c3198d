// Copyright (c) 2024 BVK Chaitanya

package linelog

import (
	"bytes"
	"sync"
	"time"
)

// Record is one log message as it is handed to the sinks.
type Record struct {
	Level   Level
	Logger  string
	Time    time.Time
	Message string
}

// bufs is a pool of *bytes.Buffer used in formatting log lines.
var bufs sync.Pool

func getBuffer() *bytes.Buffer {
	if v := bufs.Get(); v != nil {
		buf := v.(*bytes.Buffer)
		buf.Reset()
		return buf
	}
	return bytes.NewBuffer(nil)
}

// AppendLine appends the log file line for the record, including the
// trailing newline, to buf:
//
//	LEVEL | 2006-01-02T15:04:05.000000-07:00 | logger | message
//
// Carriage returns and newlines inside the message are escaped so that one
// record always occupies exactly one line.
func (r *Record) AppendLine(buf *bytes.Buffer) {
	buf.WriteString(r.Level.String())
	buf.WriteString(" | ")
	appendTimestamp(buf, r.Time)
	buf.WriteString(" | ")
	buf.WriteString(r.Logger)
	buf.WriteString(" | ")
	appendEscaped(buf, r.Message)
	buf.WriteByte('\n')
}

// String returns the log file line for the record without the newline.
func (r *Record) String() string {
	buf := getBuffer()
	defer bufs.Put(buf)

	r.AppendLine(buf)
	return string(buf.Bytes()[:buf.Len()-1])
}

// appendTimestamp writes t in ISO-8601 with microseconds and a numeric zone
// offset. Avoid Format, the layout is fixed and simple enough to do by hand.
func appendTimestamp(buf *bytes.Buffer, t time.Time) {
	year, month, day := t.Date()
	hour, minute, second := t.Clock()
	nDigits(buf, 4, uint64(year), '0')
	buf.WriteByte('-')
	twoDigits(buf, int(month))
	buf.WriteByte('-')
	twoDigits(buf, day)
	buf.WriteByte('T')
	twoDigits(buf, hour)
	buf.WriteByte(':')
	twoDigits(buf, minute)
	buf.WriteByte(':')
	twoDigits(buf, second)
	buf.WriteByte('.')
	nDigits(buf, 6, uint64(t.Nanosecond()/1000), '0')

	_, offset := t.Zone()
	if offset < 0 {
		buf.WriteByte('-')
		offset = -offset
	} else {
		buf.WriteByte('+')
	}
	twoDigits(buf, offset/3600)
	buf.WriteByte(':')
	twoDigits(buf, (offset%3600)/60)
}

func appendEscaped(buf *bytes.Buffer, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteByte(c)
		}
	}
}

const digits = "0123456789"

// twoDigits formats a zero-prefixed two-digit integer to buf.
func twoDigits(buf *bytes.Buffer, d int) {
	buf.WriteByte(digits[(d/10)%10])
	buf.WriteByte(digits[d%10])
}

// nDigits formats an n-digit integer to buf, padding with pad on the left.
func nDigits(buf *bytes.Buffer, n int, d uint64, pad byte) {
	var tmp [20]byte

	cutoff := len(tmp) - n
	j := len(tmp) - 1
	for ; d > 0; j-- {
		tmp[j] = digits[d%10]
		d /= 10
	}
	for ; j >= cutoff; j-- {
		tmp[j] = pad
	}
	j++
	buf.Write(tmp[j:])
}
