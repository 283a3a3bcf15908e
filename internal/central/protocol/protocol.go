// Package protocol implements the CAS framed wire protocol: the 16-byte
// big-endian header, the stream deframer, and the digest authenticator.
package protocol

import (
	"encoding/binary"
	"fmt"
)

// Message ids of the CAS protocol. Requests/notifies originate from the side
// named first; the paired id is the reply/confirm.
const (
	MsgReqSysCon uint32 = 0x0101 // auth request (ETS_REQ_SYS_CON)
	MsgResSysCon uint32 = 0x0102 // auth challenge/result
	MsgReqSysSts uint32 = 0x0201 // session check (alive)
	MsgResSysSts uint32 = 0x0202 // session check reply
	MsgNfyDisInfo uint32 = 0x0301 // disaster notify (CAS → CS)
	MsgCnfDisInfo uint32 = 0x0302 // disaster ack (CS → CAS)
	MsgReqDisReport uint32 = 0x0401 // disaster result report (CS → CAS)
	MsgResDisReport uint32 = 0x0402 // disaster result report ack
	MsgNfyDeviceInfo uint32 = 0x0501 // device info report (CS → CAS)
	MsgCnfDeviceInfo uint32 = 0x0502 // device info ack
	MsgNfyDeviceSts uint32 = 0x0601 // device status report (CS → CAS)
	MsgCnfDeviceSts uint32 = 0x0602 // device status ack
)

const (
	// DataFormatXML marks an XML <data> body.
	DataFormatXML uint32 = 1

	// HeaderSize is the fixed header length in bytes.
	HeaderSize = 16

	// MaxBodyLength bounds the declared body length; anything larger is a
	// framing error and purges the parse buffer.
	MaxBodyLength = 20 << 20
)

// Header is the fixed 16-byte CAS frame header. All fields are big-endian
// uint32.
type Header struct {
	MessageID  uint32
	DataFormat uint32
	Magic      uint32
	DataLength uint32
}

// Frame is one deframed CAS message.
type Frame struct {
	Header Header
	Body   []byte
}

// FramingError reports a corrupt header. The deframer purges its buffer and
// resumes framing from the next bytes received; the connection stays up.
type FramingError struct {
	Reason string
	Header Header
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("framing error: %s (messageId=%#x dataLength=%d)", e.Reason, e.Header.MessageID, e.Header.DataLength)
}

// EncodeFrame renders a header+body buffer ready for the socket.
func EncodeFrame(messageID, magic uint32, body []byte) []byte {
	buf := make([]byte, HeaderSize+len(body))
	binary.BigEndian.PutUint32(buf[0:4], messageID)
	binary.BigEndian.PutUint32(buf[4:8], DataFormatXML)
	binary.BigEndian.PutUint32(buf[8:12], magic)
	binary.BigEndian.PutUint32(buf[12:16], uint32(len(body)))
	copy(buf[HeaderSize:], body)
	return buf
}

func decodeHeader(b []byte) Header {
	return Header{
		MessageID:  binary.BigEndian.Uint32(b[0:4]),
		DataFormat: binary.BigEndian.Uint32(b[4:8]),
		Magic:      binary.BigEndian.Uint32(b[8:12]),
		DataLength: binary.BigEndian.Uint32(b[12:16]),
	}
}

// Deframer consumes a byte stream and emits frames in order. It holds at most
// one in-flight partial frame.
type Deframer struct {
	magic uint32
	buf   []byte
}

// NewDeframer creates a deframer validating against the configured magic
// number.
func NewDeframer(magic uint32) *Deframer {
	return &Deframer{magic: magic}
}

// Push appends raw bytes received from the socket.
func (d *Deframer) Push(p []byte) {
	d.buf = append(d.buf, p...)
}

// Next returns the next complete frame, a *FramingError, or (nil, nil) when
// more bytes are needed. Zero-length bodies are legal and emitted immediately.
// Callers should loop until (nil, nil).
func (d *Deframer) Next() (*Frame, error) {
	if len(d.buf) < HeaderSize {
		return nil, nil
	}

	h := decodeHeader(d.buf)
	if h.Magic != d.magic {
		d.buf = nil
		return nil, &FramingError{Reason: "magic number mismatch", Header: h}
	}
	if h.DataLength > MaxBodyLength {
		d.buf = nil
		return nil, &FramingError{Reason: "body length exceeds maximum", Header: h}
	}

	total := HeaderSize + int(h.DataLength)
	if len(d.buf) < total {
		return nil, nil
	}

	body := make([]byte, h.DataLength)
	copy(body, d.buf[HeaderSize:total])
	d.buf = d.buf[total:]
	return &Frame{Header: h, Body: body}, nil
}
