// Package capxml implements the CAS body codec: the <data> envelope carrying
// protocol fields and a nested CAP-1.2 <alert>, plus the builders for ACK and
// report alerts.
//
// The XML layer is the only place untyped parsing is tolerated; everything is
// converted to the typed records below before handoff to handlers.
package capxml

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const (
	// Namespace is the OASIS CAP 1.2 namespace emitted on built alerts.
	Namespace = "urn:oasis:names:tc:emergency:cap:1.2"

	// CodeKRGov is the Korean government CAP profile code carried in every
	// outbound alert.
	CodeKRGov = "대한민국정부1.2"

	MsgTypeAlert = "Alert"
	MsgTypeAck   = "Ack"

	StatusActual = "Actual"
	ScopePrivate = "Private"

	// SentTimeFormat is the CAP <sent> timestamp layout (ISO 8601 with zone).
	SentTimeFormat = "2006-01-02T15:04:05-07:00"
)

// Text is an XML element whose content is emitted as CDATA. Decoding accepts
// both plain character data and CDATA sections.
type Text struct {
	Value string
}

// MarshalXML writes the value wrapped in a CDATA section.
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return e.EncodeElement(struct {
		S string `xml:",cdata"`
	}{t.Value}, start)
}

// UnmarshalXML reads the element's character data, CDATA included.
func (t *Text) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	t.Value = s
	return nil
}

// Envelope is the CAS <data> body. Which fields are populated depends on the
// message id: auth exchanges use destId/realm/nonce/response, session checks
// use cmd/time, replies carry resultCode/result, and disaster/report payloads
// carry transMsgId/transMsgSeq/capInfo.
type Envelope struct {
	XMLName     xml.Name `xml:"data"`
	DestID      string   `xml:"destId,omitempty"`
	Realm       string   `xml:"realm,omitempty"`
	Nonce       string   `xml:"nonce,omitempty"`
	Response    string   `xml:"response,omitempty"`
	Cmd         string   `xml:"cmd,omitempty"`
	Time        string   `xml:"time,omitempty"`
	ResultCode  string   `xml:"resultCode,omitempty"`
	Result      *Text    `xml:"result,omitempty"`
	TransMsgID  string   `xml:"transMsgId,omitempty"`
	TransMsgSeq int      `xml:"transMsgSeq,omitempty"`
	CapInfo     *CapInfo `xml:"capInfo,omitempty"`
}

// CapInfo wraps the nested CAP alert.
type CapInfo struct {
	Alert *Alert `xml:"alert"`
}

// Alert is a typed CAP-1.2 alert, restricted to the elements the gateway
// produces and consumes.
type Alert struct {
	XMLName    xml.Name `xml:"alert"`
	Xmlns      string   `xml:"xmlns,attr,omitempty"`
	Identifier string   `xml:"identifier"`
	Sender     string   `xml:"sender"`
	Sent       string   `xml:"sent"`
	Status     string   `xml:"status"`
	MsgType    string   `xml:"msgType"`
	Scope      string   `xml:"scope"`
	Addresses  string   `xml:"addresses,omitempty"`
	Code       []string `xml:"code"`
	Note       *Text    `xml:"note,omitempty"`
	References string   `xml:"references,omitempty"`
	Info       []Info   `xml:"info"`
}

// Info is the CAP <info> block.
type Info struct {
	Language  string       `xml:"language,omitempty"`
	Category  string       `xml:"category,omitempty"`
	Event     string       `xml:"event,omitempty"`
	Urgency   string       `xml:"urgency,omitempty"`
	Severity  string       `xml:"severity,omitempty"`
	Certainty string       `xml:"certainty,omitempty"`
	EventCode []NamedValue `xml:"eventCode"`
	Parameter []NamedValue `xml:"parameter"`
}

// NamedValue is the CAP valueName/value pair used by eventCode and parameter.
type NamedValue struct {
	ValueName string `xml:"valueName"`
	Value     Text   `xml:"value"`
}

// ParseEnvelope decodes a CAS body into a typed envelope.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode data envelope: %w", err)
	}
	return &env, nil
}

// Marshal encodes the envelope with an XML declaration, ready for framing.
func (e *Envelope) Marshal() ([]byte, error) {
	out, err := xml.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode data envelope: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// EventCodeValue returns the first eventCode value of the first info block,
// or "" when absent.
func (a *Alert) EventCodeValue() string {
	if len(a.Info) == 0 || len(a.Info[0].EventCode) == 0 {
		return ""
	}
	return a.Info[0].EventCode[0].Value.Value
}

// FormatReferences renders a CAP references triple "sender,identifier,sent".
func FormatReferences(sender, identifier, sent string) string {
	return strings.Join([]string{sender, identifier, sent}, ",")
}

// AckAlert builds the CAP acknowledgement for a received alert. The ACK
// reuses the original (sender, identifier, sent) as <references>, derives its
// own identifier as "<identifier>_ACK", and carries "<noteCode>|<noteMessage>"
// in <note>.
func AckAlert(orig *Alert, senderID string, now time.Time, noteCode, noteMessage string) *Alert {
	ack := &Alert{
		Xmlns:      Namespace,
		Identifier: orig.Identifier + "_ACK",
		Sender:     senderID,
		Sent:       now.Format(SentTimeFormat),
		Status:     StatusActual,
		MsgType:    MsgTypeAck,
		Scope:      ScopePrivate,
		Code:       []string{CodeKRGov},
		Note:       &Text{Value: noteCode + "|" + noteMessage},
		References: FormatReferences(orig.Sender, orig.Identifier, orig.Sent),
	}
	return ack
}

// DeviceReport describes a device info/status report alert to build.
type DeviceReport struct {
	// Identifier is the outbound id, reused as the alert identifier.
	Identifier string
	SenderID   string // configured central-service id
	SystemID   string // configured central-system id, CAP <addresses>
	Event      string // "단말장치 제원정보" or "단말장치 상태정보"
	ValueName  string // "DEVICE_DATA" or "DEVICE_STATUS"
	Payload    string // raw ESS payload, emitted as CDATA
}

// BuildDeviceReportAlert builds the CAP alert for DEVICE_INFO/DEVICE_STATUS
// reports (msgType Alert, eventCode DIS).
func BuildDeviceReportAlert(r DeviceReport, now time.Time) *Alert {
	return &Alert{
		Xmlns:      Namespace,
		Identifier: r.Identifier,
		Sender:     r.SenderID,
		Sent:       now.Format(SentTimeFormat),
		Status:     StatusActual,
		MsgType:    MsgTypeAlert,
		Scope:      ScopePrivate,
		Addresses:  r.SystemID,
		Code:       []string{CodeKRGov},
		Info: []Info{{
			Event:     r.Event,
			EventCode: []NamedValue{{ValueName: "EventCode", Value: Text{Value: "DIS"}}},
			Parameter: []NamedValue{{ValueName: r.ValueName, Value: Text{Value: r.Payload}}},
		}},
	}
}

// DisasterResultReport describes a disaster result report referencing the
// original alert.
type DisasterResultReport struct {
	Identifier string
	SenderID   string
	SystemID   string
	Payload    string

	// Original alert coordinates, reconstructed into <references>.
	OrigSender     string
	OrigIdentifier string
	OrigSent       string
}

// BuildDisasterResultAlert builds the CAP ack-typed alert for DISASTER_RESULT
// reports (msgType Ack, eventCode DIM, parameter LASReport).
func BuildDisasterResultAlert(r DisasterResultReport, now time.Time) *Alert {
	return &Alert{
		Xmlns:      Namespace,
		Identifier: r.Identifier,
		Sender:     r.SenderID,
		Sent:       now.Format(SentTimeFormat),
		Status:     StatusActual,
		MsgType:    MsgTypeAck,
		Scope:      ScopePrivate,
		Addresses:  r.SystemID,
		Code:       []string{CodeKRGov},
		References: FormatReferences(r.OrigSender, r.OrigIdentifier, r.OrigSent),
		Info: []Info{{
			Event:     "결과 보고",
			EventCode: []NamedValue{{ValueName: "EventCode", Value: Text{Value: "DIM"}}},
			Parameter: []NamedValue{{ValueName: "LASReport", Value: Text{Value: r.Payload}}},
		}},
	}
}
