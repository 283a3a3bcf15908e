package handler

import "fmt"

// Note codes of the CAS application-level ACK envelope.
const (
	NoteOK         = "000"
	NoteValidation = "210"
	NoteProfile    = "220"
	NoteDuplicate  = "300"
	NoteInternal   = "810"
)

// PipelineError classifies a disaster-pipeline failure and carries the NACK
// mapping sent back to CAS.
type PipelineError struct {
	ResultCode  string
	NoteCode    string
	NoteMessage string
	Err         error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.NoteMessage, e.NoteCode, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.NoteMessage, e.NoteCode)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func errParsing(err error) *PipelineError {
	return &PipelineError{ResultCode: "500", NoteCode: NoteInternal, NoteMessage: "Message Parsing Failed", Err: err}
}

func errValidation(field string) *PipelineError {
	return &PipelineError{ResultCode: "400", NoteCode: NoteValidation, NoteMessage: "Message Validation Failed: missing " + field}
}

func errProfile(eventCode string) *PipelineError {
	return &PipelineError{ResultCode: "400", NoteCode: NoteProfile, NoteMessage: "Profile Violation: unknown event code " + eventCode}
}

func errDuplicate() *PipelineError {
	return &PipelineError{ResultCode: "400", NoteCode: NoteDuplicate, NoteMessage: "Duplicate Message"}
}

func errInternal(err error) *PipelineError {
	return &PipelineError{ResultCode: "500", NoteCode: NoteInternal, NoteMessage: "Internal Server Error", Err: err}
}
