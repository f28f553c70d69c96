package engine

import (
	"fmt"

	"github.com/go-go-golems/sessionbot/pkg/events"
)

// FaultPrefix starts the text of every fault reply.
const FaultPrefix = "Error: "

const unknownFault = "unknown error"

// Result is either a genuine reply or a fault description.
type Result struct {
	text  string
	fault bool

	// Metadata describes the call (model, usage, stop reason, duration). May be nil.
	Metadata *events.LLMInferenceData
}

func Reply(text string) Result {
	return Result{text: text}
}

func Fault(description string) Result {
	if description == "" {
		description = unknownFault
	}
	return Result{text: description, fault: true}
}

func Faultf(format string, args ...interface{}) Result {
	return Fault(fmt.Sprintf(format, args...))
}

// FaultFromError turns err into a fault, nil becoming the unknown fault.
func FaultFromError(err error) Result {
	if err == nil {
		return Fault("")
	}
	return Fault(err.Error())
}

func (r Result) IsFault() bool {
	return r.fault
}

// Text returns what gets shown to the user and recorded in the history:
// the reply itself, or FaultPrefix followed by the fault description.
func (r Result) Text() string {
	if r.fault {
		return FaultPrefix + r.text
	}
	return r.text
}

// Description returns the fault description without prefix, or "" for replies.
func (r Result) Description() string {
	if r.fault {
		return r.text
	}
	return ""
}

func (r Result) WithMetadata(md *events.LLMInferenceData) Result {
	r.Metadata = md
	return r
}

func (r Result) String() string {
	return r.Text()
}
