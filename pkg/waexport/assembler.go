package waexport

import (
	"errors"
	"fmt"
	"strings"
)

// Assembler folds transcript lines into message records
type Assembler struct {
	Dialects []Dialect
	Rules    ContentRules
}

// NewAssembler returns an assembler with the default dialects and rules
func NewAssembler() Assembler {
	return Assembler{Dialects: DefaultDialects(), Rules: DefaultContentRules()}
}

// State is the assembler state between lines. Open is nil when no message
// is open. Step never mutates the state it is given.
type State struct {
	Open   *Message
	NextID int
	Done   []Message
	Line   int
}

// Step applies one raw line to s
func (a Assembler) Step(s State, raw string) (State, error) {
	return a.step(s, raw, false)
}

// step applies one line. When owned is false, Done is copied before a flush
// so states branched from the same input never share a backing array.
func (a Assembler) step(s State, raw string, owned bool) (State, error) {
	s.Line++
	line := Classify(raw, a.Dialects)

	switch line.Kind {
	case LineBlank:
		return s, nil

	case LineContinuation:
		if s.Open == nil {
			return s, nil
		}
		open := *s.Open
		open.Content += "\n" + line.Text
		s.Open = &open
		return s, nil
	}

	ts, err := NormalizeTimestamp(line.Date, line.Clock, line.Dialect.DefaultOrder)
	if err != nil {
		return s, &ParseError{Line: s.Line, Raw: line.Text, Err: err}
	}

	if s.Open != nil {
		if !owned {
			s.Done = s.Done[:len(s.Done):len(s.Done)]
		}
		s.Done = append(s.Done, *s.Open)
	}
	s.NextID++

	msg := Message{
		ID:        fmt.Sprintf("msg_%d", s.NextID),
		Timestamp: ts,
		Sender:    line.Sender,
		Content:   line.Body,
	}
	if line.HasSender {
		msg.Type, msg.Media = a.Rules.Analyze(line.Body)
	} else {
		msg.Type = MessageTypeSystem
	}
	if msg.Type == MessageTypeSystem {
		msg.Sender = SystemSender
	}
	s.Open = &msg
	return s, nil
}

// Finish flushes any open message and returns the completed sequence
func (a Assembler) Finish(s State) []Message {
	out := s.Done
	if s.Open != nil {
		out = append(out[:len(out):len(out)], *s.Open)
	}
	if out == nil {
		out = []Message{}
	}
	return out
}

// Parse assembles a whole transcript. CRLF line endings are normalised first.
func (a Assembler) Parse(text string) ([]Message, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	// Parse owns its state, so flushes append in place
	var s State
	var err error
	for _, raw := range strings.Split(text, "\n") {
		if s, err = a.step(s, raw, true); err != nil {
			return nil, err
		}
	}
	return a.Finish(s), nil
}

// Parse assembles text with the default assembler
func Parse(text string) ([]Message, error) {
	return NewAssembler().Parse(text)
}

// IsMalformedTimestamp reports whether err came from an unparseable start line
func IsMalformedTimestamp(err error) bool {
	return errors.Is(err, ErrMalformedTimestamp)
}
