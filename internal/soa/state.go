package soa

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedSOA reports SOA record content that does not carry the
// seven expected fields.
var ErrMalformedSOA = errors.New("malformed SOA content")

// State is the parsed content of a zone's SOA record. The serial stays
// a string because PowerDNS stores it verbatim inside the content
// column and the arithmetic in NextSerial is defined on the string
// form.
type State struct {
	Ns      string
	Mbox    string
	Serial  string
	Refresh int64
	Retry   int64
	Expire  int64
	Minimum int64
}

// Parse splits SOA content of the form
// "ns mbox serial refresh retry expire minimum" into a State.
func Parse(content string) (State, error) {
	fields := strings.Fields(content)
	if len(fields) != 7 {
		return State{}, fmt.Errorf("%w: expected 7 fields, got %d", ErrMalformedSOA, len(fields))
	}
	st := State{
		Ns:     fields[0],
		Mbox:   fields[1],
		Serial: fields[2],
	}
	nums := [4]*int64{&st.Refresh, &st.Retry, &st.Expire, &st.Minimum}
	for i, dst := range nums {
		v, err := strconv.ParseInt(fields[3+i], 10, 64)
		if err != nil {
			return State{}, fmt.Errorf("%w: field %d is not numeric", ErrMalformedSOA, 4+i)
		}
		*dst = v
	}
	return st, nil
}

// WithSerial returns a copy of the state carrying the given serial.
func (s State) WithSerial(serial string) State {
	s.Serial = serial
	return s
}

func (s State) String() string {
	return fmt.Sprintf("%s %s %s %d %d %d %d",
		s.Ns, s.Mbox, s.Serial, s.Refresh, s.Retry, s.Expire, s.Minimum)
}
