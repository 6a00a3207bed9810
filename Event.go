/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fsais

import (
	"fmt"
	"time"
)

const (
	EvtRecursionStart   = 0 // a recursion level begins
	EvtBlockPreprocess  = 1 // the in-memory block preprocessor starts/ends a level
	EvtPlusInduce       = 2 // the EM plus-star substring inducer starts/ends
	EvtMinusInduce      = 3 // the EM minus-star substring inducer + namer starts/ends
	EvtRecursiveText    = 4 // the recursive text / permutation step starts/ends
	EvtFinalInduce      = 5 // the final EM plus/minus suffix inducer starts/ends
	EvtRecursionEnd     = 6 // a recursion level ends
	EvtNaiveBaseCase    = 7 // the naive in-memory SA base case ran
)

// Event describes progress within one recursion level of the pipeline.
type Event struct {
	eventType int
	level     int
	size      int64
	eventTime time.Time
	msg       string
}

// NewEventFromString creates an Event that just wraps a message.
func NewEventFromString(evtType, level int, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, level: level, msg: msg, eventTime: evtTime}
}

// NewEvent creates an Event carrying a size (bytes processed, items emitted, ...).
func NewEvent(evtType, level int, size int64, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, level: level, size: size, eventTime: evtTime}
}

// Type returns the event type (one of the Evt* constants).
func (this *Event) Type() int {
	return this.eventType
}

// Level returns the recursion level the event belongs to (0 = top level).
func (this *Event) Level() int {
	return this.level
}

// Time returns the time the event was created.
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size info associated with the event, if any.
func (this *Event) Size() int64 {
	return this.size
}

// String renders the event as a one-line diagnostic.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	t := ""

	switch this.eventType {
	case EvtRecursionStart:
		t = "RECURSION_START"
	case EvtBlockPreprocess:
		t = "BLOCK_PREPROCESS"
	case EvtPlusInduce:
		t = "PLUS_INDUCE"
	case EvtMinusInduce:
		t = "MINUS_INDUCE"
	case EvtRecursiveText:
		t = "RECURSIVE_TEXT"
	case EvtFinalInduce:
		t = "FINAL_INDUCE"
	case EvtRecursionEnd:
		t = "RECURSION_END"
	case EvtNaiveBaseCase:
		t = "NAIVE_BASE_CASE"
	}

	return fmt.Sprintf("[level %d] %s size=%d", this.level, t, this.size)
}

// Listener is implemented by event processors registered with the driver.
type Listener interface {
	// ProcessEvent is called whenever the pipeline emits an event.
	ProcessEvent(evt *Event)
}
