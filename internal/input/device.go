package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey = 0x01

	keyReleased = 0
	keyPressed  = 1
)

type timeval struct {
	Sec  int64
	Usec int64
}

type keyEvent struct {
	Time  timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Event is a key going down or up. Time is the kernel's stamp, taken from
// the realtime clock.
type Event struct {
	Pressed bool
	Code    uint16
	Time    time.Time
}

// ReadDevice decodes evdev key events from r until it fails. Autorepeat and
// non key events are skipped. A clean end of input returns nil.
func ReadDevice(r io.Reader, events chan<- *Event) error {
	var ev keyEvent
	for {
		if err := binary.Read(r, binary.LittleEndian, &ev); nil != err {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("unable to read key event: %w", err)
		}
		if ev.Type != evKey || (ev.Value != keyPressed && ev.Value != keyReleased) {
			continue
		}
		events <- &Event{
			Pressed: ev.Value == keyPressed,
			Code:    ev.Code,
			Time:    time.Unix(ev.Time.Sec, ev.Time.Usec*int64(time.Microsecond)),
		}
	}
}

// OpenDevice starts reading the evdev device at path in the background. The
// returned channel receives the error that ended reading, or nil.
func OpenDevice(path string, events chan<- *Event) (<-chan error, error) {
	file, err := os.Open(path)
	if nil != err {
		return nil, fmt.Errorf("unable to open input device: %w", err)
	}
	done := make(chan error, 1)
	go func() {
		defer file.Close()
		done <- ReadDevice(file, events)
	}()
	return done, nil
}
