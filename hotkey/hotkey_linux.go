//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"launchkey/chord"
)

const (
	evKey      = 1
	keyRelease = 0
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

type evdevSource struct {
	events chan chord.Event
	files  []*os.File
	stop   chan struct{}
	once   sync.Once
}

// New reads every keyboard under /dev/input directly. The chord and cancel
// key are matched downstream, so evdev needs no registration for them.
// Requires the user to be in the 'input' group.
func New(_ chord.Chord, _ chord.Key) Source {
	return &evdevSource{
		events: make(chan chord.Event, eventBuffer),
	}
}

func (s *evdevSource) Register() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	s.stop = make(chan struct{})

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		s.files = append(s.files, f)
		go s.readEvents(f)
	}

	if len(s.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	return nil
}

func (s *evdevSource) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)

	for {
		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			ev, ok := decodeEvent(buf[i : i+inputEventSize])
			if !ok {
				continue
			}
			select {
			case s.events <- ev:
			case <-s.stop:
				return
			}
		}
	}
}

// decodeEvent maps a raw input_event to a key transition. Autorepeat
// (value 2) is reported as a press; the recognizer ignores it for held keys.
func decodeEvent(raw []byte) (chord.Event, bool) {
	evType := binary.LittleEndian.Uint16(raw[16:])
	evCode := binary.LittleEndian.Uint16(raw[18:])
	evValue := int32(binary.LittleEndian.Uint32(raw[20:]))

	if evType != evKey {
		return chord.Event{}, false
	}
	k, ok := evdevKeys[evCode]
	if !ok {
		return chord.Event{}, false
	}
	return chord.Event{Key: k, Down: evValue != keyRelease}, true
}

func (s *evdevSource) Unregister() {
	s.once.Do(func() {
		if s.stop != nil {
			close(s.stop)
		}
		for _, f := range s.files {
			f.Close()
		}
	})
}

func (s *evdevSource) Events() <-chan chord.Event {
	return s.events
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		path := filepath.Join("/dev/input", e.Name())
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, path)
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
