package input

import (
	"context"
	"os"

	"golang.org/x/term"

	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/core/ports"
)

var sectionKeys = map[byte]domain.DashboardSection{
	'1': domain.SectionHub,
	'2': domain.SectionIdentity,
	'3': domain.SectionCompute,
	'4': domain.SectionStorage,
	'5': domain.SectionDelivery,
	'6': domain.SectionLogs,
}

// KeyReader turns single keypresses on stdin into UI events. When stdin is
// a terminal it switches to raw mode for the lifetime of the event stream;
// otherwise it still reads bytes so piped input works in tests.
type KeyReader struct {
	in     *os.File
	logger ports.Logger
}

func NewKeyReader(logger ports.Logger) *KeyReader {
	return &KeyReader{in: os.Stdin, logger: logger}
}

func (k *KeyReader) Events(ctx context.Context) <-chan ports.UIEvent {
	events := make(chan ports.UIEvent)

	go func() {
		defer close(events)

		fd := int(k.in.Fd())
		var restore func()
		if term.IsTerminal(fd) {
			oldState, err := term.MakeRaw(fd)
			if err != nil {
				k.logger.Warnf(ctx, "Could not switch terminal to raw mode: %v", err)
			} else {
				restore = func() { _ = term.Restore(fd, oldState) }
			}
		}
		if restore != nil {
			defer restore()
		}

		buf := make([]byte, 1)
		for {
			n, err := k.in.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}

			event, ok := translate(buf[0])
			if !ok {
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
			if event.Kind == ports.EventQuit {
				return
			}
		}
	}()

	return events
}

func translate(b byte) (ports.UIEvent, bool) {
	switch b {
	case 'q', 'Q', 3: // 3 is Ctrl-C in raw mode
		return ports.UIEvent{Kind: ports.EventQuit}, true
	case 'r', 'R':
		return ports.UIEvent{Kind: ports.EventForceRefresh}, true
	case 'e', 'E':
		return ports.UIEvent{Kind: ports.EventExportCSV}, true
	case 'y', 'Y':
		return ports.UIEvent{Kind: ports.EventCopyClipboard}, true
	}
	if section, ok := sectionKeys[b]; ok {
		return ports.UIEvent{Kind: ports.EventSwitchSection, Section: section}, true
	}
	return ports.UIEvent{}, false
}
