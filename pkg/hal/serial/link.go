package serial

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	bugst "go.bug.st/serial"

	"github.com/robotalks/blink.go/pkg/hal"
)

// Link is a full duplex line link over a byte stream.
type Link struct {
	*LineReader
	Writer io.Writer

	lock sync.Mutex
}

// NewLink creates a Link reading from and writing to rw.
func NewLink(rw io.ReadWriter) *Link {
	return &Link{LineReader: NewLineReader(rw), Writer: rw}
}

// NewStdioLink creates a Link over stdin/stdout.
func NewStdioLink() *Link {
	return &Link{LineReader: NewLineReader(os.Stdin), Writer: os.Stdout}
}

// WithEcho echoes typed bytes back to the writer.
func (l *Link) WithEcho() *Link {
	l.Echo = writerFunc(l.write)
	return l
}

// SendLine implements hal.LineWriter.
func (l *Link) SendLine(text string) error {
	_, err := l.write([]byte(text + hal.LineTerminator))
	return err
}

func (l *Link) write(p []byte) (int, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.Writer.Write(p)
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}

// PortConfig describes a UART.
type PortConfig struct {
	Name     string
	BaudRate int
	// ReadTimeout lets the read loop notice Close; 0 blocks forever.
	ReadTimeout time.Duration
}

// DefaultBaudRate matches the lab board UART setup.
const DefaultBaudRate = 115200

// OpenPort opens a UART as an echoing Link.
func OpenPort(conf PortConfig) (*Link, error) {
	if conf.BaudRate == 0 {
		conf.BaudRate = DefaultBaudRate
	}
	port, err := bugst.Open(conf.Name, &bugst.Mode{BaudRate: conf.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial port %q error: %v", conf.Name, err)
	}
	if conf.ReadTimeout > 0 {
		if err = port.SetReadTimeout(conf.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("serial port %q read timeout error: %v", conf.Name, err)
		}
	}
	return NewLink(port).WithEcho(), nil
}
