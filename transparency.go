package sourceafis

import (
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// TransparencyContents receives the matcher's intermediate data.
type TransparencyContents interface {
	// Accepts reports whether data for key should be produced at all.
	Accepts(key string) bool
	// Accept receives serialized data for key.
	Accept(key, mime string, data []byte) error
}

// TransparencyMime is the mime type of every transparency payload.
const TransparencyMime = "application/cbor"

// TransparencyLogger serializes intermediate matcher data as CBOR and hands
// it to TransparencyContents. Calls into the contents are serialized, so a
// logger may be shared by matchers running in parallel. A nil logger
// accepts nothing.
type TransparencyLogger struct {
	contents TransparencyContents

	mu  sync.Mutex
	err error
}

func NewTransparencyLogger(contents TransparencyContents) *TransparencyLogger {
	return &TransparencyLogger{contents: contents}
}

func (l *TransparencyLogger) Accepts(key string) bool {
	if l == nil || l.contents == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.contents.Accepts(key)
}

// Log encodes value and passes it on. The first failure is kept, see Err.
func (l *TransparencyLogger) Log(key string, value any) {
	if l == nil || l.contents == nil {
		return
	}
	data, err := cbor.Marshal(value)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		err = l.contents.Accept(key, TransparencyMime, data)
	}
	if err != nil && l.err == nil {
		l.err = err
	}
}

// Err returns the first encoding or contents error.
func (l *TransparencyLogger) Err() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
