// Package txnlog is the external LogFile collaborator described in spec
// §6: it accepts (txn, beforeImage, afterImage) records from the
// BufferPool before each commit flush. Crash recovery / replay is out of
// scope; this only durably records the write-ahead hook.
package txnlog

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shubhamnegi/simpledb/types"
)

// LogFile is the contract BufferPool writes through on commit.
type LogFile interface {
	LogWrite(tid types.TxID, beforeImage, afterImage []byte) error
	Close() error
}

// FileLogFile appends records to a single append-only file. Each record
// is: 8-byte big-endian tid, 4-byte length-prefixed beforeImage, 4-byte
// length-prefixed afterImage.
type FileLogFile struct {
	mu   sync.Mutex
	file *os.File
}

// Open opens (creating if absent) the log file at path for append-only
// writes.
func Open(path string) (*FileLogFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: creating log dir for %s: %v", types.ErrIO, path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening log file %s: %v", types.ErrIO, path, err)
	}
	return &FileLogFile{file: f}, nil
}

// LogWrite appends one commit record and fsyncs it. No fsync means the
// record sits in the OS buffer only; this engine calls Sync inline on
// every write rather than batching, since crash recovery is out of scope
// and batched fsyncs would need exactly the recovery machinery this
// package doesn't implement.
func (l *FileLogFile) LogWrite(tid types.TxID, beforeImage, afterImage []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	buf := make([]byte, 0, 8+4+len(beforeImage)+4+len(afterImage))
	var tidBytes [8]byte
	binary.BigEndian.PutUint64(tidBytes[:], uint64(tid))
	buf = append(buf, tidBytes[:]...)
	buf = appendLenPrefixed(buf, beforeImage)
	buf = appendLenPrefixed(buf, afterImage)

	if _, err := l.file.Write(buf); err != nil {
		return fmt.Errorf("%w: appending log record for %s: %v", types.ErrIO, tid, err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("%w: syncing log file: %v", types.ErrIO, err)
	}
	return nil
}

func appendLenPrefixed(buf, data []byte) []byte {
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(data)))
	buf = append(buf, lenBytes[:]...)
	return append(buf, data...)
}

func (l *FileLogFile) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// NopLogFile discards every record. The tests use it; the CLI always
// writes through a FileLogFile opened by dbcontext.New.
type NopLogFile struct{}

func (NopLogFile) LogWrite(types.TxID, []byte, []byte) error { return nil }
func (NopLogFile) Close() error                              { return nil }
