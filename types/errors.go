package types

import "errors"

// The error taxonomy of spec §7. Every package wraps one of these
// sentinels with fmt.Errorf("...: %w", ...) so callers can errors.Is
// against a stable kind instead of parsing strings.
var (
	// ErrTransactionAborted is raised when a lock wait exceeds the
	// deadline, or when a caller explicitly aborts.
	ErrTransactionAborted = errors.New("TRANSACTION_ABORTED")

	// ErrDBError is the generic DB_ERROR kind. No code path in this
	// module returns it: a cache full of dirty pages raises ErrCacheFull
	// and an unsupported aggregate raises ErrInvalidAgg.
	ErrDBError = errors.New("DB_ERROR")

	// ErrNoSuchElement covers schema lookups that fail and iterator
	// misuse (Next after exhaustion, a heap file iterator used before
	// Open).
	ErrNoSuchElement = errors.New("NO_SUCH_ELEMENT")

	// ErrIO wraps a disk read/write failure. Operators pass it up
	// unchanged; it is not rewrapped as ErrDBError.
	ErrIO = errors.New("IO_ERROR")

	// ErrSchemaMismatch is raised by HeapPage.InsertTuple and the Insert
	// operator when a tuple's schema doesn't match the target.
	ErrSchemaMismatch = errors.New("SCHEMA_MISMATCH")

	// ErrNoSpace is raised by HeapPage.InsertTuple when every slot is
	// occupied. HeapFile handles it locally by trying the next page.
	ErrNoSpace = errors.New("NO_SPACE")

	// ErrCacheFull is raised by the BufferPool when every cached page is
	// dirty and none can be evicted (NO-STEAL).
	ErrCacheFull = errors.New("CACHE_FULL")

	// ErrNotOnPage is raised by HeapPage.DeleteTuple when the tuple's
	// RecordID doesn't name a live slot on this page.
	ErrNotOnPage = errors.New("NOT_ON_PAGE")

	// ErrPageOutOfRange is raised by HeapFile.ReadPage when the
	// requested offset falls beyond the file's current length.
	ErrPageOutOfRange = errors.New("PAGE_OUT_OF_RANGE")

	// ErrInvalidAgg is raised when an aggregate op is unsupported for a
	// field's type (e.g. MIN on a STRING field, or the reserved
	// SC_AVG/SUM_COUNT ops).
	ErrInvalidAgg = errors.New("INVALID_AGG")
)
