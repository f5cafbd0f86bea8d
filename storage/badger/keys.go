package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/marginalia/core"
)

// Key prefixes for different data types
const (
	fragmentPrefix     = "frarec"
	fragmentDatePrefix = "frarecd"
	fragmentIDSeq      = "frarecseq"
)

// makeFragmentKey generates a key for a fragment by ID.
func makeFragmentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", fragmentPrefix, id))
}

// makeFragmentDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeFragmentDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := fragmentDatePrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialFragmentDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialFragmentDateKey(timestamp time.Time) []byte {
	prefix := fragmentDatePrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}
