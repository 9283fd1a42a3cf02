package checksum

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// SourceIdentity fingerprints a data source by path, modification time and size.
// Two loads of an unchanged file return the same identity.
func SourceIdentity(path string, modTime time.Time, size int64) string {
	return CalculateHash([]string{
		path,
		strconv.FormatInt(modTime.UnixNano(), 10),
		strconv.FormatInt(size, 10),
	})
}

// CalculateHash hashes the joined fields of a record.
func CalculateHash(record []string) string {
	digest := xxhash.New()
	digest.WriteString(strings.Join(record, "\x1f"))

	return hex.EncodeToString(digest.Sum(nil))
}

// Bytes returns the hex xxhash digest of b.
func Bytes(b []byte) string {
	digest := xxhash.New()
	digest.Write(b)

	return hex.EncodeToString(digest.Sum(nil))
}
