package decode

import "strings"

// Suffixes stripped from source keys, in trim order.
var keySuffixes = []string{".tsdb", ".gz", ".zip"}

// DestinationKey derives the output key for a source key by trimming
// known artifact suffixes. Trimming repeats until the key is stable, so
// chained suffixes reduce fully ("chunk-001.tsdb.gz" becomes
// "chunk-001"). Path segments and mid-key occurrences are untouched; a
// key with no matching suffix passes through unchanged.
func DestinationKey(key string) string {
	for {
		trimmed := key
		for _, suffix := range keySuffixes {
			trimmed = strings.TrimSuffix(trimmed, suffix)
		}
		if trimmed == key {
			return key
		}
		key = trimmed
	}
}
