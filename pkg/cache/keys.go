package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// Key joins parts with ':' in the usual namespaced layout, e.g.
// Key("quotes", "csv", "EURUSD", "daily") = "quotes:csv:EURUSD:daily".
func Key(parts ...interface{}) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ":")
}

// FileName maps a key onto a portable file name. Characters outside
// [A-Za-z0-9._-] become '_' and a short digest keeps distinct keys apart.
func FileName(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
	sum := sha1.Sum([]byte(key))
	return safe + "-" + hex.EncodeToString(sum[:4])
}
