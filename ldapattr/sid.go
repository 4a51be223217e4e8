package ldapattr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/go-objectsid"
)

var errShortSID = errors.New("binary SID is truncated")

// SIDFromBytes renders a binary objectSid as S-R-A-S1-...-Sn.
func SIDFromBytes(b []byte) (string, error) {
	if len(b) < 8 {
		return "", errShortSID
	}
	if want := 8 + 4*int(b[1]); len(b) != want {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", errShortSID, want, len(b))
	}
	return objectsid.Decode(b).String(), nil
}

// normalizeSID accepts the binary form or an already rendered string.
func normalizeSID(raw []byte) (string, error) {
	if s := string(raw); strings.HasPrefix(strings.ToUpper(s), "S-1-") {
		return strings.ToUpper(s[:1]) + s[1:], nil
	}
	return SIDFromBytes(raw)
}
