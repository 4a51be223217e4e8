package ldapattr

import (
	"fmt"

	"github.com/google/uuid"
)

const guidBytesLength = 16

// GUIDFromBytes converts an Active Directory objectGUID to its canonical
// string form. AD stores the first three groups little-endian and the last
// eight bytes in order.
func GUIDFromBytes(b []byte) (string, error) {
	if len(b) != guidBytesLength {
		return "", fmt.Errorf("invalid GUID byte length: expected %d, got %d", guidBytesLength, len(b))
	}
	var std [guidBytesLength]byte
	std[0], std[1], std[2], std[3] = b[3], b[2], b[1], b[0]
	std[4], std[5] = b[5], b[4]
	std[6], std[7] = b[7], b[6]
	copy(std[8:], b[8:])

	id, err := uuid.FromBytes(std[:])
	if err != nil {
		return "", fmt.Errorf("decode GUID: %w", err)
	}
	return id.String(), nil
}

// GUIDToBytes is the inverse of GUIDFromBytes.
func GUIDToBytes(guid string) ([]byte, error) {
	id, err := uuid.Parse(guid)
	if err != nil {
		return nil, fmt.Errorf("parse GUID: %w", err)
	}
	b := make([]byte, guidBytesLength)
	b[0], b[1], b[2], b[3] = id[3], id[2], id[1], id[0]
	b[4], b[5] = id[5], id[4]
	b[6], b[7] = id[7], id[6]
	copy(b[8:], id[8:])
	return b, nil
}

// normalizeGUID accepts either the raw 16 byte form or a textual UUID.
func normalizeGUID(raw []byte) (string, error) {
	if len(raw) == guidBytesLength {
		return GUIDFromBytes(raw)
	}
	id, err := uuid.ParseBytes(raw)
	if err != nil {
		return "", fmt.Errorf("parse GUID: %w", err)
	}
	return id.String(), nil
}
