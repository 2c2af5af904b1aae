package entity

import (
	"fmt"
	"strings"
)

// KeyKind is the namespace of a status key.
type KeyKind string

const (
	// KeyKindService holds host and service entries.
	KeyKindService KeyKind = "service"
	// KeyKindQueue holds queue entries.
	KeyKindQueue KeyKind = "queue"
)

// StatusKey renders "{kind}:{name}:{status}". The status is part of the key, so
// a status flip writes a new key and leaves the previous one in place.
func StatusKey(kind KeyKind, name string, status Status) string {
	return fmt.Sprintf("%s:%s:%s", kind, name, status)
}

// KeyPattern matches every key of kind.
func KeyPattern(kind KeyKind) string {
	return string(kind) + ":*"
}

// ParseStatusKey splits a status key. The name may itself contain colons; the
// kind is the first segment and the status the last.
func ParseStatusKey(key string) (KeyKind, string, Status, error) {
	first := strings.Index(key, ":")
	last := strings.LastIndex(key, ":")
	if first < 0 || first == last {
		return "", "", "", fmt.Errorf("malformed status key %q", key)
	}

	status, err := ParseStatus(key[last+1:])
	if err != nil {
		return "", "", "", err
	}
	return KeyKind(key[:first]), key[first+1 : last], status, nil
}
