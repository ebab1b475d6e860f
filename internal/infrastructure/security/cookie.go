package security

import "strings"

// Cookie sanitation is the single cleaning point for untrusted extension
// input. Everything downstream (storage, probe request headers) assumes its
// input already passed through here.

// ValidCookieFormat reports whether a captured (name, value) pair is
// acceptable at all: the name must be an RFC 6265 token, and the value must
// be non-empty, within bounds, and free of control bytes (NUL and newline
// included). Values that pass may still carry bytes illegal in a Cookie
// header; SanitizeCookieValue strips those.
func ValidCookieFormat(name, value string, maxNameLen, maxValueLen int) bool {
	if name == "" || len(name) > maxNameLen {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isCookieNameByte(name[i]) {
			return false
		}
	}
	if value == "" || len(value) > maxValueLen {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] == 0x7f {
			return false
		}
	}
	return true
}

// SanitizeCookieValue strips every byte that cannot travel in a Cookie
// header: control bytes, whitespace, double quote, comma, semicolon, and
// backslash. It never fails and is idempotent: sanitizing an already-clean
// value returns it unchanged.
func SanitizeCookieValue(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if isCookieValueByte(value[i]) {
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

func isCookieNameByte(c byte) bool {
	if c <= 0x20 || c >= 0x7f {
		return false
	}
	switch c {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=', '{', '}':
		return false
	}
	return true
}

func isCookieValueByte(c byte) bool {
	if c <= 0x20 || c >= 0x7f {
		return false
	}
	switch c {
	case '"', ',', ';', '\\':
		return false
	}
	return true
}
