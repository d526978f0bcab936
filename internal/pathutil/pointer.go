// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

package pathutil

import (
	"fmt"
	"net/url"
	"strings"
)

var (
	tokenEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	tokenUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// EscapeToken escapes a single reference token per RFC 6901.
func EscapeToken(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	return tokenEscaper.Replace(tok)
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(tok string) string {
	if !strings.Contains(tok, "~") {
		return tok
	}
	return tokenUnescaper.Replace(tok)
}

// JoinPointer builds a JSON pointer from unescaped tokens.
// No tokens yields "", the pointer to the whole document.
func JoinPointer(tokens ...string) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteByte('/')
		sb.WriteString(EscapeToken(tok))
	}
	return sb.String()
}

// SplitPointer splits a JSON pointer (or a URI fragment holding one) into
// unescaped tokens. Percent-encoding is decoded before "~" unescaping.
func SplitPointer(ptr string) ([]string, error) {
	ptr = strings.TrimPrefix(ptr, "#")
	if ptr == "" {
		return nil, nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("pathutil: invalid JSON pointer %q: must start with '/'", ptr)
	}
	parts := strings.Split(ptr[1:], "/")
	for i, p := range parts {
		if strings.Contains(p, "%") {
			dec, err := url.PathUnescape(p)
			if err != nil {
				return nil, fmt.Errorf("pathutil: invalid JSON pointer %q: %w", ptr, err)
			}
			p = dec
		}
		parts[i] = UnescapeToken(p)
	}
	return parts, nil
}

// LastToken returns the last unescaped token of a pointer, or "" for the root.
func LastToken(ptr string) string {
	i := strings.LastIndexByte(ptr, '/')
	if i < 0 {
		return ""
	}
	tok := ptr[i+1:]
	if dec, err := url.PathUnescape(tok); err == nil {
		tok = dec
	}
	return UnescapeToken(tok)
}
