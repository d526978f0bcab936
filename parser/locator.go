package parser

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// IsURL reports whether the locator is an http:// or https:// URL.
func IsURL(locator string) bool {
	if len(locator) < 7 {
		return false
	}
	l := strings.ToLower(locator[:min(len(locator), 8)])
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Canonical normalizes a locator so that equal documents share one cache key.
// File paths become absolute and cleaned; URLs get a lower-case scheme and
// host, a cleaned path, and no fragment.
func Canonical(locator string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("parser: empty locator")
	}
	if IsURL(locator) {
		u, err := url.Parse(locator)
		if err != nil {
			return "", fmt.Errorf("parser: invalid URL %q: %w", locator, err)
		}
		u.Scheme = strings.ToLower(u.Scheme)
		u.Host = strings.ToLower(u.Host)
		u.Fragment = ""
		u.RawFragment = ""
		if u.Path != "" {
			trailing := strings.HasSuffix(u.Path, "/")
			u.Path = path.Clean(u.Path)
			if trailing && u.Path != "/" {
				u.Path += "/"
			}
		}
		u.RawPath = ""
		return u.String(), nil
	}
	if strings.HasPrefix(locator, "mem://") {
		return locator, nil
	}
	abs, err := filepath.Abs(locator)
	if err != nil {
		return "", fmt.Errorf("parser: cannot resolve path %q: %w", locator, err)
	}
	return abs, nil
}

// SplitRef splits a $ref value into its document part and its fragment
// (JSON pointer). The fragment is returned without the leading "#".
func SplitRef(ref string) (doc, fragment string) {
	doc, fragment, _ = strings.Cut(ref, "#")
	return doc, fragment
}

// ResolveLocator resolves a possibly relative document locator against the
// locator of the referencing document. An empty ref returns base.
func ResolveLocator(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	if IsURL(ref) {
		return Canonical(ref)
	}
	if IsURL(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("parser: invalid base URL %q: %w", base, err)
		}
		r, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("parser: invalid reference %q: %w", ref, err)
		}
		return Canonical(b.ResolveReference(r).String())
	}
	if strings.HasPrefix(base, "mem://") {
		return "mem://" + path.Join(path.Dir(strings.TrimPrefix(base, "mem://")), ref), nil
	}
	if !filepath.IsAbs(ref) {
		ref = filepath.Join(filepath.Dir(base), filepath.FromSlash(ref))
	}
	return Canonical(ref)
}
