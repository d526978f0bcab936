package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceFormat is the serialization format of a document.
type SourceFormat string

const (
	// SourceFormatYAML indicates YAML content
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates JSON content
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseFormat converts an output extension ("json", "yaml", "yml") into a format.
func ParseFormat(ext string) (SourceFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "json":
		return SourceFormatJSON, nil
	case "yaml", "yml":
		return SourceFormatYAML, nil
	}
	return SourceFormatUnknown, fmt.Errorf("parser: unsupported format %q (expected json, yaml, or yml)", ext)
}

// FormatBytes formats a byte count into a human-readable string using binary units (KiB, MiB, etc.)
func FormatBytes(size int64) string {
	if size < 0 {
		return fmt.Sprintf("%d B", size)
	}

	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit && exp < 5; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

// DetectFormat determines the format of fetched content from the locator's
// extension, then the Content-Type header, then the content itself.
func DetectFormat(locator, contentType string, data []byte) SourceFormat {
	p := locator
	if IsURL(locator) {
		if u, err := url.Parse(locator); err == nil {
			p = u.Path
		}
	}
	if f := detectFormatFromPath(p); f != SourceFormatUnknown {
		return f
	}
	if f := detectFormatFromContentType(contentType); f != SourceFormatUnknown {
		return f
	}
	return detectFormatFromContent(data)
}

// detectFormatFromPath detects the source format from a file path
func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

func detectFormatFromContentType(contentType string) SourceFormat {
	if contentType == "" {
		return SourceFormatUnknown
	}
	contentType = strings.ToLower(contentType)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	switch strings.TrimSpace(contentType) {
	case "application/json":
		return SourceFormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}

// detectFormatFromContent attempts to detect the format from the content bytes.
// JSON typically starts with '{' or '[', while YAML does not.
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}
