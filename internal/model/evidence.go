package model

import "strings"

// DocumentMetadata describes an uploaded supporting document. Only metadata
// is available; file contents are never inspected.
type DocumentMetadata struct {
	Name string `json:"name"`           // Original file name
	Type string `json:"type,omitempty"` // MIME type reported by the uploader
	Size int64  `json:"size"`           // Size in bytes
}

// Extension returns the lower-cased file extension without the dot
func (d DocumentMetadata) Extension() string {
	idx := strings.LastIndex(d.Name, ".")
	if idx < 0 || idx == len(d.Name)-1 {
		return ""
	}
	return strings.ToLower(d.Name[idx+1:])
}
