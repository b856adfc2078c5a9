package service

import (
	"fmt"
	"path"
	"strings"
)

// Attachment is the display-ready view of one design-file reference. It is
// derived and ephemeral: recomputed from the order payload on each view,
// never persisted in this shape.
type Attachment struct {
	URL       string `json:"url"`
	Filename  string `json:"filename"`
	IsImage   bool   `json:"isImage"`
	Location  string `json:"location,omitempty"`
	SizeLabel string `json:"sizeLabel,omitempty"`
}

// RawAttachment is the heterogeneous upload shape found in order payloads:
// sometimes a plain URL string, sometimes a data URL, sometimes an object.
type RawAttachment struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Mime     string `json:"mime"`
	Size     int64  `json:"size"`
	Location string `json:"location"`
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".bmp": true, ".svg": true,
}

// NormalizeAttachmentString converts a plain URL or data URL into an
// Attachment.
func NormalizeAttachmentString(raw string) Attachment {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "data:") {
		mime := ""
		if semi := strings.Index(raw, ";"); semi > 5 {
			mime = raw[5:semi]
		}
		return Attachment{
			URL:      raw,
			Filename: "embedded-design",
			IsImage:  strings.HasPrefix(mime, "image/"),
		}
	}

	name := path.Base(strings.SplitN(raw, "?", 2)[0])
	if name == "." || name == "/" {
		name = "attachment"
	}
	return Attachment{
		URL:      raw,
		Filename: name,
		IsImage:  imageExtensions[strings.ToLower(path.Ext(name))],
	}
}

// NormalizeAttachment converts the object form into an Attachment.
func NormalizeAttachment(raw RawAttachment) Attachment {
	att := NormalizeAttachmentString(raw.URL)
	if raw.Filename != "" {
		att.Filename = raw.Filename
	}
	if raw.Mime != "" {
		att.IsImage = strings.HasPrefix(raw.Mime, "image/")
	}
	att.Location = raw.Location
	if raw.Size > 0 {
		att.SizeLabel = formatSize(raw.Size)
	}
	return att
}

// NormalizeAttachments converts a mixed list of upload references.
func NormalizeAttachments(raws []RawAttachment) []Attachment {
	out := make([]Attachment, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeAttachment(raw))
	}
	return out
}

func formatSize(bytes int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
