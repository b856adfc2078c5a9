package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAttachmentStringPlainURL(t *testing.T) {
	att := NormalizeAttachmentString("https://cdn.khawam.pro/uploads/design-final.PNG?sig=abc")

	assert.Equal(t, "design-final.PNG", att.Filename)
	assert.True(t, att.IsImage)
	assert.Empty(t, att.SizeLabel)
}

func TestNormalizeAttachmentStringDataURL(t *testing.T) {
	att := NormalizeAttachmentString("data:image/png;base64,iVBORw0KGgo=")
	assert.True(t, att.IsImage)
	assert.Equal(t, "embedded-design", att.Filename)

	pdf := NormalizeAttachmentString("data:application/pdf;base64,JVBERi0=")
	assert.False(t, pdf.IsImage)
}

func TestNormalizeAttachmentObjectForm(t *testing.T) {
	att := NormalizeAttachment(RawAttachment{
		URL:      "https://cdn.khawam.pro/uploads/file-9f2",
		Filename: "poster.ai",
		Mime:     "application/postscript",
		Size:     2 << 20,
		Location: "uploads/2026/08",
	})

	assert.Equal(t, "poster.ai", att.Filename)
	assert.False(t, att.IsImage)
	assert.Equal(t, "uploads/2026/08", att.Location)
	assert.Equal(t, "2.0 MB", att.SizeLabel)
}

func TestNormalizeAttachmentMimeOverridesExtension(t *testing.T) {
	att := NormalizeAttachment(RawAttachment{
		URL:  "https://cdn.khawam.pro/uploads/scan.pdf",
		Mime: "image/jpeg",
	})
	assert.True(t, att.IsImage)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KB", formatSize(1536))
	assert.Equal(t, "3.0 MB", formatSize(3<<20))
}
