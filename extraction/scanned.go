package extraction

import "strings"

// ScannedTextMax is the trimmed text length below which a page that carries
// images is classified as scanned. It absorbs stray artifacts like page
// numbers and watermarks without flagging real text pages.
const ScannedTextMax = 20

// IsScannedPage reports whether a page looks like a scanned or rasterized
// image rather than a text page: at least one embedded image and almost no
// extractable text. A scanned page with an embedded OCR text layer is not
// flagged; a page with no images never is, whatever its text.
func IsScannedPage(imageCount int, text string) bool {
	return imageCount > 0 && len(strings.TrimSpace(text)) < ScannedTextMax
}
