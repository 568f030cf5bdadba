package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DownloadName builds a timestamped attachment name such as
// "products-20250314-092653.csv" from a requested file name.
func DownloadName(fileName string, at time.Time) string {
	clean := filepath.Base(fileName)
	ext := strings.ToLower(filepath.Ext(clean))
	base := strings.TrimSuffix(clean, filepath.Ext(clean))
	return fmt.Sprintf("%s-%s%s", base, at.UTC().Format("20060102-150405"), ext)
}

// ContentDisposition returns an attachment header value for fileName.
func ContentDisposition(fileName string) string {
	return fmt.Sprintf("attachment; filename=%q", filepath.Base(fileName))
}
