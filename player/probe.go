// ABOUTME: Media file inspection for display in the marker UI
// ABOUTME: Reads container tags where present and falls back to the file name

package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// MediaInfo describes a video file
type MediaInfo struct {
	Path     string
	Title    string // Tag title, or the file name without extension
	Artist   string
	Format   string // Tag format (e.g. MP4), empty when untagged
	FileType string // Detected file type (e.g. MP4, M4V)
	Size     int64
	Tagged   bool
}

// Probe stats path and reads any metadata tags it carries.
// Files without readable tags are not an error.
func Probe(path string) (MediaInfo, error) {
	info := MediaInfo{
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	f, err := os.Open(path)
	if err != nil {
		return info, fmt.Errorf("failed to open video: %w", err)
	}

	defer func() {
		_ = f.Close() // Read-only
	}()

	stat, err := f.Stat()
	if err != nil {
		return info, fmt.Errorf("failed to stat video: %w", err)
	}

	if stat.IsDir() {
		return info, fmt.Errorf("%s is a directory", path)
	}

	info.Size = stat.Size()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// Untagged files and unsupported containers keep the file-name title
		return info, nil //nolint:nilerr // missing tags are expected for video
	}

	info.Tagged = true
	info.Format = string(m.Format())
	info.FileType = string(m.FileType())
	info.Artist = strings.TrimSpace(m.Artist())

	if title := strings.TrimSpace(m.Title()); title != "" {
		info.Title = title
	}

	return info, nil
}

// DisplayName returns the title with the file type when known
func (mi MediaInfo) DisplayName() string {
	if mi.FileType != "" {
		return fmt.Sprintf("%s [%s]", mi.Title, mi.FileType)
	}

	return mi.Title
}
