package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/coachdoc/internal/transcript"
)

type FileInfo struct {
	Path   string
	Root   string
	Format transcript.Format
	Mtime  int64
	Size   int64
}

// ScanRoots walks every root and collects transcript exports. Files ending in
// skipSuffix (generated reviews) and Word lock files are ignored.
func ScanRoots(skipSuffix string, roots ...string) ([]FileInfo, error) {
	var files []FileInfo

	for _, root := range roots {
		if root == "" {
			continue
		}
		rf, err := scanRoot(root, skipSuffix)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		files = append(files, rf...)
	}

	return files, nil
}

func scanRoot(root, skipSuffix string) ([]FileInfo, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		base := filepath.Base(path)
		if info.IsDir() {
			if path != root && strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, "~$") {
			return nil
		}
		if skipSuffix != "" && strings.HasSuffix(strings.ToLower(base), strings.ToLower(skipSuffix)) {
			return nil
		}
		format, err := transcript.FormatForPath(path)
		if err != nil {
			return nil
		}
		files = append(files, FileInfo{
			Path:   path,
			Root:   root,
			Format: format,
			Mtime:  info.ModTime().Unix(),
			Size:   info.Size(),
		})
		return nil
	})
	return files, err
}
