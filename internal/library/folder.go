package library

import (
	"os"
	"path/filepath"
)

// ResolveAlbumFolder finds the subdirectory of artistFolder holding albumName using the default folder threshold.
func ResolveAlbumFolder(artistFolder, artistName, albumName string) (string, bool) {
	return resolveAlbumFolder(artistFolder, artistName, albumName, DefaultThresholds().Folder)
}

// ResolveAlbumFolder finds the subdirectory of artistFolder holding albumName.
//
// A subdirectory c qualifies when it is named "<artist> - <album>" or "<album>", or when either
// form is more similar than the folder threshold. Candidates are tried in directory-listing order
// and the first qualifying one wins.
func (m *Matcher) ResolveAlbumFolder(artistFolder, artistName, albumName string) (string, bool) {
	return resolveAlbumFolder(artistFolder, artistName, albumName, m.thresholds.Folder)
}

func resolveAlbumFolder(artistFolder, artistName, albumName string, minRatio float64) (string, bool) {
	entries, err := readDir(artistFolder)
	if err != nil {
		return "", false
	}

	combined := artistName + " - " + albumName
	for _, e := range entries {
		if !isDir(artistFolder, e) {
			continue
		}

		c := e.Name()
		if c == combined || c == albumName ||
			Similarity(artistName+" - "+c, combined) > minRatio ||
			Similarity(c, albumName) > minRatio {
			return filepath.Join(artistFolder, c), true
		}
	}
	return "", false
}

// readDir lists dir in the order the filesystem returns entries.
//
// [os.ReadDir] sorts by name; the listing order is kept here so the first qualifying entry wins.
func readDir(dir string) ([]os.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.ReadDir(-1)
}

// isDir reports whether e is a directory, following symlinks.
func isDir(parent string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}

// isFile reports whether e is a regular file, following symlinks.
func isFile(parent string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.Mode().IsRegular()
}

// dirExists reports whether path names a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
