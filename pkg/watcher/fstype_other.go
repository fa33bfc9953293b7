//go:build !linux

package watcher

// DetectFilesystemType is not implemented on this platform.
func DetectFilesystemType(path string) FilesystemType {
	return FSTypeUnknown
}
