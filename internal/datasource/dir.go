package datasource

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// DirSource serves documents from a directory on disk.
//
// Missing files map to 404, unreadable files to 403 and invalid paths to
// 400, so callers see the same status semantics as over HTTP.
type DirSource struct {
	root string
	fsys fs.FS
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir, fsys: os.DirFS(dir)}
}

// Type implements Source.
func (s *DirSource) Type() SourceType { return SourceTypeDir }

// Location implements Source.
func (s *DirSource) Location() string { return s.root }

// URL returns a file:// URL for a relative document path.
func (s *DirSource) URL(p string, query url.Values) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(filepath.Join(s.root, filepath.FromSlash(p))),
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Get implements Source.
func (s *DirSource) Get(ctx context.Context, p string, query url.Values) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &Response{URL: s.URL(p, query)}
	clean := path.Clean(p)
	if !fs.ValidPath(clean) {
		resp.Status = http.StatusBadRequest
		return resp, nil
	}

	f, err := s.fsys.Open(clean)
	if err != nil {
		resp.Status = statusFor(err)
		return resp, nil
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		resp.Status = http.StatusNotFound
		return resp, nil
	}

	body, err := readBody(f)
	if err != nil {
		resp.Status = statusFor(err)
		return resp, nil
	}
	resp.Status = http.StatusOK
	resp.Body = body
	return resp, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, fs.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
