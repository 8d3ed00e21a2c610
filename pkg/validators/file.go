// Package validators checks client supplied inputs before they reach
// the catalog.
package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
	ErrNoFile              = errors.New("no file provided")
)

// Leaves room for the thumb_/preview_/selection_ prefixes that artifact
// names prepend to the base name.
const maxFileNameSize = 220

// FileValidator admits an upload only if both the declared headers and
// the sniffed content identify it as video. Returns the HTTP status to
// respond with on failure, and the opened file rewound to the start on
// success.
func FileValidator(fh *multipart.FileHeader) (int, multipart.File, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, ErrNoFile
	}

	if code, err := checkHeader(fh); err != nil {
		return code, nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}

	// Headers are client supplied, the sniff is what actually counts
	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	if !strings.HasPrefix(mime.String(), "video/") {
		f.Close()
		return http.StatusBadRequest, nil, ErrFileTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	return 0, f, nil
}

// checkHeader runs the cheap declared-metadata checks before the file
// is ever opened.
func checkHeader(fh *multipart.FileHeader) (int, error) {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "video/") {
		return http.StatusBadRequest, ErrFileTypeUnsupported
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, ErrFileNameTooLong
	}

	if fh.Size > viper.GetInt64("upload.max_size") {
		return http.StatusRequestEntityTooLarge, ErrFileTooLarge
	}

	return 0, nil
}
