package ticket

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
)

const (
	multipartMemory = 32 << 20
	// formOverhead covers the text fields and part headers of a submission.
	formOverhead = 1 << 20
)

// UploadLimits bound what the handler reads from a multipart body.
type UploadLimits struct {
	MaxFiles     int
	MaxFileBytes int64
}

func (l UploadLimits) maxBody() int64 {
	return int64(l.MaxFiles+1)*(l.MaxFileBytes+1) + formOverhead
}

// readImageFiles parses the multipart body and loads every "files" part.
// Oversized parts are read one byte past the limit so the use case rejects them.
func readImageFiles(c *gin.Context, limits UploadLimits) ([]usecases.ImageFile, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limits.maxBody())

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.NewValidationError("request body too large")
		}
		return nil, errors.NewValidationError("invalid multipart form", err.Error())
	}

	var headers []*multipart.FileHeader
	headers = append(headers, form.File["files"]...)
	headers = append(headers, form.File["files[]"]...)
	if len(headers) > limits.MaxFiles {
		return nil, errors.NewValidationError(fmt.Sprintf("at most %d images may be uploaded at once", limits.MaxFiles))
	}

	files := make([]usecases.ImageFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh, limits.MaxFileBytes+1)
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("failed to read file %q", fh.Filename), err.Error())
		}
		files = append(files, usecases.ImageFile{Name: fh.Filename, Data: data})
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}
