package handler

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/synco-dev/booking-admin-api/internal/middleware"
	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
	"github.com/synco-dev/booking-admin-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.AdminClaims {
	value, exists := c.Get(middleware.ContextAdminKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.AdminClaims)
	if !ok {
		return nil
	}
	return claims
}

// pathID parses the named path parameter as an int64 ID. On failure it writes
// the validation response and reports false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}

// readUpload pulls the named multipart file into memory. A missing file is
// not an error; the caller decides whether it was required.
func readUpload(c *gin.Context, field string) (string, []byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil, nil
	}
	data, err := readFileHeader(fileHeader)
	if err != nil {
		return "", nil, err
	}
	return fileHeader.Filename, data, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close() //nolint:errcheck
	return io.ReadAll(file)
}
