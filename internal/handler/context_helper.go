package handler

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/penilaian-api/internal/middleware"
	"github.com/sekolahku/penilaian-api/internal/models"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
)

// bindError maps a gin binding failure onto the validation error type,
// naming the first offending field when the payload parsed but broke a
// validation rule.
func bindError(err error) error {
	message := "payload tidak valid"
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		message = fmt.Sprintf("payload tidak valid: field %s gagal aturan %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func queryIntPtr(c *gin.Context, key string) *int {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

// readUploadedFile pulls the "file" form field, bounded by maxBytes.
func readUploadedFile(c *gin.Context, maxBytes int64) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file Excel harus diupload")
	}
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ukuran file melebihi batas maksimum")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "file tidak dapat dibaca")
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "file tidak dapat dibaca")
	}
	return payload, nil
}
