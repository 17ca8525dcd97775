package handler

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/cuongbtq/job-board/internal/api/domain"
)

func init() {
	// Report request fields by their wire names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(wireName)
	}
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// bindingError converts validator failures into a ValidationError naming the
// offending fields. Other bind failures (malformed body) return nil.
func bindingError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	fields := make([]string, 0, len(fieldErrs))
	onlyMissing := true
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		if fe.Tag() != "required" {
			onlyMissing = false
		}
	}
	if onlyMissing {
		return domain.NewMissingFieldsError(fields...)
	}
	return &domain.ValidationError{Fields: fields, Reason: "missing or invalid fields"}
}

// respondBindError answers a failed ShouldBind with 400
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Invalid request body",
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	if vErr := bindingError(err); vErr != nil {
		respondError(c, logger, vErr, "Invalid request body")
		return
	}
	badRequest(c, "Invalid request body")
}
