package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"pay2u/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestValidator plugs validator/v10 into echo's c.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

// bindAndValidate decodes the request into req and runs its validate tags. On
// failure the 400 response has already been written and handled is true.
func bindAndValidate(c echo.Context, req interface{}) (handled bool, err error) {
	if err := c.Bind(req); err != nil {
		return true, common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return true, sendValidationErrors(c, err)
	}
	return false, nil
}

func sendValidationErrors(c echo.Context, err error) error {
	details := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = "failed on the '" + fe.Tag() + "' rule"
		}
	} else {
		details["body"] = err.Error()
	}
	return c.JSON(http.StatusBadRequest, common.CreateErrorResponse(string(common.KindInvalidInput), "Validation failed", details))
}

// paramUUID parses a path parameter, writing the 400 response on failure.
func paramUUID(c echo.Context, name string) (uuid.UUID, bool, error) {
	id, err := common.ValidateUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, false, common.SendValidationError(c, name, common.MessageOf(err))
	}
	return id, true, nil
}
