package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Behyna/transaction-ledger/internal/api/contract"
	"github.com/Behyna/transaction-ledger/internal/constants"
	"github.com/Behyna/transaction-ledger/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	sep = " and "
)

type Error struct {
	Error       bool
	FailedField string
	Tag         string
	Param       string
	Value       interface{}
}

type IXValidator interface {
	// Validator parses the request body into data and validates it. On failure it
	// sets a 400 status and returns a response with a non-empty Code.
	Validator(data any, c *fiber.Ctx) (responseErr contract.Response)
	Validate(data interface{}) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validate *validator.Validate, metrics *metrics.Metrics) IXValidator {
	for key, function := range valid {
		// tags are fixed and non-empty, registration cannot fail
		_ = validate.RegisterValidation(key, function)
	}

	validate.RegisterTagNameFunc(jsonFieldName)

	return &XValidator{
		validator: validate,
		metrics:   metrics,
	}
}

func (x XValidator) Validator(data any, c *fiber.Ctx) (responseErr contract.Response) {
	start := time.Now()

	if err := c.BodyParser(data); err != nil {
		if x.metrics != nil {
			x.metrics.RecordValidationError("body", "parse")
		}
		c.Status(fiber.StatusBadRequest)

		return contract.Response{
			Code:    constants.ErrCodeInvalidRequestBody,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
		}
	}

	if errs := x.Validate(data); len(errs) > 0 && errs[0].Error {
		errMsgs := make([]string, 0, len(errs))
		fields := make([]contract.FieldError, 0, len(errs))
		for _, err := range errs {
			msg := fieldMessage(err)
			errMsgs = append(errMsgs, msg)
			fields = append(fields, contract.FieldError{Field: err.FailedField, Tag: err.Tag, Message: msg})

			if x.metrics != nil {
				x.metrics.RecordValidationError(err.FailedField, err.Tag)
			}
		}
		c.Status(fiber.StatusBadRequest)

		if x.metrics != nil {
			x.metrics.RecordValidationDuration("validation_error", time.Since(start))
		}

		return contract.Response{
			Code:    constants.ErrCodeValidationFailed,
			Message: strings.Join(errMsgs, sep),
			Errors:  fields,
		}
	}

	if x.metrics != nil {
		x.metrics.RecordValidationDuration("validation_success", time.Since(start))
	}

	return responseErr
}

func (x XValidator) Validate(data interface{}) []Error {
	var validationErrors []Error

	errs := x.validator.Struct(data)
	if errs != nil {
		verrs, ok := errs.(validator.ValidationErrors)
		if !ok {
			return []Error{{Error: true, FailedField: "body", Tag: "invalid"}}
		}

		for _, err := range verrs {
			var elem Error
			elem.FailedField = err.Field()
			elem.Tag = err.Tag()
			elem.Param = err.Param()
			elem.Value = err.Value()
			elem.Error = true
			validationErrors = append(validationErrors, elem)
		}
	}
	return validationErrors
}

func fieldMessage(err Error) string {
	switch err.Tag {
	case "required", NotBlankTag:
		return fmt.Sprintf(constants.MessageErrorRequired, err.FailedField)
	case "max":
		return fmt.Sprintf(constants.MessageErrorMaxLen, err.FailedField, err.Param)
	default:
		return fmt.Sprintf(constants.MessageErrorFormat, err.FailedField)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}
