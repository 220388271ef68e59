package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

var leadingZeroNumber = regexp.MustCompile(`:\s*-?0\d`)

// parseJSONBody decodes the request body into out and turns decoder failures into
// VALIDATION_FAILED errors that point at the offending input.
func parseJSONBody(c *fiber.Ctx, out any) error {
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return apperrors.NewValidationError("request body is required", nil)
	}

	err := c.BodyParser(out)
	if err == nil {
		return nil
	}

	var (
		fiberErr  *fiber.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &fiberErr):
		return apperrors.NewValidationError("request body must be JSON with Content-Type application/json",
			map[string]any{"contentType": string(c.Request().Header.ContentType())})
	case errors.As(err, &syntaxErr):
		details := map[string]any{"offset": syntaxErr.Offset}
		if leadingZeroNumber.Match(c.Body()) {
			details["hint"] = "numbers must not have leading zeros, use 1 instead of 01"
		}
		return apperrors.NewValidationError("malformed JSON body: "+syntaxErr.Error(), details)
	case errors.As(err, &typeErr):
		return apperrors.NewValidationError(
			fmt.Sprintf("validation failed: %s: must be a %s", typeErr.Field, jsonKind(typeErr)),
			map[string]any{typeErr.Field: "must be a " + jsonKind(typeErr)},
		)
	default:
		return apperrors.NewValidationError("malformed JSON body", nil)
	}
}

func jsonKind(err *json.UnmarshalTypeError) string {
	switch err.Type.Kind().String() {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return "whole number"
	case "string":
		return "string"
	default:
		return err.Type.String()
	}
}
