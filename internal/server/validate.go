package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// decodeBody 解码并校验请求体；失败时返回可直接作为 fail envelope data 的字段 → 消息映射。
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) map[string]string {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return map[string]string{"body": fmt.Sprintf("must be at most %d bytes", maxErr.Limit)}
		}
		if stderrors.Is(err, io.EOF) {
			return map[string]string{"body": "is required"}
		}
		return map[string]string{"body": "invalid json: " + err.Error()}
	}
	if dec.More() {
		return map[string]string{"body": "must contain a single json object"}
	}
	if err := validate.Struct(dest); err != nil {
		return validationDetails(err)
	}
	return nil
}

func validationDetails(err error) map[string]string {
	details := map[string]string{}
	var errs validator.ValidationErrors
	if !stderrors.As(err, &errs) {
		details["body"] = err.Error()
		return details
	}
	for _, fe := range errs {
		details[fe.Field()] = validationMessage(fe)
	}
	return details
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid uuid"
	}
	return "is invalid"
}
