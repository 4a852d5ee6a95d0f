package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"project-hub/internal/dto"
	"project-hub/pkg/response"
)

func init() {
	// 请求体中出现未声明字段时直接拒绝
	binding.EnableDecoderDisallowUnknownFields = true

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerValidations(v)
	}
}

// registerValidations 字段名取 json 标签，并注册 deadline 校验
func registerValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("deadline", func(fl validator.FieldLevel) bool {
		_, err := dto.ParseDeadline(fl.Field().String())
		return err == nil
	})
}

// badRequest 将绑定/校验错误写为 400（请求体过大为 413）
func badRequest(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	response.BadRequest(c, bindErrorMessage(err))
}

// bindErrorMessage 生成面向客户端的英文字段提示
func bindErrorMessage(err error) string {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return fieldMessage(ves[0])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			return fmt.Sprintf("%s has an invalid type", typeErr.Field)
		}
		return "Invalid request body"
	}

	if errors.Is(err, io.EOF) {
		return "Request body is required"
	}

	// encoding/json 对未知字段只返回文本错误
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		return "Unknown field " + strings.TrimPrefix(msg, "json: unknown field ")
	}

	return "Invalid request body"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eq":
		return fmt.Sprintf("%s must be %s", field, fe.Param())
	case "deadline":
		return field + " must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
	default:
		return field + " is invalid"
	}
}
