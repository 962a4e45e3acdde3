package handler

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/response"
)

var registerOnce sync.Once

// RegisterValidatorTagName 让validator使用json/form字段名报告错误路径
// 在创建路由前调用一次
func RegisterValidatorTagName() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// bindJSON 绑定请求体,失败时直接写出错误响应并返回false
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Error(c, bindError(err))
		return false
	}
	return true
}

// bindQuery 绑定查询参数
func bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		response.Error(c, bindError(err))
		return false
	}
	return true
}

// bindError 把binding错误转换为 [{msg, path}] 形式的校验错误
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, apperrors.FieldError{
				Msg:  fieldMessage(fe),
				Path: fieldPath(fe.Namespace()),
			})
		}
		return apperrors.Validation(details...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Validation(apperrors.FieldError{
			Msg:  "类型错误,应为" + typeErr.Type.String(),
			Path: typeErr.Field,
		})
	}

	if errors.Is(err, io.EOF) {
		return apperrors.ErrBindError.WithMessage("请求体不能为空")
	}
	return apperrors.ErrBindError.WithCause(err)
}

// fieldPath 去掉最外层结构体名: CreateTransactionRequest.items[1].quantity -> items[1].quantity
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "min":
		if isLength(fe.Kind()) {
			return "长度不能小于" + fe.Param()
		}
		return "不能小于" + fe.Param()
	case "max":
		if isLength(fe.Kind()) {
			return "长度不能超过" + fe.Param()
		}
		return "不能大于" + fe.Param()
	case "oneof":
		return "只能是 " + fe.Param() + " 之一"
	default:
		return "校验失败: " + fe.Tag()
	}
}

func isLength(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map || k == reflect.Array
}
