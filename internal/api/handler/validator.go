package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"

	"gestion-formacion/backend/internal/model"
)

// 自定义校验标签
const (
	clockTag    = "clock"
	notBlankTag = "notblank"
)

// translator 校验错误的西班牙语翻译器，RegisterValidators 之后可用
var translator ut.Translator

// RegisterValidators 在 gin 默认校验器上注册自定义规则与西班牙语错误信息
// 需在路由初始化前调用一次
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// 错误中使用 json/form 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	if err := v.RegisterValidation(clockTag, clockValidation); err != nil {
		return err
	}
	if err := v.RegisterValidation(notBlankTag, notBlankValidation); err != nil {
		return err
	}

	loc := es.New()
	uni := ut.New(loc, loc)
	trans, _ := uni.GetTranslator("es")
	if err := es_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return err
	}
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{clockTag, notBlankTag} {
		if err := v.RegisterTranslation(tag, trans, registerFn, translateCustomErrs); err != nil {
			return err
		}
	}
	translator = trans
	return nil
}

func translateCustomErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case clockTag:
		return fe.Field() + " debe tener el formato HH:MM o HH:MM:SS"
	case notBlankTag:
		return fe.Field() + " no puede estar vacío"
	default:
		return fe.Error()
	}
}

// validationDetails 将校验错误转为 字段 -> 信息
// 非校验类错误（JSON 格式错误等）返回 nil
func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if translator != nil {
			details[fe.Field()] = fe.Translate(translator)
		} else {
			details[fe.Field()] = fe.Error()
		}
	}
	return details
}

// clockValidation 接受 HH:MM 或 HH:MM:SS
func clockValidation(fl validator.FieldLevel) bool {
	_, err := model.ParseClock(fl.Field().String())
	return err == nil
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}
