// Package validation 注册请求绑定使用的自定义校验规则
package validation

import (
	"fmt"
	"sync"

	"carmarket/domain/listing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	once    sync.Once
	initErr error
)

// enumRules 枚举型字段（transmission、fuel_type 等）与领域解析函数的对应
var enumRules = map[string]func(string) bool{
	"transmission": func(v string) bool { _, ok := listing.ParseTransmission(v); return ok },
	"fuel_type":    func(v string) bool { _, ok := listing.ParseFuelType(v); return ok },
	"body_type":    func(v string) bool { _, ok := listing.ParseBodyType(v); return ok },
	"condition":    func(v string) bool { _, ok := listing.ParseCondition(v); return ok },
}

// Register 在 gin 默认校验器上注册规则，可重复调用
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			initErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		for tag, fn := range enumRules {
			fn := fn
			if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return fn(fl.Field().String())
			}); err != nil {
				initErr = fmt.Errorf("register %s: %w", tag, err)
				return
			}
		}
	})
	return initErr
}
