// Package validation はリクエストバインディングで使う追加のバリデータタグを登録します。
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	once        sync.Once
	registerErr error
)

// Register はginのデフォルトバリデータに追加タグを登録します。
//   - notblank: 空白のみの文字列を拒否
//   - maxbytes=N: 文字数ではなくバイト数で上限を検査（bcryptの72バイト制限用）
//
// 最初のバインド前に呼ぶ必要があり、2回目以降の呼び出しは何もしません。
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		if registerErr = v.RegisterValidation("notblank", validators.NotBlank); registerErr != nil {
			return
		}
		registerErr = v.RegisterValidation("maxbytes", maxBytes)
	})
	return registerErr
}

// maxBytes は文字列フィールドのバイト長がパラメータ以下であることを検査します。
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return len(field.String()) <= limit
}
