package models

import (
	"bytes"
	"encoding/json"
)

// Optional はJSONでフィールドが送られたかどうかを記録します。
// Null はリテラルの null が送られた場合に true になります。
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some は値が設定された Optional を返します。
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}
