package timero

import (
	"bytes"
	"encoding/json"
)

// Optional holds a value that may be absent. The zero value is empty.
type Optional[T any] struct {
	val     T
	present bool
}

func Some[T any](val T) Optional[T] {
	return Optional[T]{
		val:     val,
		present: true,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) IsEmpty() bool {
	return !o.present
}

func (o Optional[T]) Get() T {
	return o.val
}

func (o Optional[T]) OrElse(fallback T) T {
	if !o.present {
		return fallback
	}
	return o.val
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.val)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	*o = Some(val)
	return nil
}
