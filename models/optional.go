package models

import "encoding/json"

// OptionalInt64 records whether a JSON field was present at all, and if so
// whether it was null. The zero value means "absent".
type OptionalInt64 struct {
	Set   bool
	Value *int64
}

func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o OptionalInt64) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// Some returns a present, non-null value.
func Some(v int64) OptionalInt64 {
	return OptionalInt64{Set: true, Value: &v}
}

// Null returns a present value that was explicitly null.
func Null() OptionalInt64 {
	return OptionalInt64{Set: true}
}
