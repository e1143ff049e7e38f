package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONColumn stores a value as a JSON document in a CLOB column.
type JSONColumn[T any] struct {
	Val T
}

// Value implements the driver.Valuer interface
func (c JSONColumn[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(c.Val)
	if err != nil {
		return nil, err
	}
	// go-ora binds string values to CLOB columns; []byte would be sent as RAW
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (c *JSONColumn[T]) Scan(value interface{}) error {
	var zero T
	c.Val = zero

	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("JSONColumn Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, &c.Val)
}
