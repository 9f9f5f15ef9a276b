package ibl

import (
	"fmt"
	"strconv"
)

// appendFloat and appendAny are small helpers for building deterministic
// chunk keys.
func appendFloat(buf []byte, f float64) []byte {
	return strconv.AppendFloat(buf, f, 'g', -1, 64)
}

func appendAny(buf []byte, v any) []byte {
	switch t := v.(type) {
	case float64:
		return strconv.AppendFloat(buf, t, 'g', -1, 64)
	case string:
		return append(buf, t...)
	case bool:
		return strconv.AppendBool(buf, t)
	default:
		return append(buf, []byte(fmt.Sprintf("%#v", t))...)
	}
}
