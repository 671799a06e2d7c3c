package ty

import (
	"encoding/json"
)

// LB is the line break constant.
const LB = "\n"

// ToJSONString converts data to a JSON string.
func ToJSONString(data any) (string, error) {
	bytes, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ToIndentedJSON converts data to an indented JSON string.
func ToIndentedJSON(data any) (string, error) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
