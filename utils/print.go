package utils

import (
	"encoding/json"
	"fmt"
)

// PrintJson prints the json string of the given value.
func PrintJson(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
