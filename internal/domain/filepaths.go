package domain

import (
	"encoding/json"
	"fmt"
)

// EncodeFilePaths serializes a file path list for the TypeFilePaths entry
func EncodeFilePaths(paths []string) ([]byte, error) {
	if paths == nil {
		paths = []string{}
	}
	data, err := json.Marshal(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal file paths: %w", err)
	}
	return data, nil
}

// DecodeFilePaths parses a TypeFilePaths payload
func DecodeFilePaths(data []byte) ([]string, error) {
	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("failed to unmarshal file paths: %w", err)
	}
	return paths, nil
}
