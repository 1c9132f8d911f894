package base64

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const dataPrefix = "data:"

var ErrInvalidDataURI = errors.New("invalid base64 data uri")

func GetContentType(file string) string {
	start := len(dataPrefix)
	end := strings.Index(file, ";base64,")

	if !strings.HasPrefix(file, dataPrefix) || end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// Decode splits a data URI into its payload bytes and content type.
func Decode(file string) ([]byte, string, error) {
	contentType := GetContentType(file)
	if contentType == "" {
		return nil, "", ErrInvalidDataURI
	}

	payload := file[strings.Index(file, ",")+1:]

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}

	return data, contentType, nil
}
