package utils

import (
	"crypto/md5"
	"fmt"
)

// HashBytes fingerprints uploaded file content for run logging.
func HashBytes(input []byte) string {
	hash := md5.Sum(input)
	return fmt.Sprintf("%x", hash)
}

func HashString(input string) string {
	return HashBytes([]byte(input))
}
