package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const sequenceTokenKind = "seq"

// EncodeMultiFieldToken creates a token with any number of string fields
// This provides flexibility for different pagination strategies
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}

// EncodeSequenceToken creates a cursor pointing before the given entry number.
func EncodeSequenceToken(entryNo int64) string {
	return EncodeMultiFieldToken(sequenceTokenKind, strconv.FormatInt(entryNo, 10))
}

// DecodeSequenceToken parses a cursor created by EncodeSequenceToken.
func DecodeSequenceToken(token string) (int64, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 2 || parts[0] != sequenceTokenKind {
		return 0, fmt.Errorf("invalid pagination token format (fields)")
	}
	entryNo, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || entryNo <= 0 {
		return 0, fmt.Errorf("invalid pagination token format (entry number %q)", parts[1])
	}
	return entryNo, nil
}
