package registry

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadSourceFile reads the CSV at path. ANVISA publishes some exports in
// ISO-8859-1 and some in UTF-8, so the content is checked first and decoded
// from Latin-1 when it is not valid UTF-8.
func ReadSourceFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source file %s: %w", path, err)
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode source file %s: %w", path, err)
	}
	return string(decoded), nil
}
