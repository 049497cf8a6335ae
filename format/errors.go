package format

import (
	"fmt"

	"github.com/gogpu/rhi/types"
)

type unknownFormatError struct {
	format types.TextureFormat
}

func (e unknownFormatError) Error() string {
	return fmt.Sprintf("format: unknown texture format %d", e.format)
}

func errUnknownFormat(f types.TextureFormat) error {
	return unknownFormatError{format: f}
}
