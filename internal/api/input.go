package api

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/entities"
)

const (
	capturedImageField = "captured_image"
	uploadImageField   = "image"
)

// ReadImage pulls the image out of a /process request. A non-empty
// captured_image data URL wins over an uploaded file.
func ReadImage(c echo.Context) (entities.ImagePayload, error) {
	if captured := c.FormValue(capturedImageField); captured != "" {
		data, err := DecodeDataURL(captured)
		if err != nil {
			return entities.ImagePayload{}, err
		}
		if len(data) == 0 {
			return entities.ImagePayload{}, domain.ErrNoImage
		}
		return entities.ImagePayload{Data: data, Source: entities.SourceCapture}, nil
	}

	header, err := c.FormFile(uploadImageField)
	if err != nil {
		// Missing part, or not a multipart request at all
		return entities.ImagePayload{}, domain.ErrNoImage
	}

	file, err := header.Open()
	if err != nil {
		return entities.ImagePayload{}, domain.NewStageError(domain.StageInput, domain.KindDecodeFailure, "", "", fmt.Errorf("failed to open upload: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return entities.ImagePayload{}, domain.NewStageError(domain.StageInput, domain.KindDecodeFailure, "", "", fmt.Errorf("failed to read upload: %w", err))
	}
	if len(data) == 0 {
		return entities.ImagePayload{}, domain.ErrNoImage
	}

	return entities.ImagePayload{Data: data, Source: entities.SourceUpload, Filename: header.Filename}, nil
}

// DecodeDataURL decodes the base64 payload that follows the first comma of a
// data URL such as "data:image/png;base64,iVBOR...".
func DecodeDataURL(dataURL string) ([]byte, error) {
	idx := strings.IndexByte(dataURL, ',')
	if idx < 0 {
		return nil, domain.NewStageError(domain.StageInput, domain.KindDecodeFailure, "", "missing comma in data URL", nil)
	}

	data, err := base64.StdEncoding.DecodeString(dataURL[idx+1:])
	if err != nil {
		return nil, domain.NewStageError(domain.StageInput, domain.KindDecodeFailure, "", "", err)
	}
	return data, nil
}
