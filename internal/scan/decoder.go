package scan

import "context"

// Decoder extracts the text payload from a QR image. Implementations are
// opaque to the engine; failures surface as CodeDecode errors.
type Decoder interface {
	DecodeImage(ctx context.Context, image []byte) (string, error)
}
