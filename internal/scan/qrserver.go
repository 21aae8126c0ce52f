package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/smartmeal/pantry-service/pkg/apperr"
)

const defaultQRServerURL = "https://api.qrserver.com/v1/read-qr-code/"

// QRServerClient decodes QR images through the goqr.me read-qr-code API.
type QRServerClient struct {
	baseURL string
	client  *http.Client
}

type qrServerResponse []struct {
	Symbol []struct {
		Data  *string `json:"data"`
		Error *string `json:"error"`
	} `json:"symbol"`
}

func NewQRServerClient(baseURL string) *QRServerClient {
	if baseURL == "" {
		baseURL = defaultQRServerURL
	}
	return &QRServerClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// DecodeImage posts the image as a multipart file and returns the text of the
// first decoded symbol.
func (c *QRServerClient) DecodeImage(ctx context.Context, image []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "upload.jpg")
	if err != nil {
		return "", apperr.Wrap(apperr.CodeDecode, "build multipart request", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", apperr.Wrap(apperr.CodeDecode, "build multipart request", err)
	}
	if err := writer.Close(); err != nil {
		return "", apperr.Wrap(apperr.CodeDecode, "build multipart request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &body)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeDecode, "create request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeDecode, "call qr decoder", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeDecode, "read decoder response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperr.Newf(apperr.CodeDecode, "qr decoder returned status %d", resp.StatusCode)
	}

	var decoded qrServerResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", apperr.Wrap(apperr.CodeDecode, "parse decoder response", err)
	}
	if len(decoded) == 0 || len(decoded[0].Symbol) == 0 {
		return "", apperr.New(apperr.CodeDecode, "decoder returned no symbols")
	}

	symbol := decoded[0].Symbol[0]
	if symbol.Error != nil {
		return "", apperr.Newf(apperr.CodeDecode, "unreadable qr code: %s", *symbol.Error)
	}
	if symbol.Data == nil || *symbol.Data == "" {
		return "", apperr.New(apperr.CodeDecode, "decoder returned empty payload")
	}

	return *symbol.Data, nil
}
