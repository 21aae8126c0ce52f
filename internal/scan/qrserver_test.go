package scan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartmeal/pantry-service/pkg/apperr"
)

func TestDecodeImage_ExtractsFirstSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("file")
		require.NoError(t, err)
		w.Write([]byte(`[{"type":"qrcode","symbol":[{"seq":0,"data":"Milk-05-09-24-2","error":null}]}]`))
	}))
	defer server.Close()

	client := NewQRServerClient(server.URL)
	text, err := client.DecodeImage(context.Background(), []byte("fake image"))
	require.NoError(t, err)
	assert.Equal(t, "Milk-05-09-24-2", text)
}

func TestDecodeImage_SymbolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"type":"qrcode","symbol":[{"seq":0,"data":null,"error":"could not find/read QR code"}]}]`))
	}))
	defer server.Close()

	client := NewQRServerClient(server.URL)
	_, err := client.DecodeImage(context.Background(), []byte("not a qr code"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDecode, apperr.CodeOf(err))
}

func TestDecodeImage_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewQRServerClient(server.URL)
	_, err := client.DecodeImage(context.Background(), []byte("fake image"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDecode, apperr.CodeOf(err))
}
