package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURI(t *testing.T) {
	uri := EncodeDataURI("image/png", []byte{0x89, 'P', 'N', 'G'})
	assert.Equal(t, "data:image/png;base64,iVBORw==", uri)

	mimeType, data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

	assert.Equal(t, "data:application/octet-stream;base64,", EncodeDataURI("", nil))
}

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantMIME string
		wantData string
		wantErr  bool
	}{
		{name: "with params", uri: "data:text/plain;charset=utf-8;base64,aG9sYQ==", wantMIME: "text/plain", wantData: "hola"},
		{name: "percent encoded", uri: "data:text/plain,hola%20mundo", wantMIME: "text/plain", wantData: "hola mundo"},
		{name: "default mime", uri: "data:,x", wantMIME: "text/plain", wantData: "x"},
		{name: "no scheme", uri: "aG9sYQ==", wantErr: true},
		{name: "no comma", uri: "data:text/plain;base64", wantErr: true},
		{name: "bad base64", uri: "data:text/plain;base64,@@@", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mimeType, data, err := DecodeDataURI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDataURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, mimeType)
			assert.Equal(t, tt.wantData, string(data))
		})
	}
}
