package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	key := GenerateKey("John Doe Resume (final).pdf")
	assert.True(t, strings.HasPrefix(key, "resumes/John_Doe_Resume"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
	assert.NotContains(t, key, " ")
	assert.NotContains(t, key, "(")

	other := GenerateKey("John Doe Resume (final).pdf")
	assert.NotEqual(t, key, other)
}

func TestGenerateKeyDegenerateNames(t *testing.T) {
	key := GenerateKey("???.docx")
	assert.True(t, strings.HasPrefix(key, "resumes/resume_"), key)
	assert.True(t, strings.HasSuffix(key, ".docx"), key)

	upper := GenerateKey("cv.PDF")
	assert.True(t, strings.HasSuffix(upper, ".pdf"), upper)
}

func TestValidateUpload(t *testing.T) {
	pdf := append([]byte("%PDF-1.4"), make([]byte, 64)...)
	docx := append([]byte{'P', 'K', 0x03, 0x04}, make([]byte, 64)...)

	tests := []struct {
		name     string
		filename string
		data     []byte
		wantErr  bool
	}{
		{"valid pdf", "cv.pdf", pdf, false},
		{"valid docx", "cv.docx", docx, false},
		{"plain text has no signature", "cv.txt", []byte("hello"), false},
		{"pdf extension with zip bytes", "cv.pdf", docx, true},
		{"docx extension with pdf bytes", "cv.docx", pdf, true},
		{"empty file", "cv.pdf", nil, true},
		{"oversized", "cv.pdf", make([]byte, MaxUploadSize+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.data)
			if tt.wantErr {
				var invalid *InvalidUploadError
				assert.ErrorAs(t, err, &invalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key := GenerateKey("cv.txt")
	require.NoError(t, store.Save(ctx, key, []byte("resume body")))

	data, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("resume body"), data)

	url, err := store.URL(ctx, key)
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))
}

func TestGetWithRetryRecovers(t *testing.T) {
	calls := 0
	data, err := getWithRetry(context.Background(), "k", func() ([]byte, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("transient")
		}
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
	assert.Equal(t, 3, calls)
}

func TestGetWithRetryGivesUp(t *testing.T) {
	calls := 0
	_, err := getWithRetry(context.Background(), "k", func() ([]byte, error) {
		calls++
		return nil, errors.New("down")
	})
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, 3, calls)
}
