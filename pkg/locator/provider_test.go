package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		authority string
		want      ProviderKind
	}{
		{AuthorityExternalStorage, KindExternalStorageDocument},
		{AuthorityDownloads, KindDownloadsDocument},
		{AuthorityMediaDocuments, KindMediaDocument},
		{AuthorityGooglePhotos, KindGooglePhotos},
		{"", KindRawFile},
		{AuthorityMedia, KindUnclassified},
		{"com.example.provider", KindUnclassified},
		{"COM.ANDROID.EXTERNALSTORAGE.DOCUMENTS", KindUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.want.String()+"/"+tt.authority, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.authority))
		})
	}
}

func TestKindOf_IsPure(t *testing.T) {
	authorities := []string{AuthorityExternalStorage, AuthorityDownloads, AuthorityMediaDocuments, AuthorityGooglePhotos, "", "x"}
	for _, a := range authorities {
		first := KindOf(a)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, KindOf(a))
		}
	}
}

func TestProviderKind_IsDocumentProvider(t *testing.T) {
	assert.True(t, KindExternalStorageDocument.IsDocumentProvider())
	assert.True(t, KindDownloadsDocument.IsDocumentProvider())
	assert.True(t, KindMediaDocument.IsDocumentProvider())
	assert.False(t, KindGooglePhotos.IsDocumentProvider())
	assert.False(t, KindRawFile.IsDocumentProvider())
	assert.False(t, KindUnclassified.IsDocumentProvider())
}

func TestProviderKind_String(t *testing.T) {
	assert.Equal(t, "media-document", KindMediaDocument.String())
	assert.Equal(t, "raw-file", KindRawFile.String())
	assert.Equal(t, "unclassified", ProviderKind(99).String())
}

func TestLocator_Kind(t *testing.T) {
	assert.Equal(t, KindRawFile, Parse("file:///a").Kind())
	assert.Equal(t, KindMediaDocument, Parse("content://com.android.providers.media.documents/document/image%3A1").Kind())
	assert.Equal(t, KindUnclassified, Parse("garbage").Kind())
}
