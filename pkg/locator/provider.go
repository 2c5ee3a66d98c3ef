package locator

// ProviderKind classifies the provider that owns a locator.
type ProviderKind int

const (
	// KindUnclassified is any authority not listed below, including the
	// metadata store's own authority.
	KindUnclassified ProviderKind = iota

	// KindExternalStorageDocument is the external storage document provider.
	KindExternalStorageDocument

	// KindDownloadsDocument is the downloads document provider.
	KindDownloadsDocument

	// KindMediaDocument is the media document provider.
	KindMediaDocument

	// KindGooglePhotos is the Google Photos content provider.
	KindGooglePhotos

	// KindRawFile is a locator without an authority (file scheme).
	KindRawFile
)

// Well-known authorities.
const (
	AuthorityExternalStorage = "com.android.externalstorage.documents"
	AuthorityDownloads       = "com.android.providers.downloads.documents"
	AuthorityMediaDocuments  = "com.android.providers.media.documents"
	AuthorityGooglePhotos    = "com.google.android.apps.photos.content"

	// AuthorityMedia is the metadata store's own authority.
	AuthorityMedia = "media"

	// AuthorityDownloadsStore backs the public downloads table.
	AuthorityDownloadsStore = "downloads"
)

var kindNames = map[ProviderKind]string{
	KindUnclassified:            "unclassified",
	KindExternalStorageDocument: "external-storage-document",
	KindDownloadsDocument:       "downloads-document",
	KindMediaDocument:           "media-document",
	KindGooglePhotos:            "google-photos",
	KindRawFile:                 "raw-file",
}

// KindOf maps an authority to its ProviderKind. It is a pure function.
func KindOf(authority string) ProviderKind {
	switch authority {
	case "":
		return KindRawFile
	case AuthorityExternalStorage:
		return KindExternalStorageDocument
	case AuthorityDownloads:
		return KindDownloadsDocument
	case AuthorityMediaDocuments:
		return KindMediaDocument
	case AuthorityGooglePhotos:
		return KindGooglePhotos
	default:
		return KindUnclassified
	}
}

// IsDocumentProvider reports whether the kind is one of the three document
// providers whose ids the resolver knows how to decode.
func (k ProviderKind) IsDocumentProvider() bool {
	switch k {
	case KindExternalStorageDocument, KindDownloadsDocument, KindMediaDocument:
		return true
	default:
		return false
	}
}

// String returns the string representation of the provider kind.
func (k ProviderKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unclassified"
}
