// Package locator parses and classifies resource locators.
//
// A resource locator is an opaque, platform-issued identifier that addresses a
// file-like resource. Three addressing schemes coexist:
//
//  1. Direct file paths: "file:///storage/emulated/0/DCIM/a.jpg"
//
//  2. Metadata-store locators minted before scoped storage:
//     "content://media/external/images/media/42"
//
//  3. Document-provider locators introduced by scoped storage:
//     "content://com.android.externalstorage.documents/document/primary%3ADCIM%2Fa.jpg"
//
// # Core Concepts
//
// Locator is an immutable value holding the scheme, the authority and the
// escaped path. Parse never fails: malformed input yields a Locator whose
// scheme is SchemeUnknown.
//
// ProviderKind is derived from the authority alone by KindOf. It is the only
// place in the module that matches authority strings; everything downstream
// switches on the kind.
//
// # Usage Examples
//
//	loc := locator.Parse("content://com.android.providers.media.documents/document/image%3A42")
//	if loc.IsDocument() {
//	    id, _ := loc.DocumentID() // "image:42"
//	}
//	switch loc.Kind() {
//	case locator.KindMediaDocument:
//	    // ...
//	}
package locator
