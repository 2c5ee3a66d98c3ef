package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hashicorp-forge/medialoc/internal/cmd/cmdtest"
)

const mediaDocument = "content://com.android.providers.media.documents/document/image%3A42"

func TestRun(t *testing.T) {
	b, ui := cmdtest.Command()
	c := &Command{Command: b}

	code := c.Run([]string{mediaDocument, "file:///sdcard/a.png", "::garbage::"})
	assert.Equal(t, 0, code, ui.ErrorWriter.String())

	out := ui.OutputWriter.String()
	assert.Contains(t, out, "scheme=content authority=com.android.providers.media.documents kind=media-document document=true document_id=image:42")
	assert.Contains(t, out, "scheme=file authority= kind=raw-file document=false")
	assert.Contains(t, out, "locator=::garbage:: scheme=unknown")
}

func TestRun_PreKitKatHasNoDocuments(t *testing.T) {
	env := cmdtest.New(t, 18)
	b, ui := cmdtest.Command()
	c := &Command{Command: b}

	code := c.Run([]string{"-config", env.ConfigPath, mediaDocument})
	assert.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "kind=media-document document=false")
	assert.NotContains(t, ui.OutputWriter.String(), "document_id")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no locators", nil, "at least one locator"},
		{"bad flag", []string{"-nope"}, "error parsing flags"},
		{"missing config", []string{"-config", "/nonexistent/config.hcl", "x"}, "error parsing config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ui := cmdtest.Command()
			c := &Command{Command: b}
			assert.Equal(t, 1, c.Run(tt.args))
			assert.Contains(t, ui.ErrorWriter.String(), tt.want)
		})
	}
}

func TestHelp(t *testing.T) {
	b, _ := cmdtest.Command()
	c := &Command{Command: b}
	assert.Contains(t, c.Help(), "-config")
	assert.NotEmpty(t, c.Synopsis())
}
