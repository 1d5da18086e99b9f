package filestorage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePathSegment(t *testing.T) {
	assert.Equal(t, "Startup_Club_A", SanitizePathSegment("Startup Club A"))
	assert.Equal(t, "a_b", SanitizePathSegment(`a/\:b`))
	assert.Equal(t, "receipts_2026", SanitizePathSegment("  receipts   2026  "))
	assert.Equal(t, "name", SanitizePathSegment("__name__"))
	assert.Equal(t, "unknown", SanitizePathSegment(`<>:"/\|?*`))
	assert.Equal(t, "unknown", SanitizePathSegment(""))
}

func TestUploadSubPath(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026/Rocket_Club/RECEIPT", UploadSubPath("Rocket Club", "RECEIPT", now))
	assert.Equal(t, "2026/no_club/GENERAL", UploadSubPath("", "", now))
	assert.Equal(t, "2026/no_club/REPORT", UploadSubPath("", "REPORT", now))
}

func TestLocalStorageURL(t *testing.T) {
	ls := &LocalStorage{basePath: t.TempDir(), baseURL: "http://localhost:8080/media/"}

	assert.Equal(t, "http://localhost:8080/media/2026/no_club/GENERAL/x.pdf", ls.URL("2026/no_club/GENERAL/x.pdf"))
	assert.Equal(t, "", ls.URL(""))
}
