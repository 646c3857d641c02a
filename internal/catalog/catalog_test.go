package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	doc, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "WattTime Data API", doc.Title)
	assert.Equal(t, "V3", doc.Version)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://api.watttime.org", doc.Servers[0].URL)
	assert.Equal(t, "WattTime Base API", doc.Servers[0].Description)
	assert.Equal(t, "#DAD9D9", doc.Logo.BackgroundColor)

	assert.Equal(t, []string{
		"Introduction",
		"Authentication",
		"GET Forecast",
		"GET Historical",
		"Signal access",
		"Regions and Maps",
		"Transitioning from v2 to v3",
		"Technical Support",
	}, doc.TagNames())
	assert.NotEmpty(t, doc.Tags[0].Description)
	assert.Contains(t, doc.Tags[1].Description, "expire after 30 minutes")
	assert.Empty(t, doc.Tags[2].Description)
}

func TestPaths(t *testing.T) {
	doc, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"/register", "/login", "/password", "/v3/region-from-loc"}, doc.Paths())
}

func TestOperations(t *testing.T) {
	doc, err := Load()
	require.NoError(t, err)
	require.Len(t, doc.Operations, 4)

	login, ok := doc.Operation(OpLogin)
	require.True(t, ok)
	assert.Equal(t, "/login", login.Path)
	assert.Equal(t, SchemeBasic, login.Scheme)
	assert.Contains(t, login.Sample.Source, "HTTPBasicAuth('freddo', 'the_frog')")
	assert.NotContains(t, login.Sample.Source, "register_url")

	region, ok := doc.Operation(OpRegionFromLoc)
	require.True(t, ok)
	assert.Equal(t, SchemeBearer, region.Scheme)
	assert.Equal(t, []string{TagRegions}, region.Tags)
	assert.NotContains(t, region.Sample.Source, "‘")

	register, ok := doc.Operation(OpRegister)
	require.True(t, ok)
	assert.Empty(t, register.Scheme)
	assert.Equal(t, "Python", register.Sample.Lang)
	assert.Equal(t, "Python", register.Sample.Label)

	_, ok = doc.Operation("missing")
	assert.False(t, ok)
}

func TestLoadServerOverride(t *testing.T) {
	doc, err := Load(WithServerURL("http://localhost:8080/"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", doc.Servers[0].URL)

	doc, err = Load(WithServerURL("  "))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, doc.Servers[0].URL)
}

func TestLoadDocsDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"introduction.md", "transition.md", "tech-support.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("# "+name), 0o644))
	}

	doc, err := Load(WithDocsDir(dir))
	require.NoError(t, err)
	assert.Equal(t, "# introduction.md", doc.Tags[0].Description)
	assert.Equal(t, "# tech-support.md", doc.Tags[7].Description)
}

func TestLoadDocsDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "introduction.md"), []byte("intro"), 0o644))

	_, err := Load(WithDocsDir(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transition.md")

	_, err = Load(WithDocsDir(filepath.Join(dir, "nope")))
	assert.Error(t, err)
}
