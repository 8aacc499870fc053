package runner

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSpec_Dockerfile(t *testing.T) {
	spec := DefaultBuildSpec("golang:1.25-bookworm", "/app")
	dockerfile := spec.Dockerfile()

	assert.Contains(t, dockerfile, "FROM golang:1.25-bookworm\n")
	assert.Contains(t, dockerfile, "WORKDIR /app\n")
	assert.Contains(t, dockerfile, "COPY go.mod go.sum ./\n")
	assert.Contains(t, dockerfile, "RUN go mod download\n")
	assert.Contains(t, dockerfile, "COPY . .\n")
	assert.Contains(t, dockerfile, `ENTRYPOINT ["/usr/local/bin/app"]`)
}

func TestBuildSpec_Dockerfile_IsDeterministic(t *testing.T) {
	spec := DefaultBuildSpec("golang:1.25-bookworm", "/app")
	spec.EntrypointArgs = []string{"-unbuffered"}

	first := spec.Dockerfile()
	second := spec.Dockerfile()

	assert.Equal(t, first, second, "unchanged spec must render the same Dockerfile")
	assert.Contains(t, first, `ENTRYPOINT ["/usr/local/bin/app","-unbuffered"]`)
}

func TestBuildSpec_Dockerfile_OrderOfOperations(t *testing.T) {
	dockerfile := DefaultBuildSpec("golang:1.25", "/srv").Dockerfile()

	//manifest copy and dependency install must precede the full tree copy
	manifestIdx := indexOf(t, dockerfile, "COPY go.mod go.sum ./")
	downloadIdx := indexOf(t, dockerfile, "RUN go mod download")
	treeIdx := indexOf(t, dockerfile, "COPY . .")

	assert.Less(t, manifestIdx, downloadIdx)
	assert.Less(t, downloadIdx, treeIdx)
}

func TestBuildSpec_Validate(t *testing.T) {
	valid := DefaultBuildSpec("golang:1.25", "/app")
	assert.NoError(t, valid.Validate())

	missingBase := valid
	missingBase.BaseImage = ""
	assert.Error(t, missingBase.Validate())

	missingManifest := valid
	missingManifest.ManifestFiles = nil
	assert.Error(t, missingManifest.Validate())

	missingEntry := valid
	missingEntry.EntrypointPkg = ""
	assert.Error(t, missingEntry.Validate())
}

func TestTarBuildContext(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cmd", "scraper"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmd", "scraper", "main.go"), []byte("package main\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cookies"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cookies", "cookies.json"), []byte("[]\n"), 0644))

	rd, err := tarBuildContext(dir, "FROM scratch\n")
	require.NoError(t, err)

	names := map[string]string{}
	tr := tar.NewReader(rd)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		names[hdr.Name] = string(content)
	}

	assert.Contains(t, names, "go.mod")
	assert.Contains(t, names, "cmd/scraper/main.go")
	assert.Equal(t, "FROM scratch\n", names[dockerfileName])
	assert.NotContains(t, names, ".git/HEAD", "VCS metadata must not reach the daemon")
	assert.NotContains(t, names, ".cookies/cookies.json", "session cookies must not reach image layers")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.NotEqual(t, -1, idx, "expected %q in dockerfile", needle)
	return idx
}
