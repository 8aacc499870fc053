package runner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildSpec describes how the scraper image is assembled: base image,
// working directory, dependency manifest, entrypoint. Dockerfile renders it
// deterministically, so rebuilding an unchanged tree hits the layer cache
// and produces an identical image.
type BuildSpec struct {
	//base image reference
	BaseImage string
	//working directory inside the image
	Workdir string
	//dependency manifest files copied before the rest of the tree, so the
	//module download layer is cached independently of source edits
	ManifestFiles []string
	//package to compile as the container entrypoint
	EntrypointPkg string
	//fixed arguments baked into the entrypoint
	EntrypointArgs []string
}

// DefaultBuildSpec is the scraper's own image: deps from go.mod/go.sum,
// entrypoint cmd/scraper.
func DefaultBuildSpec(baseImage, workdir string) BuildSpec {
	return BuildSpec{
		BaseImage:     baseImage,
		Workdir:       workdir,
		ManifestFiles: []string{"go.mod", "go.sum"},
		EntrypointPkg: "./cmd/scraper",
	}
}

const builtBinary = "/usr/local/bin/app"

// Dockerfile renders the build instructions. Sequence: set working
// directory, copy the dependency manifest, install declared dependencies,
// copy the remaining application files, compile, set the entrypoint.
func (s BuildSpec) Dockerfile() string {
	var b strings.Builder

	fmt.Fprintf(&b, "FROM %s\n", s.BaseImage)
	fmt.Fprintf(&b, "WORKDIR %s\n", s.Workdir)
	fmt.Fprintf(&b, "COPY %s ./\n", strings.Join(s.ManifestFiles, " "))
	b.WriteString("RUN go mod download\n")
	b.WriteString("COPY . .\n")
	fmt.Fprintf(&b, "RUN go build -o %s %s\n", builtBinary, s.EntrypointPkg)

	entrypoint := append([]string{builtBinary}, s.EntrypointArgs...)
	encoded, _ := json.Marshal(entrypoint)
	fmt.Fprintf(&b, "ENTRYPOINT %s\n", encoded)

	return b.String()
}

// Validate rejects specs that cannot produce a runnable image.
func (s BuildSpec) Validate() error {
	if s.BaseImage == "" {
		return fmt.Errorf("build spec: base image is required")
	}
	if s.Workdir == "" {
		return fmt.Errorf("build spec: workdir is required")
	}
	if len(s.ManifestFiles) == 0 {
		return fmt.Errorf("build spec: at least one manifest file is required")
	}
	if s.EntrypointPkg == "" {
		return fmt.Errorf("build spec: entrypoint package is required")
	}
	return nil
}
