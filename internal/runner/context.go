package runner

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// dockerfileName is the name the generated Dockerfile gets inside the build
// context. A generated name avoids clobbering a Dockerfile the context
// directory may already carry.
const dockerfileName = ".runner.dockerfile"

// contextExcludes are directory names never shipped to the daemon: VCS
// metadata, local run artifacts, and session cookies, which must not end
// up in image layers.
var contextExcludes = map[string]bool{
	".git":     true,
	".cache":   true,
	".cookies": true,
	"logs":     true,
}

// tarBuildContext packs contextDir plus the generated Dockerfile into an
// in-memory tar stream for the Docker build API.
func tarBuildContext(contextDir, dockerfile string) (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	err := filepath.WalkDir(contextDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(contextDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if contextExcludes[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to tar build context: %w", err)
	}

	//append the generated Dockerfile
	content := []byte(dockerfile)
	hdr := &tar.Header{
		Name: dockerfileName,
		Mode: 0644,
		Size: int64(len(content)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, fmt.Errorf("failed to write dockerfile header: %w", err)
	}
	if _, err := tw.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write dockerfile: %w", err)
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}
