package registry

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/kodiakgen/errors"
)

// DefaultSource is the upstream location of vk.xml.
const DefaultSource = "https://raw.githubusercontent.com/KhronosGroup/Vulkan-Docs/main/xml/vk.xml"

// Source is a registry document resolved to a local file.
type Source struct {
	// Path is the local file to decode (either the original or a fetched copy).
	Path string
	// Input is the source string as given by the user.
	Input string
	// Remote is true when the document was downloaded.
	Remote bool

	cleanup func()
}

// Close removes any temporary files created for this source.
// Safe to call multiple times.
func (s *Source) Close() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// IsLocal reports whether input resolves to a file on disk, as opposed to a
// remote go-getter source.
func IsLocal(input string) bool {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}
	detected, err := getter.Detect(input, pwd, getter.Detectors)
	if err != nil {
		return false
	}
	u, err := url.Parse(detected)
	if err != nil {
		return false
	}
	return u.Scheme == "file" || u.Scheme == ""
}

// Fetch resolves input to a local registry file using go-getter.
// Supports:
//   - Local paths: ./vk.xml, /usr/share/vulkan/registry/vk.xml, ~/vk.xml
//   - HTTP(S) URLs to the raw document
//   - Any other go-getter source that yields a single file (s3::, gcs::, ...)
//
// The returned Source must be closed when done.
func Fetch(ctx context.Context, input string, log *zap.SugaredLogger) (*Source, error) {
	if input == "" {
		input = DefaultSource
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(input, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to detect registry source type for %q", input)
	}
	log.Debugw("go-getter detected source", "input", input, "detected", detected)

	parsed, err := url.Parse(detected)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse detected URL")
	}

	if parsed.Scheme == "file" || parsed.Scheme == "" {
		path := input
		if parsed.Scheme == "file" {
			path = parsed.Path
		}
		if strings.HasPrefix(path, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, errors.Wrap(err, "failed to expand home directory")
			}
			path = filepath.Join(home, path[2:])
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(pwd, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WithHint(
					errors.NewNotFoundError("registry file %s", path),
					"set registry.source in kodiak.toml or pass --registry")
			}
			return nil, errors.Wrapf(err, "failed to stat registry file %s", path)
		}
		if info.IsDir() {
			path = filepath.Join(path, "vk.xml")
		}
		return &Source{Path: path, Input: input, cleanup: func() {}}, nil
	}

	return fetchRemote(ctx, input, detected, log)
}

func fetchRemote(ctx context.Context, input, detected string, log *zap.SugaredLogger) (*Source, error) {
	tempDir, err := os.MkdirTemp("", "kodiak-registry-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	dst := filepath.Join(tempDir, "vk.xml")

	log.Infow("Fetching registry", "input", input, "destination", dst)

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: getter.Getters,
	}
	if err := client.Get(); err != nil {
		os.RemoveAll(tempDir)
		return nil, errors.Wrapf(err, "failed to fetch registry from %s", input)
	}

	return &Source{
		Path:   dst,
		Input:  input,
		Remote: true,
		cleanup: func() {
			log.Debugw("Cleaning up fetched registry", "path", tempDir)
			os.RemoveAll(tempDir)
		},
	}, nil
}

// Load fetches input and decodes it.
func Load(ctx context.Context, input string, opts DecodeOptions, log *zap.SugaredLogger) (*Registry, error) {
	src, err := Fetch(ctx, input, log)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	f, err := os.Open(src.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open registry %s", src.Path)
	}
	defer f.Close()

	reg, err := Decode(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", src.Input)
	}
	return reg, nil
}
