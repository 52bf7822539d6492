package pinner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	semver "github.com/blang/semver/v4"

	"github.com/seladb/holochain-rust/internal/config"
	"github.com/seladb/holochain-rust/internal/fetch"
	"github.com/seladb/holochain-rust/internal/logger"
	"github.com/seladb/holochain-rust/internal/release"
)

var (
	errEmptyTag         = errors.New("release tag must not be empty")
	errVersionMissing   = errors.New("package descriptor has no version field")
	errCommitishMissing = errors.New("release descriptor has no target_commitish field")
)

const (
	// manifestFileMode is used for the written pinning manifest.
	manifestFileMode os.FileMode = 0o644
	// outputDirMode is used when creating missing output directories.
	outputDirMode os.FileMode = 0o755
)

// Options contains inputs for the pinner entry point.
type Options struct {
	// ConfigPath is an optional path to the settings YAML (defaults apply when absent).
	ConfigPath string
	// OutputPath overrides the configured manifest location when non-empty.
	OutputPath string
	// Tag is the release tag whose binaries are pinned.
	Tag string
}

// packageDescriptor is the subset of package.json the pinner reads.
type packageDescriptor struct {
	Version string `json:"version"`
}

// releaseDescriptor is the subset of the releases API payload the pinner reads.
type releaseDescriptor struct {
	TargetCommitish string `json:"target_commitish"`
}

// pinner aggregates release metadata into the pinning manifest.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type pinner struct {
	// cfg holds host coordinates and the output location.
	cfg *config.Config
	// client performs all HTTP reads against the release host.
	client *fetch.Client
	// tag is the release tag being pinned.
	tag string
}

// Run executes the pinning workflow and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "n3h-pin")

	p, err := newPinner(opts)
	if err != nil {
		return fmt.Errorf("initialize pinner: %w", err)
	}

	if err = p.Run(ctx); err != nil {
		return fmt.Errorf("pinning failed: %w", err)
	}

	logger.Info(ctx, "Pinning completed successfully")

	return nil
}

// newPinner loads configuration and prepares the HTTP client.
func newPinner(opts *Options) (*pinner, error) {
	tag := strings.TrimSpace(opts.Tag)
	if tag == "" {
		return nil, errEmptyTag
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.OutputPath != "" {
		cfg.OutputPath = opts.OutputPath
	}

	return &pinner{
		cfg:    cfg,
		client: fetch.NewClient(cfg.Timeout),
		tag:    tag,
	}, nil
}

// Run walks the strictly linear pipeline:
// 1) Resolve version and commitish from the two metadata documents.
// 2) Fetch and parse one checksum file per platform, in list order.
// 3) Serialize the manifest, write it, and echo the written file.
func (p *pinner) Run(ctx context.Context) error {
	logger.InfoKV(ctx, "Resolving release metadata", "tag", p.tag)

	version, err := p.fetchVersion(ctx)
	if err != nil {
		return fmt.Errorf("resolve version: %w", err)
	}

	commitish, err := p.fetchCommitish(ctx)
	if err != nil {
		return fmt.Errorf("resolve commitish: %w", err)
	}

	logger.InfoKV(ctx, "Pinning artifacts", "version", version, "commitish", commitish)

	manifest := release.NewManifest(p.tag, version, commitish)

	// One descriptor's fetch completes before the next begins.
	for _, platform := range release.Platforms() {
		var artifact release.Artifact

		artifact, err = p.resolveArtifact(ctx, version, platform)
		if err != nil {
			return fmt.Errorf("resolve artifact %s: %w", platform.Descriptor(), err)
		}

		manifest.AddArtifact(platform, artifact)
	}

	if err = p.writeManifest(ctx, manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return p.echoManifest(ctx)
}

// fetchVersion reads the version string from the raw package.json of the tag.
func (p *pinner) fetchVersion(ctx context.Context) (string, error) {
	body, err := p.client.Get(ctx, p.cfg.PackageDescriptorURL(p.tag))
	if err != nil {
		return "", err
	}

	var desc packageDescriptor
	if err = json.Unmarshal(body, &desc); err != nil {
		return "", fmt.Errorf("parse package descriptor: %w", err)
	}

	if desc.Version == "" {
		return "", errVersionMissing
	}

	if _, err = semver.Parse(desc.Version); err != nil {
		return "", fmt.Errorf("version %q is not a semantic version: %w", desc.Version, err)
	}

	return desc.Version, nil
}

// fetchCommitish reads the source commit reference from the releases API document.
func (p *pinner) fetchCommitish(ctx context.Context) (string, error) {
	body, err := p.client.Get(ctx, p.cfg.ReleaseDescriptorURL(p.tag))
	if err != nil {
		return "", err
	}

	var desc releaseDescriptor
	if err = json.Unmarshal(body, &desc); err != nil {
		return "", fmt.Errorf("parse release descriptor: %w", err)
	}

	if desc.TargetCommitish == "" {
		return "", errCommitishMissing
	}

	return desc.TargetCommitish, nil
}

// resolveArtifact fetches the platform's checksum file and derives the record.
// The artifact URL is the checksum URL without the .sha256 suffix.
func (p *pinner) resolveArtifact(ctx context.Context, version string, platform release.Platform) (release.Artifact, error) {
	asset := platform.AssetName(p.cfg.Repo, version)

	body, err := p.client.Get(ctx, p.cfg.ReleaseDownloadURL(p.tag, asset+".sha256"))
	if err != nil {
		return release.Artifact{}, err
	}

	hash, file, err := release.ParseChecksumLine(string(body))
	if err != nil {
		return release.Artifact{}, fmt.Errorf("%s.sha256: %w", asset, err)
	}

	return release.Artifact{
		URL:  p.cfg.ReleaseDownloadURL(p.tag, asset),
		File: file,
		Hash: hash,
	}, nil
}

// writeManifest serializes the manifest and overwrites the output path.
func (p *pinner) writeManifest(ctx context.Context, manifest *release.Manifest) error {
	contents, err := manifest.Encode()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(p.cfg.OutputPath); dir != "." {
		if err = os.MkdirAll(dir, outputDirMode); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	logger.InfoKV(ctx, "Saving pinning manifest", "path", p.cfg.OutputPath)

	return os.WriteFile(p.cfg.OutputPath, contents, manifestFileMode)
}

// echoManifest re-reads the written file and prints it for operator confirmation.
func (p *pinner) echoManifest(ctx context.Context) error {
	contents, err := os.ReadFile(p.cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("re-read manifest: %w", err)
	}

	logger.Infof(ctx, "Wrote %s:\n%s", p.cfg.OutputPath, contents)

	return nil
}
