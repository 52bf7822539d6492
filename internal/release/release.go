package release

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Warning is embedded into every manifest so nobody edits the file by hand.
const Warning = "AUTO-GENERATED FILE. Do not edit; run n3h-pin <release-tag> to regenerate."

var (
	// errNoChecksumPair is returned when a checksum file lacks a hash/filename pair.
	errNoChecksumPair = errors.New("checksum file does not contain a hash and filename pair")

	// checksumPattern matches one "<hash> <filename>" line. Checksum files may
	// contain several lines; the first match wins.
	checksumPattern = regexp.MustCompile(`(\S+)\s+(\S+)`)
)

// Platform identifies one published build flavor of the pinned binary.
type Platform struct {
	// OS is the operating system segment of the asset name (linux, mac, win).
	OS string
	// Arch is the architecture segment of the asset name (x64, ia32, arm, arm64).
	Arch string
	// Ext is the package extension as it appears in the asset name (tar.gz, AppImage, dmg, exe).
	Ext string
}

// Descriptor renders the platform as it appears in published asset names.
func (p Platform) Descriptor() string {
	return fmt.Sprintf("%s-%s.%s", p.OS, p.Arch, p.Ext)
}

// PackageType is the manifest key for the platform's package format.
// It is the extension lower-cased (AppImage becomes appimage).
func (p Platform) PackageType() string {
	return strings.ToLower(p.Ext)
}

// AssetName renders the published asset filename for one release of a platform.
// The version here is the raw package.json version, without the v prefix.
func (p Platform) AssetName(repo, version string) string {
	return fmt.Sprintf("%s-%s-%s", repo, version, p.Descriptor())
}

// Platforms returns the fixed ordered list of build flavors published per release.
// Every entry must produce exactly one artifact record in the manifest.
func Platforms() []Platform {
	return []Platform{
		{OS: "linux", Arch: "x64", Ext: "AppImage"},
		{OS: "linux", Arch: "x64", Ext: "tar.gz"},
		{OS: "linux", Arch: "ia32", Ext: "tar.gz"},
		{OS: "linux", Arch: "arm", Ext: "tar.gz"},
		{OS: "linux", Arch: "arm64", Ext: "tar.gz"},
		{OS: "mac", Arch: "x64", Ext: "dmg"},
		{OS: "mac", Arch: "x64", Ext: "tar.gz"},
		{OS: "win", Arch: "x64", Ext: "exe"},
		{OS: "win", Arch: "x64", Ext: "tar.gz"},
		{OS: "win", Arch: "ia32", Ext: "exe"},
	}
}

// Artifact records the pinned download metadata for one platform build.
type Artifact struct {
	// URL is the direct download address of the binary.
	URL string `json:"url"`
	// File is the checksummed filename as reported by the checksum file.
	File string `json:"file"`
	// Hash is the hash value as reported by the checksum file.
	Hash string `json:"hash"`
}

// Manifest is the pinning document consumed by downstream build tooling.
type Manifest struct {
	// Warning tells readers the file is generated.
	Warning string `json:"_warning"`
	// Release is the tag the manifest was generated from.
	Release string `json:"release"`
	// Version is the package.json version prefixed with v.
	Version string `json:"version"`
	// Commitish is the source commit the release was built from.
	Commitish string `json:"commitish"`
	// Artifacts maps OS, then architecture, then package type to one artifact.
	Artifacts map[string]map[string]map[string]Artifact `json:"artifacts"`
}

// NewManifest produces a Manifest with the warning banner and empty artifact map.
func NewManifest(tag, version, commitish string) *Manifest {
	return &Manifest{
		Warning:   Warning,
		Release:   tag,
		Version:   "v" + version,
		Commitish: commitish,
		Artifacts: make(map[string]map[string]map[string]Artifact),
	}
}

// AddArtifact files the artifact under [os][arch][package type],
// creating intermediate map levels on first use.
func (m *Manifest) AddArtifact(p Platform, a Artifact) {
	byArch, ok := m.Artifacts[p.OS]
	if !ok {
		byArch = make(map[string]map[string]Artifact)
		m.Artifacts[p.OS] = byArch
	}

	byType, ok := byArch[p.Arch]
	if !ok {
		byType = make(map[string]Artifact)
		byArch[p.Arch] = byType
	}

	byType[p.PackageType()] = a
}

// Encode serializes the manifest as indented JSON with a trailing newline.
func (m *Manifest) Encode() ([]byte, error) {
	contents, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	return append(contents, '\n'), nil
}

// ParseChecksumLine extracts the hash and filename from checksum file contents.
// Surrounding whitespace is ignored and the first matching pair wins when the
// file carries several lines.
func ParseChecksumLine(contents string) (hash, file string, err error) {
	match := checksumPattern.FindStringSubmatch(strings.TrimSpace(contents))
	if match == nil {
		return "", "", errNoChecksumPair
	}

	return match[1], match[2], nil
}
