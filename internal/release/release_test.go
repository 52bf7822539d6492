package release

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPlatformDescriptor checks descriptor rendering and package type lowering.
func TestPlatformDescriptor(t *testing.T) {
	t.Parallel()

	p := Platform{OS: "linux", Arch: "x64", Ext: "AppImage"}
	require.Equal(t, "linux-x64.AppImage", p.Descriptor())
	require.Equal(t, "appimage", p.PackageType())

	p = Platform{OS: "linux", Arch: "arm64", Ext: "tar.gz"}
	require.Equal(t, "linux-arm64.tar.gz", p.Descriptor())
	require.Equal(t, "tar.gz", p.PackageType())
}

// TestAssetName checks the published asset filename template.
func TestAssetName(t *testing.T) {
	t.Parallel()

	p := Platform{OS: "win", Arch: "x64", Ext: "exe"}
	require.Equal(t, "n3h-1.2.3-win-x64.exe", p.AssetName("n3h", "1.2.3"))
}

// TestPlatformsFixedList ensures the pinned flavor list is stable.
func TestPlatformsFixedList(t *testing.T) {
	t.Parallel()

	platforms := Platforms()
	require.Len(t, platforms, 10)

	// Order is part of the contract: artifacts are fetched sequentially in list order.
	require.Equal(t, Platform{OS: "linux", Arch: "x64", Ext: "AppImage"}, platforms[0])
	require.Equal(t, Platform{OS: "win", Arch: "ia32", Ext: "exe"}, platforms[9])

	seen := make(map[string]struct{}, len(platforms))
	for _, p := range platforms {
		_, duplicate := seen[p.Descriptor()]
		require.False(t, duplicate, "duplicate descriptor %s", p.Descriptor())

		seen[p.Descriptor()] = struct{}{}
	}
}

// TestParseChecksumLine covers the two-token format, surrounding whitespace,
// multi-line content (first match wins) and malformed input.
func TestParseChecksumLine(t *testing.T) {
	t.Parallel()

	hash, file, err := ParseChecksumLine("abc123  n3h-1.2.3-win-x64.exe\n")
	require.NoError(t, err)
	require.Equal(t, "abc123", hash)
	require.Equal(t, "n3h-1.2.3-win-x64.exe", file)

	hash, file, err = ParseChecksumLine("\n  f00d  first.bin\ndead  second.bin\n")
	require.NoError(t, err)
	require.Equal(t, "f00d", hash)
	require.Equal(t, "first.bin", file)

	_, _, err = ParseChecksumLine("only-one-token")
	require.Error(t, err)

	_, _, err = ParseChecksumLine("")
	require.Error(t, err)
}

// TestManifestAddArtifact ensures nested map levels are created together
// and records land at [os][arch][type].
func TestManifestAddArtifact(t *testing.T) {
	t.Parallel()

	m := NewManifest("v1.2.3-tag", "1.2.3", "abcdef0")
	require.Equal(t, "v1.2.3", m.Version)
	require.Equal(t, "v1.2.3-tag", m.Release)
	require.Equal(t, "abcdef0", m.Commitish)
	require.NotEmpty(t, m.Warning)

	a := Artifact{URL: "https://example.com/n3h-1.2.3-win-x64.exe", File: "n3h-1.2.3-win-x64.exe", Hash: "abc123"}
	m.AddArtifact(Platform{OS: "win", Arch: "x64", Ext: "exe"}, a)
	m.AddArtifact(Platform{OS: "win", Arch: "x64", Ext: "tar.gz"}, Artifact{Hash: "beef"})

	require.Equal(t, a, m.Artifacts["win"]["x64"]["exe"])
	require.Equal(t, "beef", m.Artifacts["win"]["x64"]["tar.gz"].Hash)
}

// TestManifestEncode checks 2-space indentation, JSON keys and the trailing newline.
func TestManifestEncode(t *testing.T) {
	t.Parallel()

	m := NewManifest("tag", "1.0.0", "c0ffee")
	m.AddArtifact(Platform{OS: "mac", Arch: "x64", Ext: "dmg"}, Artifact{URL: "u", File: "f", Hash: "h"})

	contents, err := m.Encode()
	require.NoError(t, err)
	require.True(t, contents[len(contents)-1] == '\n')
	require.Contains(t, string(contents), "\n  \"_warning\":")
	require.Contains(t, string(contents), "\"commitish\": \"c0ffee\"")

	var decoded Manifest

	require.NoError(t, json.Unmarshal(contents, &decoded))
	require.Equal(t, "h", decoded.Artifacts["mac"]["x64"]["dmg"].Hash)
}
