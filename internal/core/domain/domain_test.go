package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestGenerator_AllTargetName(t *testing.T) {
	tests := []struct {
		name string
		gen  domain.Generator
		want string
	}{
		{name: "ninja uses all", gen: domain.Generator{Name: "Ninja"}, want: "all"},
		{name: "makefiles use all", gen: domain.Generator{Name: "Unix Makefiles"}, want: "all"},
		{name: "visual studio uses ALL_BUILD", gen: domain.Generator{Name: "Visual Studio 17 2022"}, want: "ALL_BUILD"},
		{name: "xcode uses ALL_BUILD", gen: domain.Generator{Name: "Xcode"}, want: "ALL_BUILD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.gen.AllTargetName())
		})
	}
}

func TestParseToolVersion(t *testing.T) {
	v := domain.ParseToolVersion("cmake version 3.28.1\n\nCMake suite maintained by Kitware")
	assert.Equal(t, domain.ToolVersion{Major: 3, Minor: 28}, v)
	assert.True(t, v.AtLeast(3, 12))
	assert.False(t, v.AtLeast(4, 0))

	assert.Equal(t, domain.ToolVersion{}, domain.ParseToolVersion("not a banner"))
	assert.False(t, domain.ToolVersion{}.AtLeast(3, 12))
}

func TestParseTriple(t *testing.T) {
	tests := []struct {
		name   string
		triple string
		want   domain.Triple
	}{
		{
			name:   "full triple with abi",
			triple: "x86_64-pc-linux-gnu",
			want: domain.Triple{
				Triple: "x86_64-pc-linux-gnu",
				Arch:   "x86_64", Vendor: "pc", OS: "linux", ABI: "gnu",
			},
		},
		{
			name:   "darwin with version",
			triple: "arm64-apple-darwin21.6",
			want: domain.Triple{
				Triple: "arm64-apple-darwin21.6",
				Arch:   "arm64", Vendor: "apple", OS: "darwin",
				VersionMajor: "21", VersionMinor: "6",
			},
		},
		{
			name:   "two component triple",
			triple: "riscv64-elf",
			want:   domain.Triple{Triple: "riscv64-elf", Arch: "riscv64", OS: "elf"},
		},
		{
			name:   "empty triple",
			triple: "",
			want:   domain.Triple{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ParseTriple(tt.triple))
		})
	}
}

func TestCacheEntry_Editable(t *testing.T) {
	assert.True(t, domain.CacheEntry{Type: domain.CacheString}.Editable())
	assert.True(t, domain.CacheEntry{Type: domain.CacheBool}.Editable())
	assert.False(t, domain.CacheEntry{Type: domain.CacheStatic}.Editable())
	assert.False(t, domain.CacheEntry{Type: domain.CacheInternal}.Editable())
}

func TestParseCacheEntryType_Unknown(t *testing.T) {
	_, ok := domain.ParseCacheEntryType("MACRO")
	assert.False(t, ok)
}

func TestDetailKeepsSentinelMatchable(t *testing.T) {
	err := domain.Detail(domain.ErrKitNotFound, "kit", "gcc")

	assert.ErrorIs(t, err, domain.ErrKitNotFound)
	assert.EqualError(t, err, domain.ErrKitNotFound.Error())

	// Further metadata keeps the chain intact.
	chained := zerr.With(err, "reason", "renamed")
	assert.ErrorIs(t, chained, domain.ErrKitNotFound)
}
