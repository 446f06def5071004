package probe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mason/internal/adapters/probe"
)

func TestClassifyBasename(t *testing.T) {
	tests := []struct {
		path     string
		wantKind probe.CompilerKind
		wantOK   bool
	}{
		{path: "/usr/bin/gcc", wantKind: probe.KindGCC, wantOK: true},
		{path: "/usr/bin/gcc-13", wantKind: probe.KindGCC, wantOK: true},
		{path: "/usr/bin/g++", wantKind: probe.KindGCC, wantOK: true},
		{path: "/opt/llvm/bin/clang++", wantKind: probe.KindClang, wantOK: true},
		{path: `C:\LLVM\bin\clang-cl.exe`, wantKind: probe.KindClang, wantOK: true},
		{path: "cl.exe", wantKind: probe.KindMSVC, wantOK: true},
		{path: "/opt/intel/bin/icx", wantKind: probe.KindIntel, wantOK: true},
		{path: "/usr/bin/rustc", wantOK: false},
		{path: "/usr/bin/tcc", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, ok := probe.ClassifyBasename(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKind, kind)
			}
		})
	}
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name   string
		kind   probe.CompilerKind
		output string
		want   string
	}{
		{
			name:   "gcc",
			kind:   probe.KindGCC,
			output: "gcc (Ubuntu 13.2.0-4ubuntu3) 13.2.0\nCopyright (C) 2023 Free Software Foundation, Inc.",
			want:   "13.2.0",
		},
		{
			name:   "clang",
			kind:   probe.KindClang,
			output: "clang version 17.0.6\nTarget: x86_64-pc-linux-gnu",
			want:   "17.0.6",
		},
		{
			name:   "msvc banner",
			kind:   probe.KindMSVC,
			output: "Microsoft (R) C/C++ Optimizing Compiler Version 19.38.33133 for x64",
			want:   "19.38.33133",
		},
		{
			name:   "no version in output",
			kind:   probe.KindGCC,
			output: "command not understood",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, probe.ExtractVersion(tt.kind, tt.output))
		})
	}
}
