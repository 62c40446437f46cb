package build

import (
	"archive/tar"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"
)

func TestArchive(t *testing.T) {
	prefix := t.TempDir()
	files := map[string]string{
		"include/mattak/Header.h": "#pragma once\n",
		"lib/libmattak.so":        "ELF",
	}
	for name, content := range files {
		path := filepath.Join(prefix, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Symlink("libmattak.so", filepath.Join(prefix, "lib", "libmattak.so.1")); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "mattak.tar.xz")
	if err := Archive(prefix, out); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	xr, err := xz.NewReader(f)
	if err != nil {
		t.Fatalf("not an xz stream: %v", err)
	}
	tr := tar.NewReader(xr)
	var names []string
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeReg:
			data, err := io.ReadAll(tr)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != files[hdr.Name] {
				t.Errorf("%s = %q, want %q", hdr.Name, data, files[hdr.Name])
			}
		case tar.TypeSymlink:
			if hdr.Linkname != "libmattak.so" {
				t.Errorf("%s links to %q", hdr.Name, hdr.Linkname)
			}
		}
	}
	sort.Strings(names)
	want := "include/ include/mattak/ include/mattak/Header.h lib/ lib/libmattak.so lib/libmattak.so.1"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("entries = %q, want %q", got, want)
	}
}

func TestArchiveMissingPrefix(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.tar.xz")
	if err := Archive(filepath.Join(t.TempDir(), "missing"), out); err == nil {
		t.Fatal("Archive() of a missing prefix succeeded")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("partial archive left behind")
	}
}
