package formula

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func TestProject_ReadFile(t *testing.T) {
	proj := &Project{
		DirFS: fstest.MapFS{
			"Makefile":       {Data: []byte("all:\n")},
			"CMakeLists.txt": {Data: []byte("project(mattak)\n")},
		},
	}

	data, err := proj.ReadFile("Makefile")
	if err != nil {
		t.Fatalf("ReadFile(Makefile) error = %v", err)
	}
	if string(data) != "all:\n" {
		t.Fatalf("ReadFile(Makefile) = %q, want %q", data, "all:\n")
	}

	if _, err := proj.ReadFile("missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("ReadFile(missing) error = %v, want fs.ErrNotExist", err)
	}
}

func TestProject_Exists(t *testing.T) {
	proj := &Project{
		DirFS: fstest.MapFS{
			"CMakeLists.txt": {Data: []byte("project(mattak)\n")},
		},
	}
	if !proj.Exists("CMakeLists.txt") {
		t.Error("Exists(CMakeLists.txt) = false, want true")
	}
	if proj.Exists("Makefile") {
		t.Error("Exists(Makefile) = true, want false")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(&stubRecipe{info: &Info{Name: "b"}}, &stubRecipe{info: &Info{Name: "a"}})

	if got := r.Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Names() = %v, want [a b]", got)
	}
	if _, err := r.Lookup("a"); err != nil {
		t.Fatalf("Lookup(a) error = %v", err)
	}
	if _, err := r.Lookup("zlib"); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("Lookup(zlib) error = %v, want ErrRecipeNotFound", err)
	}
	if !r.Has("b") || r.Has("zlib") {
		t.Fatal("Has() mismatch")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Register of duplicate name did not panic")
		}
	}()
	r.Register(&stubRecipe{info: &Info{Name: "a"}})
}

func TestPhaseError(t *testing.T) {
	inner := errors.New("exit status 2")
	err := &PhaseError{Phase: PhaseInstall, Package: "mattak", Err: inner}
	if got, want := err.Error(), "install mattak: exit status 2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is(PhaseError, inner) = false")
	}
}
