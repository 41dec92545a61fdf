package output

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNewLocation_DefaultRootIsWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}

	loc := NewLocation("", DefaultSubdirectory)
	if loc.Root() != wd {
		t.Errorf("Root: got %s, want %s", loc.Root(), wd)
	}
	if got, want := loc.OutputPath(), filepath.Join(wd, DefaultSubdirectory); got != want {
		t.Errorf("OutputPath: got %s, want %s", got, want)
	}
}

func TestLocation_OutputPath(t *testing.T) {
	loc := NewLocation("/test/root", ".screenshots")

	if got, want := loc.OutputPath(), filepath.Join("/test/root", ".screenshots"); got != want {
		t.Errorf("OutputPath: got %s, want %s", got, want)
	}
	if loc.UsingRootDirectly() {
		t.Error("new Location should not use the root directly")
	}
}

func TestLocation_Resolve(t *testing.T) {
	loc := NewLocation("/test/root", ".screenshots")

	if got, want := loc.Resolve("test.png"), filepath.Join("/test/root", ".screenshots", "test.png"); got != want {
		t.Errorf("Resolve: got %s, want %s", got, want)
	}
	if got := loc.Resolve(""); got != loc.OutputPath() {
		t.Errorf("Resolve(\"\"): got %s, want %s", got, loc.OutputPath())
	}
}

func TestLocation_WithRoot(t *testing.T) {
	base := NewLocation("/test/root", ".screenshots")

	direct := base.WithRoot("/new/root", true)
	if direct.Root() != "/new/root" {
		t.Errorf("Root: got %s, want /new/root", direct.Root())
	}
	if !direct.UsingRootDirectly() {
		t.Error("UsingRootDirectly should be true")
	}
	if direct.OutputPath() != "/new/root" {
		t.Errorf("OutputPath: got %s, want /new/root", direct.OutputPath())
	}

	// The receiver is unchanged.
	if base.Root() != "/test/root" || base.UsingRootDirectly() {
		t.Errorf("WithRoot mutated the receiver: %+v", base)
	}
}

func TestLocation_WithRoot_RelativeBecomesAbsolute(t *testing.T) {
	loc := NewLocation("/test/root", "shots").WithRoot("relative/dir", false)
	if !filepath.IsAbs(loc.Root()) {
		t.Errorf("Root should be absolute, got %s", loc.Root())
	}
	if !strings.HasSuffix(loc.Root(), filepath.Join("relative", "dir")) {
		t.Errorf("Root should end with relative/dir, got %s", loc.Root())
	}
}

func TestLocation_WithSubdirectory_Sanitizes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "new-dir", "new-dir"},
		{"hidden", ".screenshots", ".screenshots"},
		{"parent reference", "../dangerous", "--dangerous"},
		{"nested", "a/b/c", "a-b-c"},
		{"backslashes", `a\..\b`, "a---b"},
		{"only parents", "../../..", "-----"},
		{"triple dot", "...", "-."},
	}

	base := NewLocation("/test/root", ".screenshots")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := base.WithSubdirectory(tt.in)
			if loc.Subdirectory() != tt.want {
				t.Errorf("Subdirectory: got %q, want %q", loc.Subdirectory(), tt.want)
			}
			out := loc.OutputPath()
			for _, seg := range strings.Split(out, string(filepath.Separator)) {
				if seg == ".." {
					t.Errorf("OutputPath %s contains a '..' segment", out)
				}
			}
			if filepath.Dir(out) != "/test/root" {
				t.Errorf("OutputPath %s is not a direct child of the root", out)
			}
		})
	}
}

func TestLocation_Resolve_NeverEscapes(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantBase string
	}{
		{"parent", "../dangerous.png", "dangerous.png"},
		{"deep parent", "../../../../etc/passwd", "passwd"},
		{"absolute", "/etc/passwd", "passwd"},
		{"windows", `..\..\evil.png`, "evil.png"},
		{"mixed", `a/..\b/../c.png`, "c.png"},
		{"trailing slash", "shots/", "shots"},
		{"bare parent", "..", "_"},
		{"bare dot", ".", "_"},
		{"root only", "/", "_"},
		{"slashes only", "///", "_"},
		{"backslash only", `\`, "_"},
	}

	loc := NewLocation("/test/root", "../escape")
	dir := loc.OutputPath()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loc.Resolve(tt.filename)
			if filepath.Base(got) != tt.wantBase {
				t.Errorf("Resolve(%q) base: got %s, want %s", tt.filename, filepath.Base(got), tt.wantBase)
			}
			if filepath.Dir(got) != dir {
				t.Errorf("Resolve(%q) = %s, not inside %s", tt.filename, got, dir)
			}
			if strings.Contains(got, "..") {
				t.Errorf("Resolve(%q) = %s contains '..'", tt.filename, got)
			}
		})
	}
}

func TestManager_Setters(t *testing.T) {
	m := NewManager(".screenshots", "/test/root")

	if got, want := m.OutputPath(), filepath.Join("/test/root", ".screenshots"); got != want {
		t.Errorf("OutputPath: got %s, want %s", got, want)
	}

	m.SetSubdirectoryName("new-dir")
	if got, want := m.OutputPath(), filepath.Join("/test/root", "new-dir"); got != want {
		t.Errorf("OutputPath after SetSubdirectoryName: got %s, want %s", got, want)
	}

	if m.UsingRootDirectly() {
		t.Error("UsingRootDirectly should start false")
	}
	m.SetRootDirectory("/new/root", true)
	if m.RootDirectory() != "/new/root" {
		t.Errorf("RootDirectory: got %s, want /new/root", m.RootDirectory())
	}
	if !m.UsingRootDirectly() {
		t.Error("UsingRootDirectly should be true")
	}
	if got, want := m.Resolve("a.png"), filepath.Join("/new/root", "a.png"); got != want {
		t.Errorf("Resolve: got %s, want %s", got, want)
	}
}

func TestManager_SnapshotIsIndependent(t *testing.T) {
	m := NewManager(".screenshots", "/test/root")
	snap := m.Location()

	m.SetSubdirectoryName("changed")
	if snap.Subdirectory() != ".screenshots" {
		t.Errorf("snapshot changed after setter: %s", snap.Subdirectory())
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(".screenshots", "/test/root")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.SetSubdirectoryName("dir")
		}()
		go func() {
			defer wg.Done()
			_ = m.Resolve("x.png")
		}()
	}
	wg.Wait()
}
