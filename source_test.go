package htmlpng

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "page.html")
	if err := os.WriteFile(file, []byte("<p>hi</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("inline wins over everything", func(t *testing.T) {
		for _, input := range []string{"https://example.com", file, "<b>x</b>", ""} {
			src, err := Classify(input, true)
			if err != nil {
				t.Fatalf("Classify(%q, true) error: %v", input, err)
			}
			inline, ok := src.(InlineHTML)
			if !ok || inline.HTML != input {
				t.Errorf("Classify(%q, true) = %#v, want InlineHTML", input, src)
			}
		}
	})

	t.Run("urls", func(t *testing.T) {
		for _, input := range []string{"http://example.com", "https://example.com/a?b=c#d", "HTTPS://Example.com/"} {
			src, err := Classify(input, false)
			if err != nil {
				t.Fatalf("Classify(%q) error: %v", input, err)
			}
			if _, ok := src.(RemoteURL); !ok {
				t.Errorf("Classify(%q) = %#v, want RemoteURL", input, src)
			}
		}
	})

	t.Run("existing file", func(t *testing.T) {
		src, err := Classify(file, false)
		if err != nil {
			t.Fatal(err)
		}
		local, ok := src.(LocalFile)
		if !ok {
			t.Fatalf("Classify(%q) = %#v, want LocalFile", file, src)
		}
		if !filepath.IsAbs(local.Path) || local.Path != file {
			t.Errorf("Expected absolute path %q, got %q", file, local.Path)
		}
	})

	t.Run("relative file is made absolute", func(t *testing.T) {
		t.Chdir(dir)

		src, err := Classify("page.html", false)
		if err != nil {
			t.Fatal(err)
		}
		local, ok := src.(LocalFile)
		if !ok || !filepath.IsAbs(local.Path) {
			t.Errorf("Expected absolute LocalFile, got %#v", src)
		}
	})

	t.Run("unresolved", func(t *testing.T) {
		for _, input := range []string{
			"<h1>Hello</h1>",
			"ftp://example.com/file.html",
			"file:///etc/hostname",
			"example.com",
			"http://",
			filepath.Join(dir, "missing.html"),
			dir, // directories are not files
		} {
			_, err := Classify(input, false)

			var inputErr *InputResolutionError
			if !errors.As(err, &inputErr) {
				t.Errorf("Classify(%q): expected InputResolutionError, got %v", input, err)
			}
			if ExitCode(err) != ExitUnresolvedInput {
				t.Errorf("Classify(%q): expected exit code %d, got %d", input, ExitUnresolvedInput, ExitCode(err))
			}
		}
	})
}
