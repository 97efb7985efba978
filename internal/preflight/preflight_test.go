package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"booktrack/internal/config"
	"booktrack/internal/metadata"
	"booktrack/internal/testsupport"
)

type fakeProvider struct {
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "google_books" }

func (f *fakeProvider) Search(context.Context, string, int) ([]metadata.Candidate, error) {
	f.calls++
	return nil, f.err
}

type fakeRepo struct {
	err error
}

func (f fakeRepo) CheckAccess(context.Context) error { return f.err }
func (f fakeRepo) Repository() string                { return "reader/shelf" }

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatableDirectory_Missing(t *testing.T) {
	result := CheckCreatableDirectory("test", filepath.Join(t.TempDir(), "a", "b"))
	if !result.Passed {
		t.Fatalf("expected pass for creatable dir, got: %s", result.Detail)
	}
}

func TestCheckCatalogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.json")

	if result := CheckCatalogFile(path); !result.Passed {
		t.Fatalf("missing catalog should pass, got: %s", result.Detail)
	}

	if err := os.WriteFile(path, []byte(`[{"title":"Dune","author":"Frank Herbert","image":"","status":"reading","start_date":"2024-01-01","end_date":null}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckCatalogFile(path); !result.Passed || result.Detail != "1 entries" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckCatalogFile(path); result.Passed {
		t.Fatal("expected corrupt catalog to fail")
	}
}

func TestCheckGitHub(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := CheckGitHub(context.Background(), cfg, fakeRepo{}); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckGitHub(context.Background(), cfg, fakeRepo{err: errors.New("401 bad credentials")}); result.Passed {
		t.Fatal("expected access failure")
	}
	cfg.GitHub.Token = ""
	if result := CheckGitHub(context.Background(), cfg, fakeRepo{}); result.Passed {
		t.Fatal("expected failure without token")
	}
}

func TestCheckProvider(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	provider := &fakeProvider{}
	result := CheckProvider(context.Background(), cfg, provider)
	if !result.Passed || provider.calls != 1 {
		t.Fatalf("expected one probe and pass, got %+v (%d calls)", result, provider.calls)
	}
	if result.Detail != "reachable (no API key, shared quota)" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}

	if result := CheckProvider(context.Background(), cfg, &fakeProvider{err: errors.New("boom")}); result.Passed {
		t.Fatal("expected provider failure")
	}
	if result := CheckProvider(context.Background(), cfg, nil); result.Passed {
		t.Fatal("expected failure without provider")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWebhookSecret("s3cret"), testsupport.WithLookupCache())
	results := RunAll(context.Background(), cfg, Dependencies{Provider: &fakeProvider{}, GitHub: fakeRepo{}})
	if len(results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(results))
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}

	if AllPassed(RunAll(context.Background(), cfg, Dependencies{Provider: &fakeProvider{}})) {
		t.Fatal("expected missing github client to fail")
	}
}

func TestCheckWebhookSecret(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := CheckWebhookSecret(cfg)
	if !result.Passed || result.Detail != "not set (serve accepts unsigned deliveries)" {
		t.Fatalf("unexpected result: %+v", result)
	}
	cfg.GitHub.WebhookSecret = "s3cret"
	if result := CheckWebhookSecret(cfg); result.Detail != "configured" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), (*config.Config)(nil), Dependencies{}); results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}
