package acme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ksyq12/adcert/internal/errors"
)

// writeMaterial creates a domain directory with chain and key files
func writeMaterial(t *testing.T, root, dir, domain, chain, key string) {
	t.Helper()
	full := filepath.Join(root, dir)
	if err := os.MkdirAll(full, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, chainFile), []byte(chain), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, domain+".key"), []byte(key), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestStoreResolve(t *testing.T) {
	const domain = "app.example.com"

	t.Run("no material", func(t *testing.T) {
		store := NewStoreWithRoots(t.TempDir())
		_, err := store.Resolve(domain)
		if !errors.Is(err, errors.ErrMaterialNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("empty domain", func(t *testing.T) {
		store := NewStoreWithRoots(t.TempDir())
		if _, err := store.Resolve(""); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("rsa material", func(t *testing.T) {
		root := t.TempDir()
		writeMaterial(t, root, domain, domain, "chain", "key")
		store := NewStoreWithRoots(root)

		material, err := store.Resolve(domain)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if material.EC {
			t.Error("plain directory must not be tagged EC")
		}
		if material.CertPath != filepath.Join(root, domain, chainFile) {
			t.Errorf("unexpected cert path: %s", material.CertPath)
		}
	})

	t.Run("ec preferred over rsa", func(t *testing.T) {
		root := t.TempDir()
		writeMaterial(t, root, domain, domain, "rsa chain", "rsa key")
		writeMaterial(t, root, domain+eccSuffix, domain, "ec chain", "ec key")
		store := NewStoreWithRoots(root)

		material, err := store.Resolve(domain)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !material.EC {
			t.Error("EC material must be preferred when both exist")
		}
		if material.CertPath != filepath.Join(root, domain+eccSuffix, chainFile) {
			t.Errorf("unexpected cert path: %s", material.CertPath)
		}
	})

	t.Run("roots searched in order", func(t *testing.T) {
		first := t.TempDir()
		second := t.TempDir()
		writeMaterial(t, second, domain, domain, "chain", "key")
		store := NewStoreWithRoots(first, second)

		material, err := store.Resolve(domain)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if material.KeyPath != filepath.Join(second, domain, domain+".key") {
			t.Errorf("unexpected key path: %s", material.KeyPath)
		}
	})

	t.Run("chain without key is not present", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, domain)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, chainFile), []byte("chain"), 0644); err != nil {
			t.Fatal(err)
		}
		store := NewStoreWithRoots(root)

		if _, err := store.Resolve(domain); !errors.Is(err, errors.ErrMaterialNotFound) {
			t.Errorf("expected NotFound for missing key, got %v", err)
		}
	})

	t.Run("empty files are not present", func(t *testing.T) {
		root := t.TempDir()
		writeMaterial(t, root, domain, domain, "", "")
		store := NewStoreWithRoots(root)

		if _, err := store.Resolve(domain); !errors.Is(err, errors.ErrMaterialNotFound) {
			t.Errorf("expected NotFound for empty files, got %v", err)
		}
	})

	t.Run("broken ec directory falls back to rsa", func(t *testing.T) {
		root := t.TempDir()
		writeMaterial(t, root, domain, domain, "rsa chain", "rsa key")
		// EC directory with chain but no key
		eccDir := filepath.Join(root, domain+eccSuffix)
		if err := os.MkdirAll(eccDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(eccDir, chainFile), []byte("ec chain"), 0644); err != nil {
			t.Fatal(err)
		}
		store := NewStoreWithRoots(root)

		material, err := store.Resolve(domain)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if material.EC {
			t.Error("incomplete EC directory must be skipped")
		}
	})
}
