package acme

import (
	"os"
	"path/filepath"

	"github.com/ksyq12/adcert/internal/errors"
	"github.com/ksyq12/adcert/internal/logger"
)

// Material is issued certificate material located on disk
type Material struct {
	Domain   string `json:"domain"`
	CertPath string `json:"cert_path"` // full chain
	KeyPath  string `json:"key_path"`
	EC       bool   `json:"ec"` // read from an _ecc directory
}

// eccSuffix marks the storage subdirectory acme.sh uses for EC-derived
// material. When both EC and RSA material exist, EC is authoritative.
const eccSuffix = "_ecc"

// chainFile is the certificate chain file name inside a domain directory
const chainFile = "fullchain.cer"

// DefaultRoots returns the storage roots searched when none are
// configured: the invoking user's acme.sh home, then the root user's
func DefaultRoots() []string {
	var roots []string
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".acme.sh"))
	}
	roots = append(roots, "/root/.acme.sh")
	return roots
}

// Store locates issued certificate material across an ordered list of
// storage roots
type Store struct {
	roots []string
}

// NewStore creates a store searching the given roots in order, followed
// by the default roots
func NewStore(roots []string) *Store {
	return &Store{roots: append(append([]string{}, roots...), DefaultRoots()...)}
}

// NewStoreWithRoots creates a store searching exactly the given roots
// (for testing)
func NewStoreWithRoots(roots ...string) *Store {
	return &Store{roots: roots}
}

// Resolve locates the material for a domain.
//
// Each root is checked with the EC-suffixed subdirectory first, then the
// plain one; the first hit wins. Material counts as present only when
// both the chain file and the key file exist and are non-empty, so a
// half-written directory surfaces as NotFound here rather than as a
// confusing failure inside the installer.
func (s *Store) Resolve(domain string) (*Material, error) {
	if domain == "" {
		return nil, errors.Validation("domain cannot be empty")
	}

	for _, root := range s.roots {
		for _, suffix := range []string{eccSuffix, ""} {
			dir := filepath.Join(root, domain+suffix)
			certPath := filepath.Join(dir, chainFile)
			keyPath := filepath.Join(dir, domain+".key")

			if !fileNonEmpty(certPath) {
				continue
			}
			if !fileNonEmpty(keyPath) {
				logger.Warn("chain present but key missing or empty in %s, skipping", dir)
				continue
			}

			logger.Debug("resolved material for %s in %s", domain, dir)
			return &Material{
				Domain:   domain,
				CertPath: certPath,
				KeyPath:  keyPath,
				EC:       suffix == eccSuffix,
			}, nil
		}
	}

	return nil, errors.NotFound(domain)
}

// fileNonEmpty reports whether path is an existing, non-empty regular file
func fileNonEmpty(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}
