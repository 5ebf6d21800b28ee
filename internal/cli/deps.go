package cli

import (
	"bufio"
	"os"

	"github.com/ksyq12/adcert/internal/config"
	"github.com/ksyq12/adcert/internal/executor"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader ConfigLoader
	Executor     executor.CommandExecutor
	StdinReader  StdinReader
}

// ConfigLoader handles configuration loading and saving
type ConfigLoader interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
}

// StdinReader reads from stdin
type StdinReader interface {
	ReadString(delim byte) (string, error)
}

// Package-level dependencies (can be overridden for testing)
var deps = defaultDeps()

func defaultDeps() *Dependencies {
	return &Dependencies{
		ConfigLoader: &realConfigLoader{},
		Executor:     executor.NewSystemExecutor(),
		StdinReader:  &realStdinReader{},
	}
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// ResetDeps restores the default dependencies (for testing)
func ResetDeps() {
	deps = defaultDeps()
}

// Real implementations that delegate to existing functions

type realConfigLoader struct{}

func (r *realConfigLoader) Load() (*config.Config, error) {
	return config.Load()
}

func (r *realConfigLoader) Save(cfg *config.Config) error {
	return cfg.Save()
}

type realStdinReader struct {
	reader *bufio.Reader
}

func (r *realStdinReader) ReadString(delim byte) (string, error) {
	if r.reader == nil {
		r.reader = bufio.NewReader(os.Stdin)
	}
	return r.reader.ReadString(delim)
}
