// Package ledger tracks content digests of previously written .tbd
// artifacts across runs, backing the --skip-unchanged flag. Modeled on the
// teacher's pkg/history: a directory of timestamped files, read by finding
// the most recent one, appended by writing a fresh timestamped snapshot.
package ledger

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	digest "github.com/opencontainers/go-digest"

	"github.com/tagliamonte-labs/dsctbd/pkg/log"
)

const (
	ledgerDirName    = ".dsctbd-ledger"
	ledgerNamePrefix = "extraction-"
)

// Ledger records destination-path -> content-digest pairs from the most
// recent run, so a later run can skip re-writing unchanged artifacts.
type Ledger interface {
	Read() (map[string]string, error)
	Append(entries map[string]string) (map[string]string, error)
}

// FileCreator abstracts the ledger file's creation, mirroring the
// teacher's history.FileCreator seam for testability.
type FileCreator interface {
	Create(name string) (io.WriteCloser, error)
}

// OSFileCreator is the default FileCreator.
type OSFileCreator struct{}

func (OSFileCreator) Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return f, nil
}

type fileLedger struct {
	dir         string
	fileCreator FileCreator
	logger      log.PluggableLoggerInterface
}

// New returns a Ledger rooted at workingDir/.dsctbd-ledger.
func New(workingDir string, logger log.PluggableLoggerInterface, fileCreator FileCreator) (Ledger, error) {
	if logger == nil {
		logger = log.New("error")
	}
	dir := filepath.Join(workingDir, ledgerDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return fileLedger{dir: dir, fileCreator: fileCreator, logger: logger}, nil
}

// Digest computes the content digest ledger entries are keyed by.
func Digest(content []byte) string {
	return digest.FromBytes(content).String()
}

func (l fileLedger) Read() (map[string]string, error) {
	entries := make(map[string]string)

	latest, err := l.latestFile()
	if err != nil {
		return entries, err
	}
	if latest == "" {
		return entries, nil
	}

	f, err := os.Open(latest)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		path, sum, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		entries[path] = sum
	}
	return entries, scanner.Err()
}

func (l fileLedger) Append(entries map[string]string) (map[string]string, error) {
	merged, err := l.Read()
	if err != nil {
		return nil, err
	}
	for k, v := range entries {
		merged[k] = v
	}

	name := filepath.Join(l.dir, ledgerNamePrefix+time.Now().UTC().Format(time.RFC3339))
	f, err := l.fileCreator.Create(name)
	if err != nil {
		return merged, fmt.Errorf("%w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for path, sum := range merged {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", path, sum); err != nil {
			l.logger.Error("unable to write ledger entry: %s", err.Error())
			return merged, fmt.Errorf("%w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return merged, fmt.Errorf("%w", err)
	}
	return merged, nil
}

func (l fileLedger) latestFile() (string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}

	var latest fs.DirEntry
	var latestTime time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), ledgerNamePrefix) {
			continue
		}
		t, err := time.Parse(time.RFC3339, strings.TrimPrefix(e.Name(), ledgerNamePrefix))
		if err != nil {
			continue
		}
		if t.After(latestTime) {
			latest = e
			latestTime = t
		}
	}
	if latest == nil {
		return "", nil
	}
	return filepath.Join(l.dir, latest.Name()), nil
}
