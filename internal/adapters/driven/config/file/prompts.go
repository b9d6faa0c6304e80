package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// builtinPrompts are seeded into the prompt directory and served whenever
// the matching file cannot be read.
var builtinPrompts = map[string]string{
	driven.PromptSelfQuery: driven.DefaultSelfQueryPrompt,
}

const promptReadme = `# reportrag prompts

Templates used when a language model is configured.

- self_query.txt: turns a question into a search query plus a year/quarter filter.
  Takes two %s placeholders: the attribute list, then the question.
  A template with a different number of placeholders is ignored.

Delete a file to restore its default.
`

// PromptStore serves user-editable prompt templates from <dir>/<name>.txt.
// The directory is seeded on first Load; existing files are never overwritten.
type PromptStore struct {
	dir  string
	seed func() error

	mu     sync.Mutex
	loaded map[string]string
}

// NewPromptStore uses dir, or ~/.reportrag/prompts when dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".reportrag", "prompts")
	}

	s := &PromptStore{dir: dir, loaded: map[string]string{}}
	s.seed = sync.OnceValue(s.writeDefaults)
	return s, nil
}

// Load returns the template called name. A file that is missing or
// unreadable yields the built-in template, if there is one.
func (s *PromptStore) Load(name string) (string, error) {
	seedErr := s.seed()

	s.mu.Lock()
	defer s.mu.Unlock()

	if text, ok := s.loaded[name]; ok {
		return text, nil
	}

	var readErr error
	if seedErr == nil {
		data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
		if err == nil {
			text := strings.TrimSpace(string(data))
			s.loaded[name] = text
			return text, nil
		}
		readErr = err
	} else {
		readErr = seedErr
	}

	if text, ok := builtinPrompts[name]; ok {
		return text, nil
	}
	return "", fmt.Errorf("load prompt %q: %w", name, readErr)
}

// Reload drops cached templates so edits on disk take effect.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.loaded)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) writeDefaults() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	seeds := map[string]string{"README.md": promptReadme}
	for name, text := range builtinPrompts {
		seeds[name+".txt"] = text
	}
	for name, text := range seeds {
		err := writeIfAbsent(filepath.Join(s.dir, name), text)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil
}

func writeIfAbsent(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
