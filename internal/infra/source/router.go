package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"quiz-helper/internal/domain"
)

// LibraryPrefix marks sources served by the quiz library instead of the filesystem.
const LibraryPrefix = "pg:"

// QuizLoader fetches quiz content from a backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, source string) (domain.Quiz, error)
}

// Router dispatches `pg:<id>` sources to the library loader and everything else to files.
type Router struct {
	files   QuizLoader
	library QuizLoader

	confined bool
	fileRoot string
}

// RouterOption customizes a Router.
type RouterOption func(*Router)

// WithFileRoot restricts file sources to relative paths resolved inside dir.
// An empty dir means the working directory.
func WithFileRoot(dir string) RouterOption {
	return func(r *Router) {
		r.confined = true
		r.fileRoot = dir
	}
}

// NewRouter builds a router; library may be nil when no database is configured.
func NewRouter(files, library QuizLoader, opts ...RouterOption) *Router {
	r := &Router{files: files, library: library}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) LoadQuiz(ctx context.Context, src string) (domain.Quiz, error) {
	id, ok := strings.CutPrefix(src, LibraryPrefix)
	if !ok {
		path, err := r.filePath(src)
		if err != nil {
			return domain.Quiz{}, err
		}
		return r.files.LoadQuiz(ctx, path)
	}
	if r.library == nil {
		return domain.Quiz{}, fmt.Errorf("quiz library not configured, cannot load %q", src)
	}
	return r.library.LoadQuiz(ctx, id)
}

func (r *Router) filePath(src string) (string, error) {
	if !r.confined {
		return src, nil
	}
	// IsLocal rejects absolute paths, parent escapes and empty names
	if !filepath.IsLocal(src) {
		return "", fmt.Errorf("%w: %q", domain.ErrSourceNotAllowed, src)
	}
	if r.fileRoot == "" {
		return src, nil
	}
	return filepath.Join(r.fileRoot, src), nil
}
