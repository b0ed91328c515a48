package snapshot

import (
	"io"
	"os"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
)

// DefaultExt is the extension every stored snapshot carries.
const DefaultExt = ".csv"

// Decoder turns stored bytes into a dataset of shape T.
type Decoder[T any] func(raw []byte) (T, error)

// Store keeps named snapshots as files in one directory.
// Saves write the uploaded bytes verbatim; Load decodes them on the way out.
// There is no locking: concurrent writers to the same name are last-write-wins.
type Store[T any] struct {
	folder folder
	decode Decoder[T]
	cache  *xsync.Map[string, cacheEntry[T]]
	logger *zap.Logger
}

type cacheEntry[T any] struct {
	size    int64
	modTime time.Time
	value   T
}

type options struct {
	ext    string
	cache  bool
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*options)

// WithExtension overrides DefaultExt.
func WithExtension(ext string) Option {
	return func(o *options) { o.ext = ext }
}

// WithCache keeps decoded snapshots in memory. Entries are revalidated against the
// file's size and modification time, so external overwrites are picked up.
// Cached values are shared between callers and must be treated as read-only.
func WithCache() Option {
	return func(o *options) { o.cache = true }
}

// WithLogger sets the logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns a store rooted at dir. The directory is created lazily on first save.
func New[T any](dir string, decode Decoder[T], opts ...Option) *Store[T] {
	o := &options{ext: DefaultExt, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	s := &Store[T]{
		folder: folder{dir: dir, ext: o.ext},
		decode: decode,
		logger: o.logger,
	}
	if o.cache {
		s.cache = xsync.NewMap[string, cacheEntry[T]]()
	}
	return s
}

// Dir returns the storage directory.
func (s *Store[T]) Dir() string { return s.folder.dir }

// List returns every stored snapshot name in ascending order.
func (s *Store[T]) List() ([]string, error) {
	names, err := s.folder.names()
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return names, nil
}

// Save writes raw to the entry keyed by name, replacing any previous content.
func (s *Store[T]) Save(name string, raw []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := s.folder.ensure(); err != nil {
		return &StorageError{Op: "save", Name: name, Err: err}
	}

	path := s.folder.path(name)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return &StorageError{Op: "save", Name: name, Err: err}
	}
	s.forget(name)

	s.logger.Info("Snapshot saved", zap.String("name", name), zap.String("path", path), zap.Int("bytes", len(raw)))
	return nil
}

// Raw returns the stored bytes of name unchanged.
func (s *Store[T]) Raw(name string) ([]byte, error) {
	raw, _, err := s.read(name)
	return raw, err
}

// Load decodes the snapshot stored under name.
func (s *Store[T]) Load(name string) (T, error) {
	var zero T

	if s.cache != nil {
		if entry, ok := s.cache.Load(name); ok {
			if info, err := os.Stat(s.folder.path(name)); err == nil &&
				info.Size() == entry.size && info.ModTime().Equal(entry.modTime) {
				return entry.value, nil
			}
		}
	}

	raw, info, err := s.read(name)
	if err != nil {
		return zero, err
	}

	value, err := s.decode(raw)
	if err != nil {
		s.logger.Warn("Snapshot failed to parse", zap.String("name", name), zap.Error(err))
		return zero, &ParseError{Name: name, Err: err}
	}

	if s.cache != nil {
		s.cache.Store(name, cacheEntry[T]{size: info.Size(), modTime: info.ModTime(), value: value})
	}
	return value, nil
}

// Delete removes the snapshot. Deleting a missing name returns a NotFoundError.
func (s *Store[T]) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	err := os.Remove(s.folder.path(name))
	s.forget(name)
	if os.IsNotExist(err) {
		return &NotFoundError{Name: name}
	}
	if err != nil {
		return &StorageError{Op: "delete", Name: name, Err: err}
	}

	s.logger.Info("Snapshot deleted", zap.String("name", name))
	return nil
}

func (s *Store[T]) read(name string) ([]byte, os.FileInfo, error) {
	if err := validateName(name); err != nil {
		return nil, nil, err
	}

	file, err := os.Open(s.folder.path(name))
	if os.IsNotExist(err) {
		return nil, nil, &NotFoundError{Name: name}
	}
	if err != nil {
		return nil, nil, &StorageError{Op: "open", Name: name, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, &StorageError{Op: "stat", Name: name, Err: err}
	}
	if info.IsDir() {
		return nil, nil, &NotFoundError{Name: name}
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, &StorageError{Op: "read", Name: name, Err: err}
	}
	return raw, info, nil
}

func (s *Store[T]) forget(name string) {
	if s.cache != nil {
		s.cache.Delete(name)
	}
}
