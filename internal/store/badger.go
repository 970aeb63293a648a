package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyParamoshkin/articles/internal/model"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

var (
	articlePrefix = []byte("article/")
	sequenceKey   = []byte("seq/article")
)

// BadgerStore keeps articles in an embedded Badger database, one JSON value
// per article keyed by its big-endian id.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
	now func() time.Time
}

// OpenBadger opens the database at path. An empty path opens an in-memory
// database.
func OpenBadger(path string, logger *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	if logger != nil {
		opts.Logger = badgerLogger{logger.Sugar().Named("badger")}
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	s, err := NewBadgerStore(db)
	if err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB) (*BadgerStore, error) {
	seq, err := db.GetSequence(sequenceKey, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to get id sequence: %w", err)
	}

	return &BadgerStore{db: db, seq: seq, now: time.Now}, nil
}

// Close releases the id lease and closes the database.
func (s *BadgerStore) Close() error {
	if err := s.seq.Release(); err != nil {
		s.db.Close()

		return fmt.Errorf("failed to release id sequence: %w", err)
	}

	return s.db.Close()
}

func articleKey(id int64) []byte {
	key := make([]byte, len(articlePrefix)+8)
	copy(key, articlePrefix)
	binary.BigEndian.PutUint64(key[len(articlePrefix):], uint64(id))

	return key
}

func (s *BadgerStore) List(ctx context.Context, offset, limit int) ([]model.Article, error) {
	articles := []model.Article{}
	if limit <= 0 {
		return articles, nil
	}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = articlePrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		skipped := 0
		for it.Seek(lastArticleKey()); it.ValidForPrefix(articlePrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if skipped < offset {
				skipped++

				continue
			}

			var a model.Article
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &a)
			})
			if err != nil {
				return err
			}
			articles = append(articles, a)
			if len(articles) == limit {
				break
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return articles, nil
}

func lastArticleKey() []byte {
	key := append([]byte{}, articlePrefix...)
	for i := 0; i < 9; i++ {
		key = append(key, 0xFF)
	}

	return key
}

func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = articlePrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(articlePrefix); it.ValidForPrefix(articlePrefix); it.Next() {
			count++
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return count, nil
}

func (s *BadgerStore) Get(ctx context.Context, id int64) (*model.Article, error) {
	var article *model.Article
	err := s.db.View(func(txn *badger.Txn) error {
		a, err := getArticle(txn, id)
		article = a

		return err
	})
	if err != nil {
		return nil, err
	}

	return article, nil
}

func getArticle(txn *badger.Txn, id int64) (*model.Article, error) {
	item, err := txn.Get(articleKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get article %d: %w", id, err)
	}

	var a model.Article
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &a)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode article %d: %w", id, err)
	}

	return &a, nil
}

func putArticle(txn *badger.Txn, article *model.Article) error {
	data, err := json.Marshal(article)
	if err != nil {
		return err
	}

	return txn.Set(articleKey(article.ID), data)
}

// Create assigns the next id from the sequence. Sequence values start at 0,
// ids start at 1.
func (s *BadgerStore) Create(ctx context.Context, article *model.Article) error {
	n, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("failed to allocate article id: %w", err)
	}

	created := *article
	created.ID = int64(n) + 1
	now := s.now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return putArticle(txn, &created)
	}); err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}

	*article = created

	return nil
}

// Update overwrites title and body of an existing article and bumps
// UpdatedAt. CreatedAt is kept from the stored record.
func (s *BadgerStore) Update(ctx context.Context, article *model.Article) error {
	var updated *model.Article
	err := s.db.Update(func(txn *badger.Txn) error {
		current, err := getArticle(txn, article.ID)
		if err != nil {
			return err
		}

		current.Title = article.Title
		current.Body = article.Body
		current.UpdatedAt = s.now().UTC()
		updated = current

		return putArticle(txn, current)
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	*article = *updated

	return nil
}

func (s *BadgerStore) Delete(ctx context.Context, id int64) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := getArticle(txn, id); err != nil {
			return err
		}

		return txn.Delete(articleKey(id))
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	return nil
}

// badgerLogger routes badger's internal logging through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
