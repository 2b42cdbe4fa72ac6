// Package store owns all per-session state: one private in-memory SQLite
// engine per session for tabular data, plus the extracted text of an
// uploaded document. Sessions are keyed by an opaque caller-supplied
// identifier and hold no state across process restarts.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

const cleanupInterval = 5 * time.Minute

// Store is the session registry. Engine handles live in a mutex-guarded map;
// schema snapshots and document contexts live in go-cache so an optional TTL
// can evict abandoned sessions. Evicting a schema closes its engine, so an
// expired session never leaks a database handle.
type Store struct {
	mu      sync.Mutex
	engines map[string]*sql.DB

	schemas   *cache.Cache
	documents *cache.Cache
	logger    *zap.Logger
}

// New creates a session store. ttl of zero disables expiry: sessions then
// live until explicit cleanup.
func New(ttl time.Duration, logger *zap.Logger) *Store {
	expiry := cache.NoExpiration
	interval := time.Duration(0)
	if ttl > 0 {
		expiry = ttl
		interval = cleanupInterval
	}

	s := &Store{
		engines:   make(map[string]*sql.DB),
		schemas:   cache.New(expiry, interval),
		documents: cache.New(expiry, interval),
		logger:    logger,
	}

	s.schemas.OnEvicted(func(sessionID string, _ any) {
		s.closeEngine(sessionID)
	})

	return s
}

// Engine returns the session's private in-memory engine, creating it on
// first use. Each session gets a uniquely named shared-cache memory database
// so a session's connections see one database and no other session can
// reach it.
func (s *Store) Engine(sessionID string) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.engines[sessionID]; ok {
		return db, nil
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session engine: %w", err)
	}

	// A memory database lives only while a connection holds it open. Pin a
	// single resident connection so loaded tables survive between requests.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	s.engines[sessionID] = db
	s.logger.Info("session engine created", zap.String("session_id", sessionID))
	return db, nil
}

// HasTabular reports whether the session has a loaded table.
func (s *Store) HasTabular(sessionID string) bool {
	_, ok := s.schemas.Get(sessionID)
	return ok
}

// Schema returns the session's schema snapshot from the last load.
func (s *Store) Schema(sessionID string) (entity.SchemaInfo, bool) {
	v, ok := s.schemas.Get(sessionID)
	if !ok {
		return entity.SchemaInfo{}, false
	}
	return v.(entity.SchemaInfo), true
}

// PutDocument stores the session's document context, replacing any prior one.
func (s *Store) PutDocument(sessionID string, doc entity.DocumentContext) {
	s.documents.SetDefault(sessionID, doc)
}

// Document returns the session's document context.
func (s *Store) Document(sessionID string) (entity.DocumentContext, bool) {
	v, ok := s.documents.Get(sessionID)
	if !ok {
		return entity.DocumentContext{}, false
	}
	return v.(entity.DocumentContext), true
}

// HasDocument reports whether the session has an uploaded document.
func (s *Store) HasDocument(sessionID string) bool {
	_, ok := s.documents.Get(sessionID)
	return ok
}

// CloseSession releases everything the session owns. Idempotent: closing an
// absent or already-closed session is a no-op.
func (s *Store) CloseSession(sessionID string) {
	s.schemas.Delete(sessionID)
	s.documents.Delete(sessionID)
	s.closeEngine(sessionID)
}

func (s *Store) closeEngine(sessionID string) {
	s.mu.Lock()
	db, ok := s.engines[sessionID]
	if ok {
		delete(s.engines, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	if err := db.Close(); err != nil {
		s.logger.Warn("close session engine", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	s.logger.Info("session engine closed", zap.String("session_id", sessionID))
}

// Close shuts down every session engine. Used on application shutdown.
func (s *Store) Close() {
	s.mu.Lock()
	engines := s.engines
	s.engines = make(map[string]*sql.DB)
	s.mu.Unlock()

	for sessionID, db := range engines {
		if err := db.Close(); err != nil {
			s.logger.Warn("close session engine", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}
