// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
)

type baselineID struct {
	branchID, baseBranchID string
	key                    entities.NaturalKey
	language               string
}

// memState holds every table of the in-memory store.
type memState struct {
	spaces       map[string]entities.Space
	branches     map[string]entities.Branch
	keys         map[string]entities.TranslationKey
	translations map[string]entities.Translation
	baseline     map[baselineID]entities.BaselineEntry
	activity     []entities.ActivityEntry
}

func newMemState() *memState {
	return &memState{
		spaces:       make(map[string]entities.Space),
		branches:     make(map[string]entities.Branch),
		keys:         make(map[string]entities.TranslationKey),
		translations: make(map[string]entities.Translation),
		baseline:     make(map[baselineID]entities.BaselineEntry),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.spaces {
		c.spaces[k] = v
	}
	for k, v := range s.branches {
		if v.SourceBranchID != nil {
			src := *v.SourceBranchID
			v.SourceBranchID = &src
		}
		c.branches[k] = v
	}
	for k, v := range s.keys {
		c.keys[k] = v
	}
	for k, v := range s.translations {
		c.translations[k] = v
	}
	for k, v := range s.baseline {
		c.baseline[k] = v
	}
	c.activity = append(c.activity, s.activity...)
	return c
}

// Store is an in-memory implementation of ports.Store with real
// transaction semantics: a transaction works on a private copy of the
// state that replaces the committed state only when fn succeeds.
type Store struct {
	txMu  sync.Mutex // serializes transactions
	mu    sync.RWMutex
	state *memState

	// FailOn makes the named Writer method return the error.
	FailOn map[string]error
	// CommitErr is returned instead of committing.
	CommitErr error

	// Call tracking
	TxCount     int
	CommitCount int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		state:  newMemState(),
		FailOn: make(map[string]error),
	}
}

var _ ports.Store = (*Store)(nil)

// EnsureSchema is a no-op.
func (m *Store) EnsureSchema(_ context.Context) error { return nil }

// Close is a no-op.
func (m *Store) Close() error { return nil }

// WithTx runs fn against a copy of the state and commits it on success.
func (m *Store) WithTx(ctx context.Context, fn func(tx ports.Tx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	m.TxCount++
	working := m.state.clone()
	m.mu.Unlock()

	tx := &memTx{memReader: memReader{state: working}, failOn: m.FailOn}
	if err := fn(tx); err != nil {
		return err
	}
	if m.CommitErr != nil {
		return m.CommitErr
	}

	m.mu.Lock()
	m.state = working
	m.CommitCount++
	m.mu.Unlock()
	return nil
}

func (m *Store) reader() memReader {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memReader{state: m.state.clone()}
}

// FindSpace finds a space by its ID.
func (m *Store) FindSpace(ctx context.Context, spaceID string) (*entities.Space, error) {
	return m.reader().FindSpace(ctx, spaceID)
}

// FindBranch finds a branch by its ID.
func (m *Store) FindBranch(ctx context.Context, branchID string) (*entities.Branch, error) {
	return m.reader().FindBranch(ctx, branchID)
}

// FindBranchByName finds a branch by name within a space.
func (m *Store) FindBranchByName(ctx context.Context, spaceID, name string) (*entities.Branch, error) {
	return m.reader().FindBranchByName(ctx, spaceID, name)
}

// ListBranches lists the branches of a space.
func (m *Store) ListBranches(ctx context.Context, spaceID string) ([]entities.Branch, error) {
	return m.reader().ListBranches(ctx, spaceID)
}

// CountBranches counts the branches of a space.
func (m *Store) CountBranches(ctx context.Context, spaceID string) (int, error) {
	return m.reader().CountBranches(ctx, spaceID)
}

// ListKeys lists the keys of a branch.
func (m *Store) ListKeys(ctx context.Context, branchID string) ([]entities.TranslationKey, error) {
	return m.reader().ListKeys(ctx, branchID)
}

// FindKey finds a key by natural identity.
func (m *Store) FindKey(ctx context.Context, branchID string, key entities.NaturalKey) (*entities.TranslationKey, error) {
	return m.reader().FindKey(ctx, branchID, key)
}

// ListTranslations lists the translations of a branch.
func (m *Store) ListTranslations(ctx context.Context, branchID string) ([]entities.Translation, error) {
	return m.reader().ListTranslations(ctx, branchID)
}

// ListBaseline lists baseline entries of a branch pair.
func (m *Store) ListBaseline(ctx context.Context, branchID, baseBranchID string) ([]entities.BaselineEntry, error) {
	return m.reader().ListBaseline(ctx, branchID, baseBranchID)
}

// LogActivity appends an activity entry.
func (m *Store) LogActivity(_ context.Context, entry *entities.ActivityEntry) error {
	if err := m.FailOn["LogActivity"]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = int64(len(m.state.activity) + 1)
	m.state.activity = append(m.state.activity, *entry)
	return nil
}

// ListActivity lists activity entries of a space, newest first.
func (m *Store) ListActivity(_ context.Context, spaceID string, limit int) ([]entities.ActivityEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]entities.ActivityEntry, 0, len(m.state.activity))
	for i := len(m.state.activity) - 1; i >= 0; i-- {
		if m.state.activity[i].SpaceID == spaceID {
			result = append(result, m.state.activity[i])
		}
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// memReader implements ports.Reader over a state snapshot.
type memReader struct {
	state *memState
}

func (r memReader) FindSpace(_ context.Context, spaceID string) (*entities.Space, error) {
	s, ok := r.state.spaces[spaceID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r memReader) FindBranch(_ context.Context, branchID string) (*entities.Branch, error) {
	b, ok := r.state.branches[branchID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r memReader) FindBranchByName(_ context.Context, spaceID, name string) (*entities.Branch, error) {
	for _, b := range r.state.branches {
		if b.SpaceID == spaceID && b.Name == name {
			return &b, nil
		}
	}
	return nil, nil
}

func (r memReader) ListBranches(_ context.Context, spaceID string) ([]entities.Branch, error) {
	result := make([]entities.Branch, 0, 4)
	for _, b := range r.state.branches {
		if b.SpaceID == spaceID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Name < result[j].Name
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r memReader) CountBranches(ctx context.Context, spaceID string) (int, error) {
	branches, err := r.ListBranches(ctx, spaceID)
	return len(branches), err
}

func (r memReader) ListKeys(_ context.Context, branchID string) ([]entities.TranslationKey, error) {
	result := make([]entities.TranslationKey, 0, 16)
	for _, k := range r.state.keys {
		if k.BranchID == branchID {
			result = append(result, k)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NaturalKey().Less(result[j].NaturalKey())
	})
	return result, nil
}

func (r memReader) FindKey(_ context.Context, branchID string, key entities.NaturalKey) (*entities.TranslationKey, error) {
	for _, k := range r.state.keys {
		if k.BranchID == branchID && k.NaturalKey() == key {
			return &k, nil
		}
	}
	return nil, nil
}

func (r memReader) ListTranslations(_ context.Context, branchID string) ([]entities.Translation, error) {
	result := make([]entities.Translation, 0, 16)
	for _, t := range r.state.translations {
		if k, ok := r.state.keys[t.KeyID]; ok && k.BranchID == branchID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].KeyID == result[j].KeyID {
			return result[i].Language < result[j].Language
		}
		return result[i].KeyID < result[j].KeyID
	})
	return result, nil
}

func (r memReader) ListBaseline(_ context.Context, branchID, baseBranchID string) ([]entities.BaselineEntry, error) {
	result := make([]entities.BaselineEntry, 0, 16)
	for id, e := range r.state.baseline {
		if id.branchID == branchID && id.baseBranchID == baseBranchID {
			result = append(result, e)
		}
	}
	return result, nil
}

// memTx implements ports.Tx on a working copy of the state.
type memTx struct {
	memReader
	failOn map[string]error
}

func (t *memTx) fail(method string) error {
	if err := t.failOn[method]; err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (t *memTx) CreateSpace(_ context.Context, space *entities.Space) error {
	if err := t.fail("CreateSpace"); err != nil {
		return err
	}
	t.state.spaces[space.ID] = *space
	return nil
}

func (t *memTx) CreateBranch(_ context.Context, branch *entities.Branch) error {
	if err := t.fail("CreateBranch"); err != nil {
		return err
	}
	if _, ok := t.state.spaces[branch.SpaceID]; !ok {
		return errors.New("foreign key constraint failed: space")
	}
	for _, b := range t.state.branches {
		if b.SpaceID == branch.SpaceID && b.Name == branch.Name {
			return entities.ErrDuplicateBranchName
		}
	}
	t.state.branches[branch.ID] = *branch
	return nil
}

func (t *memTx) SetDefaultBranch(_ context.Context, spaceID, branchID string) error {
	if err := t.fail("SetDefaultBranch"); err != nil {
		return err
	}
	for id, b := range t.state.branches {
		if b.SpaceID == spaceID {
			b.IsDefault = id == branchID
			t.state.branches[id] = b
		}
	}
	return nil
}

func (t *memTx) ReparentBranches(_ context.Context, branchID string, parentID *string) error {
	if err := t.fail("ReparentBranches"); err != nil {
		return err
	}
	for id, b := range t.state.branches {
		if !b.CopiedFrom(branchID) {
			continue
		}
		if parentID != nil {
			for bid, e := range t.state.baseline {
				if bid.branchID != branchID || bid.baseBranchID != *parentID {
					continue
				}
				inherited := bid
				inherited.branchID = id
				if _, ok := t.state.baseline[inherited]; ok {
					continue
				}
				e.BranchID = id
				t.state.baseline[inherited] = e
			}
			parent := *parentID
			b.SourceBranchID = &parent
		} else {
			b.SourceBranchID = nil
		}
		t.state.branches[id] = b
	}
	return nil
}

func (t *memTx) DeleteBranch(_ context.Context, branchID string) error {
	if err := t.fail("DeleteBranch"); err != nil {
		return err
	}
	if _, ok := t.state.branches[branchID]; !ok {
		return entities.ErrNotFound
	}
	delete(t.state.branches, branchID)
	for id, b := range t.state.branches {
		if b.CopiedFrom(branchID) {
			b.SourceBranchID = nil
			t.state.branches[id] = b
		}
	}
	for keyID, k := range t.state.keys {
		if k.BranchID == branchID {
			t.deleteKey(keyID)
		}
	}
	for id := range t.state.baseline {
		if id.branchID == branchID || id.baseBranchID == branchID {
			delete(t.state.baseline, id)
		}
	}
	return nil
}

func (t *memTx) InsertKeys(_ context.Context, keys []entities.TranslationKey) error {
	if err := t.fail("InsertKeys"); err != nil {
		return err
	}
	for i := range keys {
		if _, ok := t.state.branches[keys[i].BranchID]; !ok {
			return errors.New("foreign key constraint failed: branch")
		}
		for _, existing := range t.state.keys {
			if existing.BranchID == keys[i].BranchID && existing.NaturalKey() == keys[i].NaturalKey() {
				return entities.ErrConcurrentModification
			}
		}
		t.state.keys[keys[i].ID] = keys[i]
	}
	return nil
}

func (t *memTx) DeleteKey(_ context.Context, keyID string) error {
	if err := t.fail("DeleteKey"); err != nil {
		return err
	}
	if _, ok := t.state.keys[keyID]; !ok {
		return entities.ErrNotFound
	}
	t.deleteKey(keyID)
	return nil
}

func (t *memTx) deleteKey(keyID string) {
	delete(t.state.keys, keyID)
	for id, tr := range t.state.translations {
		if tr.KeyID == keyID {
			delete(t.state.translations, id)
		}
	}
}

func (t *memTx) InsertTranslations(_ context.Context, translations []entities.Translation) error {
	if err := t.fail("InsertTranslations"); err != nil {
		return err
	}
	for i := range translations {
		if _, ok := t.state.keys[translations[i].KeyID]; !ok {
			return errors.New("foreign key constraint failed: key")
		}
		if _, ok := t.findTranslation(translations[i].KeyID, translations[i].Language); ok {
			return entities.ErrConcurrentModification
		}
		t.state.translations[translations[i].ID] = translations[i]
	}
	return nil
}

func (t *memTx) UpsertTranslation(_ context.Context, translation *entities.Translation) error {
	if err := t.fail("UpsertTranslation"); err != nil {
		return err
	}
	if _, ok := t.state.keys[translation.KeyID]; !ok {
		return errors.New("foreign key constraint failed: key")
	}
	if existing, ok := t.findTranslation(translation.KeyID, translation.Language); ok {
		translation.ID = existing.ID
	}
	t.state.translations[translation.ID] = *translation
	return nil
}

func (t *memTx) findTranslation(keyID, language string) (entities.Translation, bool) {
	for _, tr := range t.state.translations {
		if tr.KeyID == keyID && tr.Language == language {
			return tr, true
		}
	}
	return entities.Translation{}, false
}

func (t *memTx) UpsertBaseline(_ context.Context, entries []entities.BaselineEntry) error {
	if err := t.fail("UpsertBaseline"); err != nil {
		return err
	}
	for i := range entries {
		e := entries[i]
		id := baselineID{branchID: e.BranchID, baseBranchID: e.BaseBranchID, key: e.NaturalKey(), language: e.Language}
		t.state.baseline[id] = e
	}
	return nil
}
