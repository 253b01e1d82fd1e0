package mockapi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/restcontract/rest-contract-tests/data"
	"github.com/restcontract/rest-contract-tests/servicedef"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateID       = errors.New("insert failed, duplicate id")
	ErrNotAnObject       = errors.New("record must be a JSON object")
)

// Store holds the records of every collection. It is safe for concurrent use.
type Store struct {
	collections map[string][]ldvalue.Value
	lock        sync.RWMutex
}

// NewStore creates a Store with an empty collection for each name.
func NewStore(collections ...string) *Store {
	s := &Store{collections: make(map[string][]ldvalue.Value, len(collections))}
	for _, c := range collections {
		s.collections[c] = nil
	}
	return s
}

// NewStoreFromFixtures creates a Store containing every collection in servicedef.AllResources,
// seeded from the fixtures.
func NewStoreFromFixtures(fixtures data.FixtureSet) (*Store, error) {
	s := NewStore(servicedef.AllResources...)
	for _, name := range fixtures.Collections() {
		f, _ := fixtures.Get(name)
		records, err := f.Seed.Expand()
		if err != nil {
			return nil, fmt.Errorf("seeding %q: %w", name, err)
		}
		if err := s.Seed(name, records...); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Seed adds records to a collection without any duplicate checks.
func (s *Store) Seed(collection string, records ...ldvalue.Value) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	existing, ok := s.collections[collection]
	if !ok {
		return ErrUnknownCollection
	}
	s.collections[collection] = append(existing, records...)
	return nil
}

// HasCollection returns true if the collection exists.
func (s *Store) HasCollection(collection string) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, ok := s.collections[collection]
	return ok
}

// List returns a copy of the records in a collection, in insertion order.
func (s *Store) List(collection string) ([]ldvalue.Value, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	records, ok := s.collections[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}
	return append([]ldvalue.Value(nil), records...), nil
}

// Get returns the record whose id has the string form id.
func (s *Store) Get(collection, id string) (ldvalue.Value, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	records, pos, err := s.find(collection, id)
	if err != nil {
		return ldvalue.Null(), err
	}
	return records[pos], nil
}

// Insert adds a record. If it has no id, it gets the next integer id after the largest numeric
// id in the collection. It returns the record as stored.
func (s *Store) Insert(collection string, record ldvalue.Value) (ldvalue.Value, error) {
	if record.Type() != ldvalue.ObjectType {
		return ldvalue.Null(), ErrNotAnObject
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	records, ok := s.collections[collection]
	if !ok {
		return ldvalue.Null(), ErrUnknownCollection
	}
	id := record.GetByKey(servicedef.IDProperty)
	if id.IsNull() {
		record = withID(record, ldvalue.Int(nextID(records)))
	} else if indexOf(records, servicedef.IDString(id)) >= 0 {
		return ldvalue.Null(), ErrDuplicateID
	}
	s.collections[collection] = append(records, record)
	return record, nil
}

// Replace overwrites an existing record. The stored record keeps the id it was found by,
// whatever id the new record contains.
func (s *Store) Replace(collection, id string, record ldvalue.Value) (ldvalue.Value, error) {
	if record.Type() != ldvalue.ObjectType {
		return ldvalue.Null(), ErrNotAnObject
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	records, pos, err := s.find(collection, id)
	if err != nil {
		return ldvalue.Null(), err
	}
	record = withID(record, records[pos].GetByKey(servicedef.IDProperty))
	records[pos] = record
	return record, nil
}

// Remove deletes a record.
func (s *Store) Remove(collection, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	records, pos, err := s.find(collection, id)
	if err != nil {
		return err
	}
	s.collections[collection] = append(records[:pos:pos], records[pos+1:]...)
	return nil
}

func (s *Store) find(collection, id string) ([]ldvalue.Value, int, error) {
	records, ok := s.collections[collection]
	if !ok {
		return nil, 0, ErrUnknownCollection
	}
	pos := indexOf(records, id)
	if pos < 0 {
		return nil, 0, ErrNotFound
	}
	return records, pos, nil
}

func indexOf(records []ldvalue.Value, id string) int {
	for i, r := range records {
		if servicedef.IDString(r.GetByKey(servicedef.IDProperty)) == id {
			return i
		}
	}
	return -1
}

func nextID(records []ldvalue.Value) int {
	highest := 0
	for _, r := range records {
		if id := r.GetByKey(servicedef.IDProperty); id.IsNumber() && id.IntValue() > highest {
			highest = id.IntValue()
		}
	}
	return highest + 1
}

func withID(record, id ldvalue.Value) ldvalue.Value {
	b := ldvalue.ObjectBuild()
	for key, value := range record.AsValueMap().AsMap() {
		b.Set(key, value)
	}
	b.Set(servicedef.IDProperty, id)
	return b.Build()
}
