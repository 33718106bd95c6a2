// Package override provides the relay's local answer store: a concurrent
// in-memory set of DNS records that take precedence over upstream DoH
// resolution, plus a JSON file loader that keeps the store in sync with
// an overrides file on disk.
package override

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/miekg/dns"

	"github.com/dohdig/dohdig/dnsjson"
)

// Sentinel errors returned by Store operations.
var (
	ErrNotFound = errors.New("override: record not found")
	ErrExists   = errors.New("override: record already exists")
)

// Record is one local override entry. A record holds every value for its
// name and type; each value becomes one answer in a synthesized response.
type Record struct {
	Name   string             `json:"name"`
	Type   dnsjson.RecordType `json:"type"`
	TTL    uint32             `json:"ttl"`
	Values []string           `json:"values"`
}

// Validate reports whether the record is well formed enough to serve.
func (r *Record) Validate() error {
	if r.Name == "" {
		return errors.New("override: record name is required")
	}
	if len(r.Values) == 0 {
		return errors.New("override: record needs at least one value")
	}
	return nil
}

// equal reports whether two records carry the same TTL and values.
func (r *Record) equal(other *Record) bool {
	if r.TTL != other.TTL {
		return false
	}
	if len(r.Values) != len(other.Values) {
		return false
	}
	for i := range r.Values {
		if r.Values[i] != other.Values[i] {
			return false
		}
	}
	return true
}

func (r *Record) clone() *Record {
	out := *r
	out.Values = append([]string(nil), r.Values...)
	return &out
}

// Key uniquely identifies a record by canonical name and type.
type Key struct {
	Name string
	Type dnsjson.RecordType
}

// Changes describes a set of record changes to apply atomically.
type Changes struct {
	Added   []*Record
	Updated []*Record
	Deleted []Key
}

// Empty reports whether the change set contains no work.
func (c *Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

// canonical normalizes a domain name for use as a store key. Lookups and
// stored records go through it so "Printer.LAN" and "printer.lan." meet.
func canonical(name string) string {
	return dns.CanonicalName(name)
}

// Store is a thread-safe in-memory set of override records keyed by
// canonical name and type. It holds at most one record per key; the
// record's Values carry multiplicity.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[dnsjson.RecordType]*Record
	version uint64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]map[dnsjson.RecordType]*Record),
	}
}

// Get returns copies of the records matching name and type. Querying
// TypeANY returns every record stored for the name, ordered by type code.
func (s *Store) Get(name string, rt dnsjson.RecordType) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byType, ok := s.records[canonical(name)]
	if !ok {
		return nil, ErrNotFound
	}

	if rt == dnsjson.TypeANY {
		out := make([]*Record, 0, len(byType))
		for _, rec := range byType {
			out = append(out, rec.clone())
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
		return out, nil
	}

	rec, ok := byType[rt]
	if !ok {
		return nil, ErrNotFound
	}
	return []*Record{rec.clone()}, nil
}

// List returns copies of all stored records, ordered by name then type.
func (s *Store) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*Record
	for _, byType := range s.records {
		for _, rec := range byType {
			all = append(all, rec.clone())
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].Type < all[j].Type
	})
	return all
}

// Create adds a new record. It returns ErrExists when a record with the
// same name and type is already present.
func (s *Store) Create(record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byType, ok := s.records[canonical(record.Name)]; ok {
		if _, exists := byType[record.Type]; exists {
			return ErrExists
		}
	}

	s.setRecordLocked(record)
	s.version++
	return nil
}

// Update replaces an existing record. It returns ErrNotFound when no
// record with the same name and type is present.
func (s *Store) Update(record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byType, ok := s.records[canonical(record.Name)]
	if !ok {
		return ErrNotFound
	}
	if _, exists := byType[record.Type]; !exists {
		return ErrNotFound
	}

	s.setRecordLocked(record)
	s.version++
	return nil
}

// Delete removes the record matching name and type.
func (s *Store) Delete(name string, rt dnsjson.RecordType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byType, ok := s.records[canonical(name)]
	if !ok {
		return ErrNotFound
	}
	if _, exists := byType[rt]; !exists {
		return ErrNotFound
	}

	s.deleteRecordLocked(name, rt)
	s.version++
	return nil
}

// ReplaceAll swaps the full record set atomically.
func (s *Store) ReplaceAll(records []*Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]map[dnsjson.RecordType]*Record)
	for _, r := range records {
		s.setRecordLocked(r)
	}
	s.version++

	slog.Info("override store replaced", "records", len(records), "version", s.version)
}

// ApplyChanges applies a change set atomically.
func (s *Store) ApplyChanges(changes *Changes) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range changes.Added {
		s.setRecordLocked(r)
	}
	for _, r := range changes.Updated {
		s.setRecordLocked(r)
	}
	for _, key := range changes.Deleted {
		s.deleteRecordLocked(key.Name, key.Type)
	}
	s.version++

	slog.Info("override store updated",
		"added", len(changes.Added),
		"updated", len(changes.Updated),
		"deleted", len(changes.Deleted),
		"version", s.version,
	)
}

// Diff compares a new record set against the current contents and returns
// the changes needed to bring the store in line with it.
func (s *Store) Diff(records []*Record) *Changes {
	s.mu.RLock()
	defer s.mu.RUnlock()

	changes := &Changes{}

	oldMap := s.recordMapLocked()
	newMap := recordMap(records)

	for key, rec := range newMap {
		if old, exists := oldMap[key]; exists {
			if !rec.equal(old) {
				changes.Updated = append(changes.Updated, rec)
			}
		} else {
			changes.Added = append(changes.Added, rec)
		}
	}
	for key := range oldMap {
		if _, exists := newMap[key]; !exists {
			changes.Deleted = append(changes.Deleted, key)
		}
	}

	return changes
}

// Version returns the current mutation counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// recordMapLocked flattens the current contents into a Key map. Caller
// must hold at least s.mu.RLock.
func (s *Store) recordMapLocked() map[Key]*Record {
	m := make(map[Key]*Record)
	for name, byType := range s.records {
		for rt, rec := range byType {
			m[Key{Name: name, Type: rt}] = rec
		}
	}
	return m
}

// recordMap builds a Key map from a record slice. Later entries win when
// the slice repeats a key.
func recordMap(records []*Record) map[Key]*Record {
	m := make(map[Key]*Record, len(records))
	for _, r := range records {
		m[Key{Name: canonical(r.Name), Type: r.Type}] = r
	}
	return m
}

// --- internal helpers (caller must hold s.mu write lock) ---

func (s *Store) setRecordLocked(record *Record) {
	rec := record.clone()
	rec.Name = canonical(rec.Name)
	if s.records[rec.Name] == nil {
		s.records[rec.Name] = make(map[dnsjson.RecordType]*Record)
	}
	s.records[rec.Name][rec.Type] = rec
}

func (s *Store) deleteRecordLocked(name string, rt dnsjson.RecordType) {
	cname := canonical(name)
	byType, ok := s.records[cname]
	if !ok {
		return
	}
	delete(byType, rt)
	if len(byType) == 0 {
		delete(s.records, cname)
	}
}
