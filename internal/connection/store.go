// Package connection manages the set of named report endpoint connections.
//
// Connections are persisted as a JSON array in a single file. Every mutation
// rewrites the whole file (temp file + rename) before returning, so a
// subsequent List always observes what is on disk.
package connection

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Connection is a named credential/endpoint tuple for one reporting target.
type Connection struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Sentinel errors for store mutations.
var (
	ErrDuplicateName = errors.New("connection already exists")
	ErrNotFound      = errors.New("connection not found")
)

// StorageError indicates the connection file could not be read or written.
// The in-memory set is rolled back to its pre-mutation state when this occurs.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("connection storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store holds the connection set and its backing file. All methods are
// single-threaded by contract; the CLI never issues concurrent mutations.
type Store struct {
	path        string
	connections []Connection
}

// Open loads the store from path. A missing file is a valid empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.connections); err != nil {
		return nil, &StorageError{Op: "parse", Path: path, Err: err}
	}

	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// List returns all connections in insertion order.
func (s *Store) List() []Connection {
	out := make([]Connection, len(s.connections))
	copy(out, s.connections)
	return out
}

// Get returns the connection with the given name.
func (s *Store) Get(name string) (Connection, error) {
	for _, c := range s.connections {
		if c.Name == name {
			return c, nil
		}
	}
	return Connection{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Add appends a new connection and persists the set.
func (s *Store) Add(conn Connection) error {
	for _, c := range s.connections {
		if c.Name == conn.Name {
			return fmt.Errorf("%w: %s", ErrDuplicateName, conn.Name)
		}
	}

	s.connections = append(s.connections, conn)
	if err := s.persist(); err != nil {
		s.connections = s.connections[:len(s.connections)-1]
		return err
	}
	return nil
}

// Update replaces the fields of an existing connection, identified by name,
// and persists the set. The connection keeps its position in the list.
func (s *Store) Update(name string, conn Connection) error {
	for i, c := range s.connections {
		if c.Name != name {
			continue
		}
		prev := s.connections[i]
		s.connections[i] = conn
		if err := s.persist(); err != nil {
			s.connections[i] = prev
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Delete removes the named connection and persists the set. Deleting a name
// that does not exist is a no-op.
func (s *Store) Delete(name string) error {
	for i, c := range s.connections {
		if c.Name != name {
			continue
		}
		prev := s.connections
		s.connections = append(append([]Connection{}, prev[:i]...), prev[i+1:]...)
		if err := s.persist(); err != nil {
			s.connections = prev
			return err
		}
		return nil
	}
	return nil
}

// persist writes the full set to a temp file and renames it over the backing
// file, so a crash mid-write cannot leave a truncated connection set.
func (s *Store) persist() error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return &StorageError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	data, err := json.MarshalIndent(s.connections, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".connections-*.json")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Op: "rename", Path: s.path, Err: err}
	}

	return nil
}
