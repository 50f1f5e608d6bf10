package persist

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"sort"

	"tweakpanel/storage"
)

// Store is a persistence backend for the saved-record set. Which backend a
// panel uses is a static configuration choice made at initialization.
type Store interface {
	// Load returns the stored record set. Missing or malformed data yields
	// an empty set, never an error that would abort startup.
	Load() []SavedRecord
	// Save writes the record set, retrying an alternate location once.
	Save(records []SavedRecord) error
}

// FileStore keeps the record set as one JSON document in the resolved data
// directory, falling back to the working directory when that fails.
type FileStore struct {
	Name  string
	Codec Codec
}

// NewFileStore builds a file store writing the named file.
func NewFileStore(name string, codec Codec) *FileStore {
	return &FileStore{Name: name, Codec: codec}
}

// Load reads and decodes the stored file. A missing file is a normal first
// run; malformed content is logged and treated as empty.
func (s *FileStore) Load() []SavedRecord {
	data, err := storage.ReadDataFile(s.Name)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[PERSIST] read %s: %v, keeping defaults", s.Name, err)
		}
		return nil
	}
	records, err := s.Codec.Decode(data)
	if err != nil {
		log.Printf("[PERSIST] %s is malformed: %v, keeping defaults", s.Name, err)
		return nil
	}
	return records
}

// Save encodes and writes the record set, retrying the fallback location
// once before giving up.
func (s *FileStore) Save(records []SavedRecord) error {
	data, err := s.Codec.Encode(records)
	if err != nil {
		return err
	}
	if err := storage.WriteDataFile(s.Name, data, 0o644); err != nil {
		fallback := storage.FallbackFile(s.Name)
		log.Printf("[PERSIST] write %s: %v, retrying %s", s.Name, err, fallback)
		if fbErr := os.WriteFile(fallback, data, 0o644); fbErr != nil {
			return fbErr
		}
	}
	return nil
}

// PrefStore is the key-value backend: records live in one JSON object keyed
// by their persisted key, the closest portable analog of a platform
// preference store. Load returns records sorted by key.
type PrefStore struct {
	Name  string
	Codec Codec
}

// NewPrefStore builds a prefs store writing the named file.
func NewPrefStore(name string, codec Codec) *PrefStore {
	return &PrefStore{Name: name, Codec: codec}
}

// Load reads the prefs object. Missing or malformed data yields an empty
// set with a logged warning.
func (s *PrefStore) Load() []SavedRecord {
	data, err := storage.ReadDataFile(s.Name)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[PERSIST] read %s: %v, keeping defaults", s.Name, err)
		}
		return nil
	}
	var byKey map[string]SavedRecord
	if err := json.Unmarshal(data, &byKey); err != nil {
		log.Printf("[PERSIST] %s is malformed: %v, keeping defaults", s.Name, err)
		return nil
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	records := make([]SavedRecord, 0, len(byKey))
	for _, k := range keys {
		rec := byKey[k]
		rec.Key = k
		records = append(records, rec)
	}
	return records
}

// Save writes the record set as a key-keyed object, with the same one-shot
// fallback as the file store.
func (s *PrefStore) Save(records []SavedRecord) error {
	byKey := make(map[string]SavedRecord, len(records))
	for i := range records {
		records[i].FloatValue.Prec = s.Codec.Precision
		for j := range records[i].VecValue {
			records[i].VecValue[j].Prec = s.Codec.Precision
		}
		byKey[records[i].Key] = records[i]
	}
	data, err := json.MarshalIndent(byKey, "", "  ")
	if err != nil {
		return err
	}
	if err := storage.WriteDataFile(s.Name, data, 0o644); err != nil {
		fallback := storage.FallbackFile(s.Name)
		log.Printf("[PERSIST] write %s: %v, retrying %s", s.Name, err, fallback)
		if fbErr := os.WriteFile(fallback, data, 0o644); fbErr != nil {
			return fbErr
		}
	}
	return nil
}
