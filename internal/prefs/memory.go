package prefs

// MemoryStore is a process-local store. Values are lost on Close.
type MemoryStore struct {
	values map[string]string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) GetString(key string) (string, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) PutString(key, value string) error {
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Close() error {
	s.values = map[string]string{}
	return nil
}
