package session

// PutRaw plants raw snapshot bytes under id.
func (s *MemoryStore) PutRaw(id string, data []byte) {
	s.db.Store(id, item{data: data, expires: s.now().Add(s.ttl)})
}
