package net

// SessionStore holds the sessions known to the game loop. Game loop only.
type SessionStore struct {
	sessions map[string]*Session
	order    []string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (st *SessionStore) Add(s *Session) {
	if _, ok := st.sessions[s.ID]; ok {
		return
	}
	st.sessions[s.ID] = s
	st.order = append(st.order, s.ID)
}

func (st *SessionStore) Remove(id string) {
	if _, ok := st.sessions[id]; !ok {
		return
	}
	delete(st.sessions, id)
	for i, v := range st.order {
		if v == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
}

func (st *SessionStore) Get(id string) *Session {
	return st.sessions[id]
}

func (st *SessionStore) Count() int {
	return len(st.sessions)
}

// ForEach visits sessions in connection order. fn may not add or remove.
func (st *SessionStore) ForEach(fn func(*Session)) {
	for _, id := range st.order {
		fn(st.sessions[id])
	}
}

// Snapshot returns the sessions in connection order, safe to mutate the
// store while iterating.
func (st *SessionStore) Snapshot() []*Session {
	out := make([]*Session, 0, len(st.order))
	for _, id := range st.order {
		out = append(out, st.sessions[id])
	}
	return out
}
