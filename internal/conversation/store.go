package conversation

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codelens/pkg/models"
)

// Store is the single owner of threads, open-file contexts, and the user's
// settings. All reads hand out copies, so pipeline invocations running
// concurrently never share mutable state with the store. Responses are
// appended in the order their pipeline invocations resolve, which may differ
// from send order when a caller overlaps requests on one thread.
type Store struct {
	mu         sync.Mutex
	threads    map[string]*Thread
	order      []string
	activeID   string
	openFiles  []models.OpenFile
	credential string
	language   string
}

// Snapshot is a consistent read of the shared inputs one pipeline invocation
// needs, taken at call time.
type Snapshot struct {
	CodeContext string
	History     []models.ChatMessage
	OpenFiles   []models.OpenFile
	Credential  string
	Language    string
}

func NewStore() *Store {
	return &Store{threads: make(map[string]*Thread)}
}

// CreateThread starts a new conversation over the given selection snapshot.
// A nil rng marks a general chat. The new thread becomes active.
func (s *Store) CreateThread(codeContext string, rng *Range) Thread {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread := &Thread{
		ID:          uuid.NewString(),
		Range:       cloneRange(rng),
		CodeContext: codeContext,
	}
	s.threads[thread.ID] = thread
	s.order = append(s.order, thread.ID)
	s.activeID = thread.ID

	return cloneThread(thread)
}

// RemoveThread destroys a thread on explicit user request.
func (s *Store) RemoveThread(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[id]; !ok {
		return
	}
	delete(s.threads, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.activeID == id {
		s.activeID = ""
	}
}

// SetActive marks the displayed thread. At most one thread is active.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[id]; !ok {
		return fmt.Errorf("thread %s not found", id)
	}
	s.activeID = id
	return nil
}

// ActiveThread returns a copy of the displayed thread, if any.
func (s *Store) ActiveThread() (Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.threads[s.activeID]
	if !ok {
		return Thread{}, false
	}
	return cloneThread(thread), true
}

// Thread returns a copy of the thread with the given id.
func (s *Store) Thread(id string) (Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.threads[id]
	if !ok {
		return Thread{}, false
	}
	return cloneThread(thread), true
}

// Threads lists all threads in creation order, as copies.
func (s *Store) Threads() []Thread {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Thread, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneThread(s.threads[id]))
	}
	return out
}

// AppendMessage adds a message to a thread. Appends happen in the order
// calls arrive, which for responses is resolution order.
func (s *Store) AppendMessage(threadID string, role Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.threads[threadID]
	if !ok {
		return fmt.Errorf("thread %s not found", threadID)
	}
	thread.Messages = append(thread.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return nil
}

// AddOpenFile registers a file as cross-file context. Open files are not
// owned by any thread.
func (s *Store) AddOpenFile(file models.OpenFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	s.openFiles = append(s.openFiles, file)
}

// RemoveOpenFile drops a file from the context set.
func (s *Store) RemoveOpenFile(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, file := range s.openFiles {
		if file.ID == id {
			s.openFiles = append(s.openFiles[:i], s.openFiles[i+1:]...)
			return
		}
	}
}

// OpenFiles returns a copy of the current context set.
func (s *Store) OpenFiles() []models.OpenFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.OpenFile, len(s.openFiles))
	copy(out, s.openFiles)
	return out
}

// SetCredential stores the user-supplied API key. The pipeline only ever
// reads it through Snapshot.
func (s *Store) SetCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

// SetLanguage stores the editor's language preference.
func (s *Store) SetLanguage(language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = language
}

// SnapshotForThread captures everything a pipeline invocation for the given
// thread needs, in one locked read. The returned value shares nothing with
// store internals.
func (s *Store) SnapshotForThread(threadID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.threads[threadID]
	if !ok {
		return Snapshot{}, fmt.Errorf("thread %s not found", threadID)
	}

	history := make([]models.ChatMessage, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		history = append(history, models.ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	files := make([]models.OpenFile, len(s.openFiles))
	copy(files, s.openFiles)

	return Snapshot{
		CodeContext: thread.CodeContext,
		History:     history,
		OpenFiles:   files,
		Credential:  s.credential,
		Language:    s.language,
	}, nil
}

func cloneThread(t *Thread) Thread {
	out := Thread{
		ID:          t.ID,
		Range:       cloneRange(t.Range),
		CodeContext: t.CodeContext,
	}
	if len(t.Messages) > 0 {
		out.Messages = make([]Message, len(t.Messages))
		copy(out.Messages, t.Messages)
	}
	return out
}

func cloneRange(r *Range) *Range {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
