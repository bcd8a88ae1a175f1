package player

import (
	"sync"

	"github.com/wintutor/wintutor/internal/domain"
)

// Registry tracks the single live session per (user, lesson). Opening
// a lesson replaces any previous session for the same key and closes
// it, so stale timers from an abandoned tab can never fire.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func sessionKey(userID, courseID, lessonID string) string {
	return userID + "/" + courseID + "/" + lessonID
}

// Open create a session for the lesson, replacing and closing any
// existing one for the same user and lesson
func (r *Registry) Open(userID string, lesson *domain.LessonModel, cfg Config, opt Options) *Session {
	key := sessionKey(userID, lesson.CourseID, lesson.ID)
	session := NewSession(lesson, cfg, opt)

	r.mu.Lock()
	if old, ok := r.sessions[key]; ok {
		defer old.Close()
	}
	r.sessions[key] = session
	r.mu.Unlock()
	return session
}

// Release close and drop the session if it is still the registered one
func (r *Registry) Release(userID, courseID, lessonID string, session *Session) {
	key := sessionKey(userID, courseID, lessonID)
	r.mu.Lock()
	if r.sessions[key] == session {
		delete(r.sessions, key)
	}
	r.mu.Unlock()
	session.Close()
}
