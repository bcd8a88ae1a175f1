package player

import "testing"

func TestRegistryReplacesExistingSession(t *testing.T) {
	r := NewRegistry()
	lesson := testLesson()

	first := r.Open("u1", lesson, testConfig(), Options{})
	second := r.Open("u1", lesson, testConfig(), Options{})
	defer r.Release("u1", lesson.CourseID, lesson.ID, second)

	if first == second {
		t.Fatal("open must create a fresh session")
	}
	// the replaced session is closed, all its calls are no-ops
	first.Advance()
	if st := first.Snapshot(); st.StepIndex != 0 {
		t.Fatalf("closed session must ignore calls, got step %d", st.StepIndex)
	}
}

func TestRegistryReleaseIgnoresStaleSession(t *testing.T) {
	r := NewRegistry()
	lesson := testLesson()

	first := r.Open("u1", lesson, testConfig(), Options{})
	second := r.Open("u1", lesson, testConfig(), Options{})

	// releasing the replaced session must not evict the live one
	r.Release("u1", lesson.CourseID, lesson.ID, first)
	second.Advance()
	if st := second.Snapshot(); st.StepIndex != 1 {
		t.Fatalf("live session must keep working, got step %d", st.StepIndex)
	}
	r.Release("u1", lesson.CourseID, lesson.ID, second)
}

func TestRegistrySessionsAreScopedPerUser(t *testing.T) {
	r := NewRegistry()
	lesson := testLesson()

	a := r.Open("u1", lesson, testConfig(), Options{})
	b := r.Open("u2", lesson, testConfig(), Options{})
	defer r.Release("u1", lesson.CourseID, lesson.ID, a)
	defer r.Release("u2", lesson.CourseID, lesson.ID, b)

	a.Advance()
	if st := b.Snapshot(); st.StepIndex != 0 {
		t.Fatalf("sessions must not share state, got step %d", st.StepIndex)
	}
}
