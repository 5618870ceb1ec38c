package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/internal/syncclient"
)

// view prints the part of each snapshot not yet shown.
type view struct {
	mu           sync.Mutex
	out          io.Writer
	self         *syncclient.Participant
	shown        int
	participants int
}

func newView(out io.Writer, self *syncclient.Participant) *view {
	return &view{out: out, self: self, participants: -1}
}

func (v *view) render(session *domain.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if n := session.ParticipantCount(); n != v.participants {
		v.participants = n
		fmt.Fprintf(v.out, "-- %d participant(s) --\n", n)
	}

	if v.shown > len(session.Messages) {
		v.shown = 0
	}
	for _, m := range session.Messages[v.shown:] {
		fmt.Fprintln(v.out, v.format(m))
	}
	v.shown = len(session.Messages)
}

func (v *view) format(m domain.Message) string {
	ts := m.Timestamp.Local().Format("15:04:05")
	if m.IsSystem() {
		return fmt.Sprintf("[%s] * %s", ts, m.Text)
	}

	author := m.Username
	if v.self.IsOwn(m) {
		author = "나"
	}
	if m.Role() == domain.RoleInstructor {
		author += " (강사)"
	}
	return fmt.Sprintf("[%s] %s: %s", ts, author, m.Message)
}
