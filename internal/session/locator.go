package session

import (
	"sync"
)

// fallbackActivator is the degraded path taken when no backend is usable
// or no backend yields a session.
type fallbackActivator interface {
	Run() bool
}

// Locator owns backend selection and session-pick policy. It never returns
// an error: every failure on the way down degrades to the fallback path,
// because the guard loop must survive any backend misbehavior.
type Locator struct {
	backends  []Backend
	fallback  fallbackActivator
	kioskName string

	kioskOnce sync.Once
	kiosk     *KioskUser
	lookup    func(string) (*KioskUser, error)
}

// NewLocator builds a locator over backends in priority order. kioskName is
// the configured shared account; it is resolved once, on first use.
func NewLocator(backends []Backend, fallback *Fallback, kioskName string) *Locator {
	return &Locator{
		backends:  backends,
		fallback:  fallback,
		kioskName: kioskName,
		lookup:    LookupKioskUser,
	}
}

// ActivateBest probes both backends, uses the first available one
// exclusively, and activates the session its policy picks. Backend
// selection failure and candidate-selection failure both degrade to the
// same fallback path.
func (l *Locator) ActivateBest() {
	kiosk := l.kioskUser()

	avail := Probe(l.backends)
	log.Debug("backend availability", "consolekit", avail.ConsoleKit, "logind", avail.Logind)

	var backend Backend
	switch {
	case avail.ConsoleKit:
		backend = l.byKind(KindConsoleKit)
	case avail.Logind:
		backend = l.byKind(KindLogind)
	}
	if backend == nil {
		log.Info("no session backend reachable, using fallback")
		l.fallback.Run()
		return
	}

	sessions, err := backend.Candidates(kiosk)
	if err != nil {
		log.Error("session enumeration failed", "backend", backend.Kind().String(), "error", err)
		l.fallback.Run()
		return
	}

	s, ok := l.pick(backend.Kind(), sessions, kiosk)
	if !ok {
		log.Info("no usable session found", "backend", backend.Kind().String(), "candidates", len(sessions))
		l.fallback.Run()
		return
	}

	if err := backend.Activate(s); err != nil {
		log.Error("session activation failed", "backend", backend.Kind().String(), "session", s.ID, "error", err)
		l.fallback.Run()
		return
	}
	log.Info("activated session", "backend", backend.Kind().String(), "session", s.ID, "user", s.User, "vt", s.VT)
}

// pick applies the per-backend selection policy.
//
// ConsoleKit: first candidate that is both local and graphical, in backend
// order. First-match, not best-match.
//
// Logind: the kiosk user's session when present; otherwise a sole candidate;
// with several candidates the ambiguity is logged and the lowest VT number
// wins as a deterministic tie-break.
func (l *Locator) pick(kind Kind, sessions []Session, kiosk *KioskUser) (Session, bool) {
	switch kind {
	case KindConsoleKit:
		for _, s := range sessions {
			if s.Local && s.Graphical {
				return s, true
			}
		}
		return Session{}, false

	case KindLogind:
		if kiosk != nil {
			for _, s := range sessions {
				if s.User == kiosk.Name {
					return s, true
				}
			}
		}
		switch len(sessions) {
		case 0:
			return Session{}, false
		case 1:
			return sessions[0], true
		default:
			log.Error("multiple graphical sessions and no kiosk session, picking lowest VT",
				"count", len(sessions))
			best := sessions[0]
			for _, s := range sessions[1:] {
				if s.VT != 0 && (best.VT == 0 || s.VT < best.VT) {
					best = s
				}
			}
			return best, true
		}
	}
	return Session{}, false
}

func (l *Locator) byKind(kind Kind) Backend {
	for _, b := range l.backends {
		if b.Kind() == kind {
			return b
		}
	}
	return nil
}

// kioskUser resolves the kiosk account on first use and caches it for the
// process lifetime. Resolution failure is logged and treated as "no kiosk
// account".
func (l *Locator) kioskUser() *KioskUser {
	l.kioskOnce.Do(func() {
		u, err := l.lookup(l.kioskName)
		if err != nil {
			log.Warn("kiosk user lookup failed", "user", l.kioskName, "error", err)
			return
		}
		l.kiosk = u
		if u != nil {
			log.Debug("kiosk user resolved", "user", u.Name, "uid", u.UID)
		}
	})
	return l.kiosk
}
