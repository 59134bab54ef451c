package domain

import "go.trai.ch/zerr"

// ReloadKind tells the dev server what to do after a watch binding rebuilt.
type ReloadKind string

const (
	// ReloadFull reloads every connected page.
	ReloadFull ReloadKind = "full"
	// ReloadCSS swaps stylesheets in place. The task pushes it itself.
	ReloadCSS ReloadKind = "css"
	// ReloadNone does nothing.
	ReloadNone ReloadKind = "none"
)

// ParseReloadKind validates a reload kind.
func ParseReloadKind(s string) (ReloadKind, error) {
	switch k := ReloadKind(s); k {
	case ReloadFull, ReloadCSS, ReloadNone:
		return k, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrInvalidReloadKind, "unsupported reload kind"), "reload", s)
	}
}

// WatchBinding maps source changes to the tasks that rebuild them.
type WatchBinding struct {
	Name    string
	Sources []FileSet
	Targets []InternedString
	Reload  ReloadKind
}

// WatchMatcher is a compiled WatchBinding.
type WatchMatcher struct {
	sets []fileSetMatcher
}

type fileSetMatcher struct {
	dir string
	m   *Matcher
}

// Compile compiles the binding's file sets.
func (b WatchBinding) Compile() (*WatchMatcher, error) {
	wm := &WatchMatcher{sets: make([]fileSetMatcher, 0, len(b.Sources))}
	for _, fs := range b.Sources {
		m, err := fs.Matcher()
		if err != nil {
			return nil, zerr.With(err, "binding", b.Name)
		}
		wm.sets = append(wm.sets, fileSetMatcher{dir: fs.Dir, m: m})
	}
	return wm, nil
}

// Match reports whether the changed path belongs to one of the binding's file sets.
func (wm *WatchMatcher) Match(path string) bool {
	for _, s := range wm.sets {
		rel, ok := relativeTo(s.dir, path)
		if ok && s.m.Match(rel) {
			return true
		}
	}
	return false
}
