package stage

// Env tracks the environment a package launches with. It keeps two views:
// the base environment, and a modified replica that additionally carries
// LD_PRELOAD. Interception libraries must reach only the launched binary, not
// every helper process the tool spawns, so LD_PRELOAD never enters the base
// view.
type Env struct {
	base map[string]string
	mod  map[string]string
}

const ldPreload = "LD_PRELOAD"

// NewEnv returns an empty tracked environment.
func NewEnv() *Env {
	return &Env{
		base: make(map[string]string),
		mod:  make(map[string]string),
	}
}

// Set sets an environment variable in both views, except LD_PRELOAD which
// only enters the modified view.
func (e *Env) Set(name, val string) {
	if name == ldPreload {
		e.mod[name] = val
		return
	}
	e.base[name] = val
	e.mod[name] = val
}

// Prepend prepends a ':'-separated value to an environment variable,
// following the same LD_PRELOAD rule as Set.
func (e *Env) Prepend(name, val string) {
	if name == ldPreload {
		e.mod[name] = joinPath(val, e.mod[name])
		return
	}
	e.base[name] = joinPath(val, e.base[name])
	e.mod[name] = e.base[name]
}

// Track merges a map of variables into the environment via Set.
func (e *Env) Track(vars map[string]string) {
	for name, val := range vars {
		e.Set(name, val)
	}
}

// Base returns a copy of the base environment (no LD_PRELOAD).
func (e *Env) Base() map[string]string {
	return copyMap(e.base)
}

// Modified returns a copy of the modified environment (base + LD_PRELOAD).
func (e *Env) Modified() map[string]string {
	return copyMap(e.mod)
}

func joinPath(head, tail string) string {
	if tail == "" {
		return head
	}
	return head + ":" + tail
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
