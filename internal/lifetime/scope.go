package lifetime

import "github.com/dyon-lang/dyon/internal/typesystem"

// scope is a stack of name->Type frames plus the fixed current-variable
// bindings of the enclosing function, consulted bottom-to-top so an
// inner declaration shadows an outer one of the same name (spec §4.E
// "Item — look up declaration"). A Closure body pushes its own frame
// onto the same scope its enclosing Fn body used, so a Grab expression
// resolves through the closure's frame into whichever outer frame
// declared the name — there is no separate graph-edge bookkeeping for
// this, the frame stack itself is the scope chain.
type scope struct {
	frames   []map[string]typesystem.Type
	currents map[string]typesystem.Type
}

func newScope(currents map[string]typesystem.Type) *scope {
	return &scope{frames: []map[string]typesystem.Type{{}}, currents: currents}
}

func (s *scope) push() { s.frames = append(s.frames, map[string]typesystem.Type{}) }

func (s *scope) pop() { s.frames = s.frames[:len(s.frames)-1] }

func (s *scope) declare(name string, ty typesystem.Type) {
	s.frames[len(s.frames)-1][name] = ty
}

func (s *scope) lookup(name string) (typesystem.Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if ty, ok := s.frames[i][name]; ok {
			return ty, true
		}
	}
	ty, ok := s.currents[name]
	return ty, ok
}
