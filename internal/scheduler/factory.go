package scheduler

import (
	syserrors "github.com/maxkimambo/sysgraph/internal/errors"
)

// SystemFactory defers creation of a system until the schedule is built.
// Instantiate is called exactly once, with the planner and the priority the
// system was assigned.
type SystemFactory interface {
	Instantiate(p Planner, priority Priority) error
}

// FactoryFunc adapts a function to SystemFactory.
type FactoryFunc func(p Planner, priority Priority) error

// Instantiate calls f(p, priority).
func (f FactoryFunc) Instantiate(p Planner, priority Priority) error {
	return f(p, priority)
}

// System returns a factory that adds run to the planner under name.
func System(name string, run RunFunc) SystemFactory {
	return FactoryFunc(func(p Planner, priority Priority) error {
		return p.Add(name, run, priority)
	})
}

// missingDependency is the payload of a placeholder node.
type missingDependency struct {
	name string
}

func (m missingDependency) Instantiate(Planner, Priority) error {
	return syserrors.NewMissingDependentSystemError(m.name)
}
