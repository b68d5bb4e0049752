package launcher

import (
	"slices"

	"launchkey/action"
)

// Items maps a menu label to what it launches.
type Items map[string]action.Descriptor

// Names returns the labels in presentation order.
func (it Items) Names() []string {
	names := make([]string, 0, len(it))
	for name := range it {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup matches name exactly.
func (it Items) Lookup(name string) (action.Descriptor, bool) {
	d, ok := it[name]
	return d, ok
}
