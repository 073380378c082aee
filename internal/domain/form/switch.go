package form

// Group is a set of fields that is only relevant for one discriminator value
type Group struct {
	// Name is the discriminator value that selects the group
	Name   string
	Fields []string
	// Clear empties the group's values on the record
	Clear func()
}

// Switch binds a discriminator field to the groups it selects between.
// Groups must not share fields.
type Switch struct {
	Field  string
	Groups []Group
	// RequireLead marks the first field of the selected group mandatory and
	// releases the first field of every other group.
	RequireLead bool
}

// Apply shows the group named by value and hides and clears all others.
// An empty or unrecognised value hides and clears every group.
// It returns the name of the visible group, or "" when none is.
func (s Switch) Apply(l *Layout, value string) string {
	active := -1
	for i, g := range s.Groups {
		if value != "" && g.Name == value {
			active = i
			break
		}
	}

	for i, g := range s.Groups {
		if i == active {
			continue
		}
		l.Hide(g.Fields...)
		if s.RequireLead && len(g.Fields) > 0 {
			l.SetRequired(g.Fields[0], false)
		}
		if g.Clear != nil {
			g.Clear()
		}
	}

	if active < 0 {
		return ""
	}

	g := s.Groups[active]
	l.Show(g.Fields...)
	if s.RequireLead && len(g.Fields) > 0 {
		l.SetRequired(g.Fields[0], true)
	}
	return g.Name
}

// Fields returns every field managed by the switch
func (s Switch) Fields() []string {
	var out []string
	for _, g := range s.Groups {
		out = append(out, g.Fields...)
	}
	return out
}
