package entity

// Clone helpers produce defensive snapshots. Getter operations return these
// so callers can read without racing engine mutations.

func (p *Participant) Clone() *Participant {
	cp := *p
	if p.Cursor != nil {
		cursor := *p.Cursor
		cp.Cursor = &cursor
	}
	return &cp
}

func (s *Session) Clone() *Session {
	cp := *s
	cp.Participants = make([]*Participant, len(s.Participants))
	for i, p := range s.Participants {
		cp.Participants[i] = p.Clone()
	}
	return &cp
}

func (n *Note) Clone() *Note {
	cp := *n
	if n.Position != nil {
		pos := *n.Position
		cp.Position = &pos
	}
	if n.TargetRef != nil {
		ref := *n.TargetRef
		cp.TargetRef = &ref
	}
	if n.UpdatedAt != nil {
		at := *n.UpdatedAt
		cp.UpdatedAt = &at
	}
	return &cp
}

func (a *Annotation) Clone() *Annotation {
	cp := *a
	cp.Replies = make([]*Reply, len(a.Replies))
	for i, r := range a.Replies {
		reply := *r
		cp.Replies[i] = &reply
	}
	if a.UpdatedAt != nil {
		at := *a.UpdatedAt
		cp.UpdatedAt = &at
	}
	return &cp
}

func (c *SearchContext) Clone() *SearchContext {
	cp := *c
	cp.Filters = make(map[string]interface{}, len(c.Filters))
	for k, v := range c.Filters {
		cp.Filters[k] = v
	}
	cp.Results = make([]Result, len(c.Results))
	copy(cp.Results, c.Results)
	if c.SelectedResult != nil {
		sel := *c.SelectedResult
		cp.SelectedResult = &sel
	}
	cp.Notes = make([]*Note, len(c.Notes))
	for i, n := range c.Notes {
		cp.Notes[i] = n.Clone()
	}
	cp.Annotations = make([]*Annotation, len(c.Annotations))
	for i, a := range c.Annotations {
		cp.Annotations[i] = a.Clone()
	}
	return &cp
}
