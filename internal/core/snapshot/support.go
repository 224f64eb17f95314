package snapshot

// Support is implemented by every repository that takes part in save and
// restore.
type Support interface {
	// Kind is the component kind name the repository owns.
	Kind() string
	// SaveSnapshot writes every non-static entry into out.
	SaveSnapshot(out *Snapshot) error
	// LoadSnapshot inserts every entry of Kind from in, overwriting entries
	// with the same id.
	LoadSnapshot(in *Snapshot) error
}

// Provider exposes the repositories of a world.
type Provider interface {
	Supports() []Support
}

// Capture runs SaveSnapshot on every support of p.
func Capture(p Provider) (*Snapshot, error) {
	out := New()
	for _, s := range p.Supports() {
		if err := s.SaveSnapshot(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
