package imagevariant

import "fmt"

// Kind classifies a variant failure.
type Kind string

const (
	KindOpen   Kind = "open"
	KindDecode Kind = "decode"
	KindEncode Kind = "encode"
	KindWrite  Kind = "write"
	KindDelete Kind = "delete"
	KindLookup Kind = "lookup"
)

// Failure describes one variant operation that did not succeed. Label is
// empty for failures that concern the original image.
type Failure struct {
	Kind  Kind
	Label string
	Name  string
	Err   error
}

func (f *Failure) Error() string {
	if f.Label == "" {
		return fmt.Sprintf("imagevariant: %s %s: %v", f.Kind, f.Name, f.Err)
	}
	return fmt.Sprintf("imagevariant: %s %s variant %s: %v", f.Kind, f.Label, f.Name, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }
