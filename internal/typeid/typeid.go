package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixElement  = "el"
	PrefixDrawing  = "drw"
	PrefixSnapshot = "snap"
	PrefixClient   = "cli"
	PrefixUser     = "user"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewElementID() string  { return New(PrefixElement) }
func NewDrawingID() string  { return New(PrefixDrawing) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewClientID() string   { return New(PrefixClient) }
func NewUserID() string     { return New(PrefixUser) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}

// Generator produces prefixed, time-sortable element ids.
// It satisfies document.IDGenerator.
type Generator struct {
	Prefix string
}

// Elements returns the generator used for committed drawing elements.
func Elements() Generator {
	return Generator{Prefix: PrefixElement}
}

func (g Generator) NewID() string {
	return New(g.Prefix)
}
