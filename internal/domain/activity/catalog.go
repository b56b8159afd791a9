package activity

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Placeholder is the positional marker filled by the parameter sampler.
const Placeholder = "{}"

//go:embed catalog.yaml
var defaultCatalog []byte

var defaultOnce = sync.OnceValues(func() (*Catalog, error) {
	return Load(defaultCatalog)
})

// Default returns the built-in catalog. It panics if the embedded document
// is invalid, which can only happen through a programming error.
func Default() *Catalog {
	cat, err := defaultOnce()
	if err != nil {
		panic(fmt.Sprintf("activity: embedded catalog: %v", err))
	}
	return cat
}

type document struct {
	Users map[string][]string `yaml:"users" validate:"required,dive,min=1,dive,required"`
	Kinds []Kind              `yaml:"kinds" validate:"required,min=1,dive"`
}

// Catalog is an immutable set of activity kinds and user pools.
type Catalog struct {
	kinds map[KindID]Kind
	order []KindID
	users map[string][]string
}

// Load parses and validates a YAML catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrInvalidCatalog, err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	cat := &Catalog{
		kinds: make(map[KindID]Kind, len(doc.Kinds)),
		users: doc.Users,
	}
	for _, kind := range doc.Kinds {
		if _, dup := cat.kinds[kind.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate kind %q", ErrInvalidCatalog, kind.ID)
		}
		if kind.Canonical == "" {
			kind.Canonical = kind.Templates[0]
		}
		want := kind.Family().Arity()
		for _, tmpl := range append([]string{kind.Canonical}, kind.Templates...) {
			if got := strings.Count(tmpl, Placeholder); got != want {
				return nil, fmt.Errorf("%w: kind %q template %q has %d placeholders, want %d",
					ErrInvalidCatalog, kind.ID, tmpl, got, want)
			}
		}
		cat.kinds[kind.ID] = kind
		cat.order = append(cat.order, kind.ID)
	}
	return cat, nil
}

// Kind returns the catalog entry for id.
func (c *Catalog) Kind(id KindID) (Kind, error) {
	kind, ok := c.kinds[id]
	if !ok {
		return Kind{}, fmt.Errorf("%w: %s", ErrKindNotFound, id)
	}
	return kind, nil
}

// Templates returns a copy of the candidate phrasings for id.
func (c *Catalog) Templates(id KindID) []string {
	kind, ok := c.kinds[id]
	if !ok {
		return nil
	}
	return slices.Clone(kind.Templates)
}

// Pick returns one of id's phrasings chosen uniformly.
func (c *Catalog) Pick(rng *rand.Rand, id KindID) (string, error) {
	kind, err := c.Kind(id)
	if err != nil {
		return "", err
	}
	return kind.Templates[rng.IntN(len(kind.Templates))], nil
}

// Dwell returns the dwell range configured for id, zero for unknown kinds.
func (c *Catalog) Dwell(id KindID) Range {
	return c.kinds[id].Dwell
}

// Kinds lists all entries in document order.
func (c *Catalog) Kinds() []Kind {
	kinds := make([]Kind, 0, len(c.order))
	for _, id := range c.order {
		kinds = append(kinds, c.kinds[id])
	}
	return kinds
}

// Users returns a copy of the named user pool.
func (c *Catalog) Users(pool string) ([]string, error) {
	users, ok := c.users[pool]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserPoolNotFound, pool)
	}
	return slices.Clone(users), nil
}

// UserPools lists the configured pool names, sorted.
func (c *Catalog) UserPools() []string {
	names := make([]string, 0, len(c.users))
	for name := range c.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
