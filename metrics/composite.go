package metrics

import (
	"errors"
	"slices"

	"github.com/arloliu/pressio/options"
)

// CompositePrefix is the registry name of the composite collector.
const CompositePrefix = "composite"

// CompositeKeyPlugins lists the collectors driven by a composite.
const CompositeKeyPlugins = CompositePrefix + ":plugins"

// Composite drives several collectors with the same hooks and merges their
// results. Children run in the configured order; a failing child does not
// stop the others and all failures are joined.
type Composite struct {
	ids      []string
	children []*Plugin
}

var _ Impl = (*Composite)(nil)

// NewComposite creates a composite with no children.
func NewComposite(children ...*Plugin) *Composite {
	c := &Composite{}
	for _, child := range children {
		c.ids = append(c.ids, child.Prefix())
		c.children = append(c.children, child)
	}

	return c
}

func (c *Composite) Prefix() string { return CompositePrefix }

// Children returns the driven collectors.
func (c *Composite) Children() []*Plugin {
	return slices.Clone(c.children)
}

func (c *Composite) Begin(ev Event, call *Call) error {
	var errs []error
	for _, child := range c.children {
		if err := child.Begin(ev, call); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (c *Composite) End(ev Event, call *Call, result error) error {
	var errs []error
	for _, child := range c.children {
		if err := child.End(ev, call, result); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Results merges the children's results; later children win on collisions.
func (c *Composite) Results(nested *options.Options) *options.Options {
	results := options.New()
	for _, child := range c.children {
		results.CopyFrom(child.Results(nested))
	}

	return results
}

func (c *Composite) Clone() Impl {
	children := make([]*Plugin, len(c.children))
	for i, child := range c.children {
		children[i] = child.Clone()
	}

	return &Composite{ids: slices.Clone(c.ids), children: children}
}

func (c *Composite) SetName(name string) {
	for _, child := range c.children {
		if name == "" {
			child.SetName("")
			continue
		}
		child.SetName(name + "/" + child.Prefix())
	}
}

func (c *Composite) Options() *options.Options {
	opts := options.New()
	options.Put(opts, CompositeKeyPlugins, slices.Clone(c.ids))
	for _, child := range c.children {
		opts.CopyFrom(child.Options())
	}

	return opts
}

// SetOptions rebuilds the children when composite:plugins changes, then
// forwards opts to every child.
func (c *Composite) SetOptions(opts *options.Options) error {
	if ids, status := options.Get[[]string](opts, CompositeKeyPlugins); status == options.KeySet && !slices.Equal(ids, c.ids) {
		children := make([]*Plugin, 0, len(ids))
		for _, id := range ids {
			child, err := Build(id)
			if err != nil {
				return err
			}
			children = append(children, child)
		}
		c.ids = slices.Clone(ids)
		c.children = children
	}

	var errs []error
	for _, child := range c.children {
		if err := child.SetOptions(opts); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Configuration reports the weakest thread safety among the children.
func (c *Composite) Configuration() *options.Options {
	safety := options.ThreadSafetyMultiple
	for _, child := range c.children {
		safety = min(safety, options.ThreadSafetyOf(child.Configuration()))
	}

	cfg := options.New()
	options.Put(cfg, options.KeyThreadSafe, int32(safety))

	return cfg
}

func (c *Composite) Documentation() *options.Options {
	docs := options.New()
	for _, child := range c.children {
		docs.CopyFrom(child.Documentation())
	}
	options.Put(docs, options.KeyDescription, "drives several collectors and merges their results")
	options.Put(docs, CompositeKeyPlugins, "names of the collectors to drive")

	return docs
}
