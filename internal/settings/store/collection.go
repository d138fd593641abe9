// Package store keeps the loaded and edited snapshots of one settings
// collection and computes the writes needed to move the server from one to
// the other.
package store

import (
	"slices"

	"github.com/commhub/community-settings/internal/settings/domain"
)

// Kind describes one resource type held in a Collection.
type Kind[T any] struct {
	Name string
	// ID returns the identity of an item.
	ID func(T) domain.ID
	// New builds an unsaved item with default field values and a pending id.
	New func() T
	// Valid reports whether a pending item is complete enough to be created.
	Valid func(T) bool
	// Changed reports whether any tracked field differs between snapshots.
	Changed func(initial, current T) bool
}

// Field is a named, typed setter for one editable attribute of T.
type Field[T any] struct {
	Name string
	Set  func(*T, string)
}

// Plan lists the writes that reconcile a Collection with the server.
type Plan[T any] struct {
	Create   []T
	Update   []T
	DeleteID []domain.ID
}

func (p Plan[T]) Empty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.DeleteID) == 0
}

func (p Plan[T]) Len() int {
	return len(p.Create) + len(p.Update) + len(p.DeleteID)
}

// Collection holds the initial (as fetched) and current (as edited) items of
// one resource together with the ids removed since loading.
// It is not safe for concurrent use; the editing session serialises access.
type Collection[T any] struct {
	kind    Kind[T]
	initial []T
	current []T
	deleted []domain.ID
}

func NewCollection[T any](kind Kind[T]) *Collection[T] {
	return &Collection[T]{kind: kind}
}

func (c *Collection[T]) Kind() Kind[T] { return c.kind }

// Reset replaces both snapshots with freshly fetched items and forgets deletions.
func (c *Collection[T]) Reset(items []T) {
	c.initial = slices.Clone(items)
	c.current = slices.Clone(items)
	c.deleted = nil
}

// Add appends a new unsaved item and returns it.
func (c *Collection[T]) Add() T {
	item := c.kind.New()
	c.current = append(c.current, item)
	return item
}

// Append adds an item built by the caller, e.g. a lazily created value row.
func (c *Collection[T]) Append(item T) {
	c.current = append(c.current, item)
}

// Edit sets one field of the item with the given id. It reports false when
// no such item exists.
func (c *Collection[T]) Edit(id domain.ID, field Field[T], value string) bool {
	return c.Update(id, func(item *T) { field.Set(item, value) })
}

// Update applies fn to the item with the given id.
func (c *Collection[T]) Update(id domain.ID, fn func(*T)) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	item := c.current[i]
	fn(&item)
	c.current[i] = item
	return true
}

// Remove drops the item from the current snapshot. Persisted items are
// remembered so the next Diff deletes them on the server; pending ones vanish.
func (c *Collection[T]) Remove(id domain.ID) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.current = slices.Delete(c.current, i, i+1)
	if !id.IsPending() && !slices.Contains(c.deleted, id) {
		c.deleted = append(c.deleted, id)
	}
	return true
}

func (c *Collection[T]) Get(id domain.ID) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.current[i], true
	}
	var zero T
	return zero, false
}

// Items returns a copy of the current snapshot.
func (c *Collection[T]) Items() []T { return slices.Clone(c.current) }

// DeletedIDs returns the persisted ids removed since the last Reset.
func (c *Collection[T]) DeletedIDs() []domain.ID { return slices.Clone(c.deleted) }

// Diff computes the writes needed to reach the current snapshot from the
// initial one. It does not modify the collection, so repeated calls without
// edits in between return equal plans.
func (c *Collection[T]) Diff() Plan[T] {
	plan := Plan[T]{DeleteID: slices.Clone(c.deleted)}

	initial := make(map[domain.ID]T, len(c.initial))
	for _, it := range c.initial {
		initial[c.kind.ID(it)] = it
	}

	for _, it := range c.current {
		id := c.kind.ID(it)
		if id.IsPending() {
			if c.kind.Valid == nil || c.kind.Valid(it) {
				plan.Create = append(plan.Create, it)
			}
			continue
		}
		before, ok := initial[id]
		switch {
		case !ok:
			plan.Create = append(plan.Create, it)
		case c.kind.Changed(before, it):
			plan.Update = append(plan.Update, it)
		}
	}
	return plan
}

// Dirty reports whether Diff would produce any write.
func (c *Collection[T]) Dirty() bool {
	return !c.Diff().Empty()
}

func (c *Collection[T]) index(id domain.ID) int {
	return slices.IndexFunc(c.current, func(it T) bool { return c.kind.ID(it) == id })
}
