// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package generator

import (
	"errors"
	"slices"

	"codeberg.org/inkpost/inkpost/core/idgen"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrSectionIndex    = errors.New("section index out of range")
	ErrTooManySections = errors.New("too many sections")
)

// AddSection appends a section with a fresh ID and returns it.
func (c *Config) AddSection(content string) (Section, error) {
	if len(c.Sections) >= MaxSections {
		return Section{}, ErrTooManySections
	}

	s := Section{ID: idgen.Section(), Content: content}
	c.Sections = append(c.Sections, s)

	return s, nil
}

// RemoveSection deletes the section with the given ID.
func (c *Config) RemoveSection(id string) error {
	i := c.sectionIndex(id)
	if i < 0 {
		return ErrSectionNotFound
	}

	c.Sections = slices.Delete(c.Sections, i, i+1)

	return nil
}

// MoveSection moves the section with the given ID to position to.
func (c *Config) MoveSection(id string, to int) error {
	from := c.sectionIndex(id)
	if from < 0 {
		return ErrSectionNotFound
	}

	if to < 0 || to >= len(c.Sections) {
		return ErrSectionIndex
	}

	s := c.Sections[from]
	c.Sections = slices.Insert(slices.Delete(c.Sections, from, from+1), to, s)

	return nil
}

// UpdateSection replaces the content of the section with the given ID.
func (c *Config) UpdateSection(id, content string) error {
	i := c.sectionIndex(id)
	if i < 0 {
		return ErrSectionNotFound
	}

	c.Sections[i].Content = content

	return nil
}

// EnsureSectionIDs gives every section without a well-formed ID a fresh one.
func (c *Config) EnsureSectionIDs() {
	for i := range c.Sections {
		if !idgen.ValidSection(c.Sections[i].ID) {
			c.Sections[i].ID = idgen.Section()
		}
	}
}

func (c *Config) sectionIndex(id string) int {
	return slices.IndexFunc(c.Sections, func(s Section) bool { return s.ID == id })
}
