// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package render

// Kind selects how section text is segmented.
type Kind int

const (
	// Prose splits paragraphs and segments quotes inline.
	Prose Kind = iota
	// Chat segments lines into speaker blocks using the config's mode.
	Chat
)

// Skeleton describes one generator's markup around the shared body rendering.
// Header runs for the first section only. Nil slots contribute nothing, except
// Wrap and Section which default to the identity.
type Skeleton struct {
	Name    string
	Kind    Kind
	Wrap    func(s *Scope, inner string) string
	Header  func(s *Scope) string
	Section func(s *Scope, index int, body string) string
	Spacer  func(s *Scope) string
	Footer  func(s *Scope) string
}

var skeletons = map[string]Skeleton{}

// Register adds a skeleton. It panics on a duplicate name, which is a
// programming error caught at init.
func Register(sk Skeleton) {
	if _, dup := skeletons[sk.Name]; dup {
		panic("render: duplicate skeleton " + sk.Name)
	}

	skeletons[sk.Name] = sk
}

// Lookup returns the skeleton registered under name.
func Lookup(name string) (Skeleton, bool) {
	sk, ok := skeletons[name]

	return sk, ok
}
