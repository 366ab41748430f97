// Package types defines the boundary interfaces, value types, and standard
// errors of the slot transfer engine.
//
// The engine never renders, persists, or parses records itself. Hosts supply
// a Viewer per container group, a SlotEditor that commits slot mutations, a
// Transport for the drag-and-drop handoff, and the Renderer, Host, Codec, and
// Converter collaborators. Everything a host hands the engine is expressed in
// terms of this package.
package types
