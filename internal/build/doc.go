// Package build turns an entry tree into pages and static-file copy
// instructions.
//
// A Session owns everything a build reads besides the tree: formats, loaders,
// ignore rules, filters, static mappings and scope overrides. Build walks the
// tree depth-first, cascading directory data and components down to every
// page. Sessions are independent; nothing is shared through package state.
package build
