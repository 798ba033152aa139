// Package io reads and writes interaction networks and pattern files.
//
// # Network Formats
//
// Networks are stored as JSON, TOML or SIF (simple interaction format).
// JSON and TOML share one document model:
//
//	name = "p53"
//	ubiques = ["ATP", "ADP"]
//
//	[[entity]]
//	id = "TP53"
//	type = "Protein"
//
//	[[entity]]
//	id = "TP53:MDM2"
//	type = "Complex"
//	members = ["TP53", "MDM2"]
//
//	[[interaction]]
//	source = "MDM2"
//	target = "TP53"
//	type = "inhibition"
//
// In JSON the arrays are named "entities" and "interactions". An
// interaction's polarity follows its type (inhibition and repression are
// inhibitory) unless "inhibitory" is given explicitly. Members may be
// listed before they are declared; they are resolved once every entity is
// known.
//
// SIF files hold one relation per line, "source type target [target...]",
// separated by tabs or spaces. A line with a single token declares an
// isolated entity.
//
// Use [ImportNetwork] to pick the format from the file extension, or
// [ReadNetwork] with an explicit [Format] for streams.
//
// # Pattern Files
//
// [ReadPattern] decodes a TOML pattern description into a built
// [pattern.Pattern]:
//
//	name = "negative-feedback"
//
//	[[var]]
//	label = "a"
//	type = "Protein"
//	seed = true
//
//	[[var]]
//	label = "b"
//
//	[[constraint]]
//	type = "successor"
//	vars = ["a", "b"]
//
//	[[constraint]]
//	type = "and"
//	vars = ["b", "a"]
//	  [[constraint.children]]
//	  type = "successor"
//	  [[constraint.children]]
//	  type = "equality"
//	  args = { equal = false }
//
// Children of "and", "or" and "not" apply to the parent's variables; a
// child with "slots" reads only the listed positions (see constraint.Map).
// Variables marked seed are supplied to Search in declaration order.
package io
