// Package network is a small reference model of a biological interaction
// network: typed entities (proteins, small molecules, complexes, nucleic
// acids, genes), directed interactions with polarity, complex membership
// and a list of ubiquitous molecules.
//
// A [Network] plugs into the query engine through the capability
// interfaces of package graph: entities implement [graph.Object] and
// [graph.Attributed], and the network itself is both the
// [graph.RelationSelector] and the [graph.MembershipSelector]:
//
//	n := network.New("p53")
//	_, _ = n.AddEntity(network.Entity{ID: "TP53", Type: network.TypeProtein})
//	_, _ = n.AddEntity(network.Entity{ID: "MDM2", Type: network.TypeProtein})
//	_ = n.Link("MDM2", network.Inhibition, "TP53")
//	g, err := n.Graph()
//
// Networks are loaded from and saved to files by package io and persisted
// by package store.
package network
