package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	"github.com/matzehuels/pathquery/pkg/network"
)

type networkDoc struct {
	Name         string           `json:"name" toml:"name"`
	Description  string           `json:"description,omitempty" toml:"description,omitempty"`
	Ubiques      []string         `json:"ubiques,omitempty" toml:"ubiques,omitempty"`
	Entities     []entityDoc      `json:"entities" toml:"entity"`
	Interactions []interactionDoc `json:"interactions" toml:"interaction"`
}

type entityDoc struct {
	ID      string         `json:"id" toml:"id"`
	Name    string         `json:"name,omitempty" toml:"name,omitempty"`
	Type    string         `json:"type,omitempty" toml:"type,omitempty"`
	Members []string       `json:"members,omitempty" toml:"members,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty" toml:"attrs,omitempty"`
}

type interactionDoc struct {
	Source     string `json:"source" toml:"source"`
	Target     string `json:"target" toml:"target"`
	Type       string `json:"type,omitempty" toml:"type,omitempty"`
	Inhibitory *bool  `json:"inhibitory,omitempty" toml:"inhibitory,omitempty"`
}

// ReadNetwork decodes a network in the given format from r.
// ReadNetwork does not close r.
func ReadNetwork(r io.Reader, format Format) (*network.Network, error) {
	switch format {
	case FormatJSON:
		var doc networkDoc
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidFormat, err, "decode network json")
		}
		return fromDoc(doc)
	case FormatTOML:
		var doc networkDoc
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidFormat, err, "decode network toml")
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, pqerrors.New(pqerrors.ErrCodeInvalidFormat, "unknown network keys: %v", undec)
		}
		return fromDoc(doc)
	case FormatSIF:
		return ReadSIF(r, "")
	}
	return nil, pqerrors.New(pqerrors.ErrCodeInvalidFormat, "unsupported network format %q", format)
}

// ImportNetwork reads the network file at path, inferring the format from
// its extension. SIF networks are named after the file.
func ImportNetwork(path string) (*network.Network, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if format == FormatSIF {
		return ReadSIF(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	n, err := ReadNetwork(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// WriteNetwork encodes n in the given format. The output can be read back
// with [ReadNetwork].
func WriteNetwork(n *network.Network, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(toDoc(n)); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(toDoc(n)); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatSIF:
		return WriteSIF(n, w)
	}
	return pqerrors.New(pqerrors.ErrCodeInvalidFormat, "unsupported network format %q", format)
}

// ExportNetwork writes n to path in the format implied by its extension.
func ExportNetwork(n *network.Network, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteNetwork(n, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fromDoc(doc networkDoc) (*network.Network, error) {
	n := network.New(doc.Name)
	n.Description = doc.Description

	for _, e := range doc.Entities {
		ent := network.Entity{ID: e.ID, Name: e.Name, Attrs: e.Attrs}
		if e.Type != "" {
			t, err := network.ParseType(e.Type)
			if err != nil {
				return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidInput, err, "entity %s", e.ID)
			}
			ent.Type = t
		}
		if _, err := n.AddEntity(ent); err != nil {
			return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidInput, err, "entity %s", e.ID)
		}
	}
	for _, e := range doc.Entities {
		for _, m := range e.Members {
			if err := n.AddMember(e.ID, m); err != nil {
				return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidInput, err, "members of %s", e.ID)
			}
		}
	}
	for _, in := range doc.Interactions {
		inhibitory := network.Inhibitory(in.Type)
		if in.Inhibitory != nil {
			inhibitory = *in.Inhibitory
		}
		err := n.AddInteraction(network.Interaction{
			Source:     in.Source,
			Target:     in.Target,
			Type:       in.Type,
			Inhibitory: inhibitory,
		})
		if err != nil {
			return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidInput, err, "interaction %s->%s", in.Source, in.Target)
		}
	}
	n.MarkUbique(doc.Ubiques...)
	return n, nil
}

func toDoc(n *network.Network) networkDoc {
	doc := networkDoc{
		Name:         n.Name,
		Description:  n.Description,
		Ubiques:      n.Ubiques(),
		Entities:     make([]entityDoc, 0, n.Len()),
		Interactions: []interactionDoc{},
	}
	for _, e := range n.Entities() {
		doc.Entities = append(doc.Entities, entityDoc{
			ID:      e.ID,
			Name:    e.Name,
			Type:    string(e.Type),
			Members: e.Members(),
			Attrs:   e.Attrs,
		})
	}
	for _, in := range n.Interactions() {
		d := interactionDoc{Source: in.Source, Target: in.Target, Type: in.Type}
		if in.Inhibitory != network.Inhibitory(in.Type) {
			v := in.Inhibitory
			d.Inhibitory = &v
		}
		doc.Interactions = append(doc.Interactions, d)
	}
	return doc
}
