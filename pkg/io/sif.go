package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	"github.com/matzehuels/pathquery/pkg/network"
)

// ReadSIF decodes a simple interaction format network. Entities are
// created on first mention with type PhysicalEntity. Blank lines and
// lines starting with '#' are ignored.
func ReadSIF(r io.Reader, name string) (*network.Network, error) {
	n := network.New(name)
	ensure := func(id string, line int) error {
		if _, ok := n.Entity(id); ok {
			return nil
		}
		if _, err := n.AddEntity(network.Entity{ID: id}); err != nil {
			return pqerrors.Wrap(pqerrors.ErrCodeInvalidFormat, err, "line %d", line)
		}
		return nil
	}

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if err := ensure(fields[0], line); err != nil {
			return nil, err
		}
		switch len(fields) {
		case 1:
			continue
		case 2:
			return nil, pqerrors.New(pqerrors.ErrCodeInvalidFormat, "line %d: relation %q has no target", line, fields[1])
		}
		for _, target := range fields[2:] {
			if err := ensure(target, line); err != nil {
				return nil, err
			}
			if err := n.Link(fields[0], fields[1], target); err != nil {
				return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidFormat, err, "line %d", line)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sif: %w", err)
	}
	return n, nil
}

// WriteSIF writes one line per interaction followed by one line per entity
// without interactions. Entity types, membership and explicit polarity are
// not representable in SIF and are dropped.
func WriteSIF(n *network.Network, w io.Writer) error {
	bw := bufio.NewWriter(w)
	linked := make(map[string]bool)
	for _, in := range n.Interactions() {
		linked[in.Source] = true
		linked[in.Target] = true
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", in.Source, in.Type, in.Target); err != nil {
			return err
		}
	}
	for _, e := range n.Entities() {
		if !linked[e.ID] {
			if _, err := fmt.Fprintln(bw, e.ID); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
