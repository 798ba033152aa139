// Package store persists named interaction networks.
//
// A [Store] maps network names to [network.Network] values. Two backends
// are provided: [FileStore] keeps one file per network in a directory and
// is what the CLI uses; [MongoStore] keeps networks in a MongoDB collection
// for the HTTP service. [Cached] puts a cache in front of either.
//
// Names must satisfy errors.ValidateName. Loading an unknown name fails
// with ErrCodeNotFound.
package store

import (
	"context"
	"time"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	"github.com/matzehuels/pathquery/pkg/network"
)

// Store persists networks by name.
type Store interface {
	// List describes every stored network, ordered by name.
	List(ctx context.Context) ([]Info, error)

	// Load returns the named network.
	Load(ctx context.Context, name string) (*network.Network, error)

	// Save stores n under n.Name, replacing any previous version.
	Save(ctx context.Context, n *network.Network) error

	// Delete removes the named network.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}

// Info summarizes a stored network.
type Info struct {
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Entities     int       `json:"entities"`
	Interactions int       `json:"interactions"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func infoOf(n *network.Network, updated time.Time) Info {
	return Info{
		Name:         n.Name,
		Description:  n.Description,
		Entities:     n.Len(),
		Interactions: len(n.Interactions()),
		UpdatedAt:    updated,
	}
}

func notFound(name string) error {
	return pqerrors.New(pqerrors.ErrCodeNotFound, "network %q not found", name)
}
