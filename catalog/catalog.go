// Package catalog carries the schema declarations of the services the SDK
// ships models for, embedded at build time.
package catalog

import (
	"embed"
	"sync"

	wiremodel "github.com/reoring/wiremodel"
	"github.com/reoring/wiremodel/declare"
)

//go:embed schemas/*.yaml
var schemas embed.FS

// Services lists the embedded declaration sets.
var Services = []string{"apmtraces", "databasemigration", "dns", "governancerules", "jms"}

var registry = sync.OnceValues(func() (*wiremodel.Registry, error) {
	reg := wiremodel.NewRegistry()
	if err := Load(reg); err != nil {
		return nil, err
	}
	if err := reg.Seal(); err != nil {
		return nil, err
	}
	return reg, nil
})

// Registry returns the sealed catalog registry. It is built once and shared.
func Registry() (*wiremodel.Registry, error) { return registry() }

// MustRegistry is Registry for callers that treat a broken catalog as fatal.
func MustRegistry() *wiremodel.Registry {
	reg, err := Registry()
	if err != nil {
		panic(err)
	}
	return reg
}

// Load registers every embedded declaration in reg without sealing it, so
// callers can add their own schemas next to the catalog.
func Load(reg *wiremodel.Registry) error {
	return declare.LoadFS(reg, schemas, "schemas/*.yaml")
}
