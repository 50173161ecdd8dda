package main

import (
	"github.com/smalltable/smalltable"
	"github.com/smalltable/smalltable/internal/client"
	"github.com/smalltable/smalltable/internal/host"
)

func newEmptyRepository() (*smalltable.Repository, error) {
	return smalltable.NewRepository(nil)
}

// openTable loads the repository persisted at path and opens a client
// Table against it, returning the host.Store too so the caller can Dump
// changes back before closing it.
func openTable(path string) (*host.Store, *client.Table, error) {
	store, err := host.Open(path)
	if err != nil {
		return nil, nil, err
	}
	repo, err := store.Load()
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, client.NewTable(repo), nil
}
