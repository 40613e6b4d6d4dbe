package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"
)

// kvDocument is the CouchDB representation of one key.
type kvDocument struct {
	ID    string `json:"_id"`
	Rev   string `json:"_rev,omitempty"`
	Value string `json:"value"`
}

type CouchStore struct {
	client *kivik.Client
	dbName string
}

// OpenCouch connects to the CouchDB server at url and creates dbName when it
// does not exist yet.
func OpenCouch(ctx context.Context, url, dbName string) (*CouchStore, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
	}

	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %w", err)
	}

	if !exists {
		if err := client.CreateDB(ctx, dbName); err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	return &CouchStore{client: client, dbName: dbName}, nil
}

func (s *CouchStore) Get(ctx context.Context, key string) (string, bool, error) {
	doc, found, err := s.fetch(ctx, key)
	if err != nil || !found {
		return "", found, err
	}
	return doc.Value, true, nil
}

func (s *CouchStore) Set(ctx context.Context, key, value string) error {
	db := s.client.DB(s.dbName)

	current, found, err := s.fetch(ctx, key)
	if err != nil {
		return err
	}

	doc := kvDocument{ID: key, Value: value}
	if found {
		doc.Rev = current.Rev
	}

	if _, err := db.Put(ctx, key, doc); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *CouchStore) Remove(ctx context.Context, key string) error {
	db := s.client.DB(s.dbName)

	current, found, err := s.fetch(ctx, key)
	if err != nil || !found {
		return err
	}

	if _, err := db.Delete(ctx, key, current.Rev); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *CouchStore) Close() error {
	return s.client.Close()
}

func (s *CouchStore) fetch(ctx context.Context, key string) (*kvDocument, bool, error) {
	db := s.client.DB(s.dbName)

	var doc kvDocument
	if err := db.Get(ctx, key).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return &doc, true, nil
}
