package tsdbjson

import (
	"context"
	"errors"
	"testing"
)

// stubStore is a minimal Store for registry tests.
type stubStore struct{}

func (stubStore) Fetch(context.Context, string) ([]byte, error) { return nil, ErrNotFound }
func (stubStore) Put(context.Context, string, []byte, ...PutOption) error { return nil }
func (stubStore) Exists(context.Context, string) (bool, error) { return false, nil }
func (stubStore) Delete(context.Context, string) error { return nil }
func (stubStore) List(context.Context, string) ([]string, error) { return nil, nil }
func (stubStore) Close() error { return nil }

func TestRegistry(t *testing.T) {
	name := "registry-test-stub"
	Register(name, func(map[string]string) (Store, error) {
		return stubStore{}, nil
	})
	defer Unregister(name)

	if !IsRegistered(name) {
		t.Fatalf("IsRegistered(%q) = false after Register", name)
	}

	store, err := Open(name, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	found := false
	for _, n := range Stores() {
		if n == name {
			found = true
		}
	}
	if !found {
		t.Errorf("Stores() does not contain %q", name)
	}
}

func TestOpenUnknownStore(t *testing.T) {
	_, err := Open("no-such-store", nil)
	if !errors.Is(err, ErrUnknownStore) {
		t.Errorf("Open error = %v, want ErrUnknownStore", err)
	}
}

func TestRegisterNilFactoryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Register(nil) did not panic")
		}
	}()
	Register("nil-factory", nil)
}
