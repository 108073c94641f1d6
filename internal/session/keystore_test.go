package session

import (
	"bytes"
	"sync"
	"testing"
)

func TestKeyStore_InstallAndGet(t *testing.T) {
	s := NewKeyStore()
	key := []byte{1, 2, 3, 4}

	s.Install("sess-1", key)

	got, ok := s.Get("sess-1")
	if !ok {
		t.Fatalf("expected key for sess-1")
	}
	if !bytes.Equal(got, key) {
		t.Fatalf("got %v, want %v", got, key)
	}
}

func TestKeyStore_GetUnknownSession(t *testing.T) {
	s := NewKeyStore()

	if _, ok := s.Get("nope"); ok {
		t.Fatalf("expected no key for unknown session")
	}
}

func TestKeyStore_EraseRemovesKey(t *testing.T) {
	s := NewKeyStore()
	s.Install("sess-1", []byte{9, 9, 9})

	s.Erase("sess-1")

	if _, ok := s.Get("sess-1"); ok {
		t.Fatalf("key still present after erase")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}

	// erasing again must be a no-op
	s.Erase("sess-1")
}

func TestKeyStore_GetReturnsCopy(t *testing.T) {
	s := NewKeyStore()
	s.Install("sess-1", []byte{5, 5, 5})

	got, _ := s.Get("sess-1")
	got[0] = 0xFF

	again, _ := s.Get("sess-1")
	if again[0] != 5 {
		t.Fatalf("mutating a returned key corrupted the stored key")
	}
}

func TestKeyStore_InstallCopiesCallerSlice(t *testing.T) {
	s := NewKeyStore()
	key := []byte{7, 7, 7}
	s.Install("sess-1", key)

	key[0] = 0xFF

	got, _ := s.Get("sess-1")
	if got[0] != 7 {
		t.Fatalf("mutating the caller slice corrupted the stored key")
	}
}

func TestKeyStore_ReinstallReplacesKey(t *testing.T) {
	s := NewKeyStore()
	s.Install("sess-1", []byte{1})
	s.Install("sess-1", []byte{2})

	got, _ := s.Get("sess-1")
	if got[0] != 2 {
		t.Fatalf("got %v, want reinstalled key", got)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestKeyStore_ConcurrentAccess(t *testing.T) {
	s := NewKeyStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%8))
			s.Install(id, []byte{byte(n)})
			s.Get(id)
			s.Erase(id)
		}(i)
	}
	wg.Wait()
}
