package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNullCache_AlwaysMisses(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	_, ok, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() hit = true, want miss")
	}
}

func TestFileCache_SetGet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	want := []byte("rendered svg")
	if err := c.Set(ctx, "render:abc", want, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := c.Get(ctx, "render:abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() hit = false, want hit")
	}
	if string(got) != string(want) {
		t.Errorf("Get() = %q, want %q", got, want)
	}
}

func TestFileCache_MissingKey(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() hit = true, want miss for absent key")
	}
}

func TestFileCache_Expiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, ok, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() hit = true, want miss after expiry")
	}
}

func TestFileCache_Delete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("Get() hit = true after Delete()")
	}

	// Deleting an absent key is not an error.
	if err := c.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete() absent key error = %v", err)
	}
}

func TestScopedCache_PrefixIsolation(t *testing.T) {
	backend, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer backend.Close()
	ctx := context.Background()

	a := NewScoped(backend, "a:")
	b := NewScoped(backend, "b:")

	if err := a.Set(ctx, "key", []byte("from-a"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, ok, _ := b.Get(ctx, "key"); ok {
		t.Error("Get() through other scope hit = true, want miss")
	}
	got, ok, _ := a.Get(ctx, "key")
	if !ok || string(got) != "from-a" {
		t.Errorf("Get() = %q, %v, want %q, true", got, ok, "from-a")
	}
}

func TestHash_Deterministic(t *testing.T) {
	h1 := Hash([]byte("flowchart TD"))
	h2 := Hash([]byte("flowchart TD"))
	if h1 != h2 {
		t.Errorf("Hash() not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(h1))
	}
	if h1 == Hash([]byte("flowchart LR")) {
		t.Error("Hash() identical for different inputs")
	}
}

func TestRenderKey_VariesByFormat(t *testing.T) {
	src := []byte("flowchart TD\n    A --> B\n")
	svg := RenderKey(src, "svg", nil)
	png := RenderKey(src, "png", nil)
	if svg == png {
		t.Error("RenderKey() identical for different formats")
	}
	if svg != RenderKey(src, "svg", nil) {
		t.Error("RenderKey() not deterministic")
	}
}

func TestIsRetryable(t *testing.T) {
	base := errors.New("boom")
	if IsRetryable(base) {
		t.Error("IsRetryable(plain error) = true, want false")
	}
	if !IsRetryable(Retryable(base)) {
		t.Error("IsRetryable(Retryable(err)) = false, want true")
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("permanent")
	})
	if err == nil {
		t.Fatal("RetryWithBackoff() error = nil, want error")
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 for non-retryable error", calls)
	}
}
