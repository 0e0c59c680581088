package avatarcache_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dalemusser/facultyhub/internal/app/system/avatarcache"
)

func TestCache_GetSet(t *testing.T) {
	c := avatarcache.New()

	if _, ok := c.Get("a@uni.edu"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("a@uni.edu", "/media/avatars/a.png")
	url, ok := c.Get("a@uni.edu")
	if !ok || url != "/media/avatars/a.png" {
		t.Fatalf("got %q, %v", url, ok)
	}

	c.Set("a@uni.edu", "/media/avatars/a2.png")
	url, _ = c.Get("a@uni.edu")
	if url != "/media/avatars/a2.png" {
		t.Fatalf("expected replacement, got %q", url)
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := avatarcache.New()
	c.Set("b@uni.edu", "/media/avatars/b.png")
	c.Invalidate("b@uni.edu")
	if _, ok := c.Get("b@uni.edu"); ok {
		t.Fatal("expected entry removed")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := avatarcache.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@uni.edu", n%5)
			c.Set(email, "/media/avatars/x.png")
			c.Get(email)
			c.Invalidate(email)
		}(i)
	}
	wg.Wait()
}
