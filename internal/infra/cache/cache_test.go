package cache_test

import (
	"testing"
	"time"

	"github.com/samiatarot/platform-api/internal/infra/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("translations:services:ar:Tarot Reading", "قراءة التاروت")
	val, ok := c.Get("translations:services:ar:Tarot Reading")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "قراءة التاروت" {
		t.Errorf("expected the cached translation, got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	_, ok := c.Get("translations:services:ar:never-stored")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)

	c.Set("translations:decks:en:رؤيا", "Vision")
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("translations:decks:en:رؤيا")
	if ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("translations:spreads:ar:Celtic Cross", "الصليب السلتي")
	c.Delete("translations:spreads:ar:Celtic Cross")

	_, ok := c.Get("translations:spreads:ar:Celtic Cross")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_OverwriteResetsValue(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("translations:packages:ar:Starter", "مبتدئ")
	c.Set("translations:packages:ar:Starter", "باقة المبتدئ")

	val, ok := c.Get("translations:packages:ar:Starter")
	if !ok {
		t.Fatal("expected key to exist after overwrite")
	}
	if val != "باقة المبتدئ" {
		t.Errorf("expected the newer value, got '%s'", val)
	}
}

func TestCache_StopKeepsCacheUsable(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("translations:cards:en:العاشق", "The Lovers")
	c.Stop()
	c.Stop() // second call is a no-op

	val, ok := c.Get("translations:cards:en:العاشق")
	if !ok {
		t.Fatal("expected key to survive Stop")
	}
	if val != "The Lovers" {
		t.Errorf("expected the cached translation, got '%s'", val)
	}
}
