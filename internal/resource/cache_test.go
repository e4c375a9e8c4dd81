package resource_test

import (
	"reflect"
	"testing"

	"github.com/ErlanBelekov/focusboard/internal/resource"
)

func TestCache_InsertKeepsKeysUnique(t *testing.T) {
	c := resource.NewCache[note]()
	c.Insert(note{ID: "a", Title: "one"}, resource.Tail)
	c.Insert(note{ID: "b"}, resource.Tail)
	c.Insert(note{ID: "a", Title: "two"}, resource.Head)

	if got := ids(c.List()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ids = %v", got)
	}
	if n, _ := c.Get("a"); n.Title != "two" {
		t.Errorf("title = %q, existing key must be replaced in place", n.Title)
	}
}

func TestCache_RemoveThenInsertAtRestoresOrder(t *testing.T) {
	c := resource.NewCache[note]()
	c.Replace([]note{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	item, idx, ok := c.Remove("b")
	if !ok || idx != 1 {
		t.Fatalf("Remove = %v, %d, %v", item, idx, ok)
	}
	c.InsertAt(item, idx)

	if got := ids(c.List()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("ids = %v", got)
	}
}

func TestCache_InsertAtClampsIndex(t *testing.T) {
	c := resource.NewCache[note]()
	c.Replace([]note{{ID: "a"}})

	c.InsertAt(note{ID: "z"}, 99)
	c.InsertAt(note{ID: "y"}, -3)

	if got := ids(c.List()); !reflect.DeepEqual(got, []string{"y", "a", "z"}) {
		t.Errorf("ids = %v", got)
	}
}

func TestCache_RemoveMissing(t *testing.T) {
	c := resource.NewCache[note]()
	if _, idx, ok := c.Remove("nope"); ok || idx != -1 {
		t.Errorf("Remove(missing) = %d, %v", idx, ok)
	}
}
