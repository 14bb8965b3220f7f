// bpmdemo exercises the buffer pool manager and the trie store end to end
// against an in-memory disk manager: allocate one page and write it through
// a guard, flush it, read it back through a read guard, and run a few
// put/get/remove calls through a TrieStore. Run: go run ./cmd/bpmdemo
package main

import (
	"fmt"
	"log"

	"corestore/storage/bufferpool"
	"corestore/storage/diskmanager"
	"corestore/storage/triestore"
)

func main() {
	dm := diskmanager.NewMemDiskManager()
	bpm := bufferpool.New(bufferpool.Config{PoolSize: 4, ReplacerK: 2}, dm)

	id, guard, ok := bpm.NewPageGuarded()
	if !ok {
		log.Fatal("pool saturated on first page")
	}
	copy(guard.Data(), []byte("hello, corestore"))
	guard.SetDirty(true)
	guard.Drop()
	fmt.Printf("wrote page %d\n", id)

	if ok := bpm.FlushPage(id); !ok {
		log.Fatalf("flush page %d failed", id)
	}

	read, ok := bpm.FetchPageRead(id)
	if !ok {
		log.Fatalf("fetch page %d failed", id)
	}
	fmt.Printf("read back: %q\n", read.Data()[:16])
	read.Drop()

	store := triestore.New()
	triestore.Put(store, "answer", 42)
	triestore.Put(store, "answer2", 43)
	if g, ok := triestore.Get[int](store, "answer"); ok {
		fmt.Printf("trie[answer] = %d\n", g.Value())
	}
	triestore.Remove(store, "answer")
	if _, ok := triestore.Get[int](store, "answer"); !ok {
		fmt.Println("trie[answer] removed")
	}
}
