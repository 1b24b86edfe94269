// Package uopcache provides a decoded-instruction cache built on Akita
// cache components.
//
// Decode is a pure function of (word, context, capabilities), so a decode
// result can be cached keyed by PC. Each entry stores the raw word
// alongside the record: a lookup whose word no longer matches (e.g. after
// self-modifying code) misses and invalidates the entry. Any change to the
// decode context must be paired with a Reset by the owner.
package uopcache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/rvsim/insts"
)

// instBytes is the directory block size: one 32-bit instruction per block.
const instBytes = 4

// Config holds cache geometry.
type Config struct {
	// NumEntries is the total number of cached decode records.
	NumEntries int
	// Associativity is the number of ways per set.
	Associativity int
}

// DefaultConfig returns a small fully-pipelined front-end cache geometry:
// 512 entries, 4-way.
func DefaultConfig() Config {
	return Config{
		NumEntries:    512,
		Associativity: 4,
	}
}

// Statistics holds cache performance counters.
type Statistics struct {
	Lookups   uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

type entry struct {
	word uint32
	inst *insts.Instruction
}

// Cache caches decoded instruction records keyed by PC, using an Akita
// cache directory for tag and replacement management.
type Cache struct {
	config Config

	// Akita directory for tag/state/LRU management.
	directory *akitacache.DirectoryImpl

	// Decode records, indexed by (setID * associativity + wayID).
	entries []entry

	stats Statistics
}

// New creates a decoded-instruction cache with the given geometry.
func New(config Config) *Cache {
	numSets := config.NumEntries / config.Associativity

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			instBytes,
			akitacache.NewLRUVictimFinder(),
		),
		entries: make([]entry, config.NumEntries),
	}
}

// Config returns the cache geometry.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns the performance counters.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// entryIndex computes the index into entries for a directory block.
func (c *Cache) entryIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// Lookup returns the cached decode record for the instruction at pc, if
// the cached raw word still matches. A word mismatch invalidates the entry
// and reports a miss.
func (c *Cache) Lookup(pc uint64, word uint32) (*insts.Instruction, bool) {
	c.stats.Lookups++

	blockAddr := (pc / instBytes) * instBytes
	block := c.directory.Lookup(0, blockAddr)
	if block == nil || !block.IsValid {
		c.stats.Misses++
		return nil, false
	}

	cached := c.entries[c.entryIndex(block)]
	if cached.word != word {
		// Stale decode of rewritten code.
		block.IsValid = false
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	c.directory.Visit(block) // Update LRU
	return cached.inst, true
}

// Fill installs a decode record for the instruction at pc, evicting the
// LRU way if needed.
func (c *Cache) Fill(pc uint64, word uint32, inst *insts.Instruction) {
	blockAddr := (pc / instBytes) * instBytes

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return
	}
	if victim.IsValid {
		c.stats.Evictions++
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.entries[c.entryIndex(victim)] = entry{word: word, inst: inst}
	c.directory.Visit(victim) // Update LRU
}

// Invalidate drops the entry for pc, if present.
func (c *Cache) Invalidate(pc uint64) {
	blockAddr := (pc / instBytes) * instBytes
	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		block.IsValid = false
	}
}

// Reset invalidates every entry and clears the counters. The owner must
// call this whenever the decode context or capability set changes.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.entries = make([]entry, c.config.NumEntries)
	c.stats = Statistics{}
}
